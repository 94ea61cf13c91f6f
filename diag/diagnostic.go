/*
NAME
  diagnostic.go

DESCRIPTION
  diagnostic.go provides the severity-tagged diagnostic record emitted by
  every layer of bitscope when it encounters a recoverable condition.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package diag provides the wire-stable Diagnostic record used to surface
// recoverable parse/decode/resource conditions to subscribers without
// aborting the operation that produced them.
package diag

// Severity classifies a Diagnostic.
type Severity uint8

const (
	Info Severity = iota
	Warn
	Error
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warn:
		return "Warn"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Diagnostic is the wire-stable record described in spec §6. OffsetBytes,
// OffsetBits, FrameIndex and Codec are optional (zero value means absent);
// callers that need to distinguish "0" from "absent" should consult the
// accompanying Has* field (Codec has none; an empty Codec means absent).
type Diagnostic struct {
	Severity Severity
	Message  string
	Kind     string // e.g. "TruncatedUnit", "BadLength", "Resync".

	OffsetBytes    uint64
	HasOffsetBytes bool

	OffsetBits    uint64
	HasOffsetBits bool

	FrameIndex    uint32
	HasFrameIndex bool

	Codec string
}

// WithOffsetBytes returns a copy of d with OffsetBytes set.
func (d Diagnostic) WithOffsetBytes(off uint64) Diagnostic {
	d.OffsetBytes = off
	d.HasOffsetBytes = true
	return d
}

// WithOffsetBits returns a copy of d with OffsetBits set.
func (d Diagnostic) WithOffsetBits(off uint64) Diagnostic {
	d.OffsetBits = off
	d.HasOffsetBits = true
	return d
}

// WithFrameIndex returns a copy of d with FrameIndex set.
func (d Diagnostic) WithFrameIndex(idx uint32) Diagnostic {
	d.FrameIndex = idx
	d.HasFrameIndex = true
	return d
}

// WithCodec returns a copy of d with Codec set.
func (d Diagnostic) WithCodec(codec string) Diagnostic {
	d.Codec = codec
	return d
}

// New constructs a Diagnostic with the given severity, kind and message.
func New(sev Severity, kind, message string) Diagnostic {
	return Diagnostic{Severity: sev, Kind: kind, Message: message}
}

// Resync builds the Warn diagnostic a parser emits when it recovers to the
// next synchronization point after a malformed unit (spec §4.2).
func Resync(codec string, skipped int, offsetBytes uint64) Diagnostic {
	return New(Warn, "Resync", "resynchronized after malformed unit").
		WithCodec(codec).
		WithOffsetBytes(offsetBytes)
}

// Sink accumulates diagnostics produced during an operation. It is not
// safe for concurrent use; callers owning a single request (OpenFile,
// ExtractOverlay, ...) should use a fresh Sink.
type Sink struct {
	items []Diagnostic
}

// Add appends d to the sink.
func (s *Sink) Add(d Diagnostic) { s.items = append(s.items, d) }

// Items returns the accumulated diagnostics in emission order.
func (s *Sink) Items() []Diagnostic { return s.items }

// Len returns the number of accumulated diagnostics.
func (s *Sink) Len() int { return len(s.items) }
