/*
NAME
  event.go

DESCRIPTION
  event.go defines the Event types a Core command returns, per spec
  §4.8: ModelUpdated, SelectionChanged, DiagnosticAdded, and
  FrameDecoded (the RequestFrameDecode command's result event, named
  alongside the other three in spec §6's command table).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import (
	"github.com/ausocean/bitscope/decode"
	"github.com/ausocean/bitscope/diag"
	"github.com/ausocean/bitscope/unit"
)

// EventKind identifies which of Event's fields are populated.
type EventKind uint8

const (
	EventModelUpdated EventKind = iota
	EventSelectionChanged
	EventDiagnosticAdded
	EventFrameDecoded
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventModelUpdated:
		return "ModelUpdated"
	case EventSelectionChanged:
		return "SelectionChanged"
	case EventDiagnosticAdded:
		return "DiagnosticAdded"
	case EventFrameDecoded:
		return "FrameDecoded"
	default:
		return "Unknown"
	}
}

// Event is one notification a command produces. Subscribers react by
// re-reading Core's shared state through its own accessor methods; Core
// never calls back into a subscriber synchronously (spec §4.8).
type Event struct {
	Kind     EventKind
	StreamID unit.StreamID

	// Set when Kind == EventModelUpdated. Nil Units means the stream was
	// closed and its model cleared.
	Units *unit.Model

	// Set when Kind == EventSelectionChanged.
	Selection SelectionState

	// Set when Kind == EventDiagnosticAdded.
	Diagnostic diag.Diagnostic

	// Set when Kind == EventFrameDecoded.
	FrameIndex   uint32
	DecodedFrame *decode.DecodedFrame
}

// modelUpdated builds a ModelUpdated event.
func modelUpdated(stream unit.StreamID, m *unit.Model) Event {
	return Event{Kind: EventModelUpdated, StreamID: stream, Units: m}
}

// selectionChanged builds a SelectionChanged event.
func selectionChanged(stream unit.StreamID, sel SelectionState) Event {
	return Event{Kind: EventSelectionChanged, StreamID: stream, Selection: sel}
}

// diagnosticAdded builds a DiagnosticAdded event.
func diagnosticAdded(stream unit.StreamID, d diag.Diagnostic) Event {
	return Event{Kind: EventDiagnosticAdded, StreamID: stream, Diagnostic: d}
}

// frameDecoded builds a FrameDecoded event.
func frameDecoded(stream unit.StreamID, frameIndex uint32, f decode.DecodedFrame) Event {
	return Event{Kind: EventFrameDecoded, StreamID: stream, FrameIndex: frameIndex, DecodedFrame: &f}
}
