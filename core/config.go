/*
NAME
  config.go

DESCRIPTION
  config.go provides Core's configuration, adapted from
  revid/config.Config's pattern of carrying the logger alongside the
  handful of knobs the library itself needs, per SPEC_FULL.md's AMBIENT
  STACK section.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import (
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/decode"
)

// maxFileSize is the 2 GiB input cap spec §5/§6 requires.
const maxFileSize = 2 << 30

// Config holds the knobs Core itself needs. There is no file-format
// config parsing here (that is host/CLI territory, explicitly out of
// scope per spec §1); a host constructs Config programmatically or
// decodes one from its own config file into this struct.
type Config struct {
	// Logger receives every log line Core and the components it drives
	// produce. Defaults to a no-op logger if nil.
	Logger Logger

	// DecodeCacheSize is K, the FrameDecodeCoordinator's bounded LRU
	// capacity, per spec §4.5. Rounded up to the next power of two;
	// zero uses the default of 16.
	DecodeCacheSize int

	// MaxFileSize overrides the default 2 GiB input cap, for tests that
	// need to exercise the ErrFileTooLarge size-limit path without
	// allocating gigabytes. Zero uses the default.
	MaxFileSize int64

	// RestrictedPathPrefixes, when non-empty, replaces path.go's built-in
	// restricted-prefix list for tests that need to validate paths
	// against a synthetic filesystem layout rather than the real one.
	RestrictedPathPrefixes []string

	// NewDecoder constructs the ExternalDecoder driving a newly opened
	// stream's codec, per spec §1's "external codec decoder" collaborator.
	// RequestFrameDecode fails with a diagnostic if this is nil.
	NewDecoder func(container.Codec) decode.ExternalDecoder
}

// logger returns c's Logger, or a no-op logger if none was set.
func (c Config) logger() Logger {
	if c.Logger == nil {
		return nopLogger{}
	}
	return c.Logger
}

// maxFileSizeOrDefault returns c's file size cap, or the default 2 GiB.
func (c Config) maxFileSizeOrDefault() int64 {
	if c.MaxFileSize <= 0 {
		return maxFileSize
	}
	return c.MaxFileSize
}
