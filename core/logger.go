/*
NAME
  logger.go

DESCRIPTION
  logger.go mirrors revid.Logger from the teacher repo: a minimal
  level-and-message logging contract that Core carries in its Config and
  hands to each stream's decode coordinator, without depending on a
  concrete logging backend. The container and codec packages take no
  logger.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

// Logger mirrors github.com/ausocean/av/revid.Logger: the ambient
// logging contract used across the module. The concrete implementation
// (e.g. github.com/ausocean/utils/logging.Logger) is supplied by the
// host application (desktop UI or CLI, both out of scope per spec §1);
// Core only ever calls through this interface.
type Logger interface {
	SetLevel(int8)
	Log(level int8, message string, params ...interface{})
}

// Log levels, matching the values github.com/ausocean/utils/logging
// defines (logging.Debug, logging.Info, logging.Warning, logging.Error,
// logging.Fatal), duplicated here so this package has no hard dependency
// on the concrete logging backend.
const (
	LevelDebug int8 = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

// nopLogger discards everything; used when a Config is constructed
// without an explicit Logger.
type nopLogger struct{}

func (nopLogger) SetLevel(int8)                                {}
func (nopLogger) Log(level int8, message string, params ...interface{}) {}
