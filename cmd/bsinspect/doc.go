/*
NAME
  doc.go

DESCRIPTION
  Package bsinspect is the internal smoke-test driver named in
  SPEC_FULL.md's package layout: it blank-imports every concrete
  container and codec package for their init-time registration side
  effects and exercises core.Core end to end in its tests, the way a
  host application would, without shipping a CLI surface of its own.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bsinspect wires every container and codec plugin into a single
// binary and drives core.Core against synthetic fixtures, the way a host
// application's own wiring package would.
package bsinspect

import (
	_ "github.com/ausocean/bitscope/container/annexb"
	_ "github.com/ausocean/bitscope/container/ivf"
	_ "github.com/ausocean/bitscope/container/mkv"
	_ "github.com/ausocean/bitscope/container/mp4"
	_ "github.com/ausocean/bitscope/container/mts"

	_ "github.com/ausocean/bitscope/codec/av1"
	_ "github.com/ausocean/bitscope/codec/av3"
	_ "github.com/ausocean/bitscope/codec/avc"
	_ "github.com/ausocean/bitscope/codec/hevc"
	_ "github.com/ausocean/bitscope/codec/mpeg2"
	_ "github.com/ausocean/bitscope/codec/vp9"
	_ "github.com/ausocean/bitscope/codec/vvc"
)
