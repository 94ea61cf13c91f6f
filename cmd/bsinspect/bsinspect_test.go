/*
NAME
  bsinspect_test.go

DESCRIPTION
  bsinspect_test.go drives core.Core end to end against a synthetic
  in-memory IVF/AV1 fixture: OpenFile, SelectFrame, ExtractOverlay and
  RequestFrameDecode, the way a host application exercises the whole
  module together rather than one package at a time.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bsinspect

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/core"
	"github.com/ausocean/bitscope/decode"
	"github.com/ausocean/bitscope/grid"
	"github.com/ausocean/bitscope/unit"
)

const testStream unit.StreamID = 0

// obuWriter appends length-prefixed OBUs the way av1.SplitOBUs expects:
// obu_header (type, has_size_field=1) followed by a one-byte leb128 size
// and the payload. Every payload here fits under 128 bytes.
type obuWriter struct{ buf []byte }

func (w *obuWriter) add(obuType byte, payload []byte) {
	w.buf = append(w.buf, (obuType<<3)|0x02, byte(len(payload)))
	w.buf = append(w.buf, payload...)
}

// bitWriter is the same minimal MSB-first bit writer av1's own tests use
// to hand-construct sequence/frame header payloads.
type bitWriter struct {
	bytes   []byte
	cur     byte
	curBits int
}

func (w *bitWriter) writeBits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		w.cur = w.cur<<1 | bit
		w.curBits++
		if w.curBits == 8 {
			w.bytes = append(w.bytes, w.cur)
			w.cur, w.curBits = 0, 0
		}
	}
}

func (w *bitWriter) bytesPadded() []byte {
	if w.curBits > 0 {
		w.cur <<= uint(8 - w.curBits)
		w.bytes = append(w.bytes, w.cur)
		w.cur, w.curBits = 0, 0
	}
	return w.bytes
}

// reducedSeqHeader builds a reduced_still_picture_header sequence header,
// which forces every frame in the stream to be a key frame without
// needing any frame-header bits parsed (mirrors codec/av1's own tests).
func reducedSeqHeader(width, height uint64) []byte {
	w := &bitWriter{}
	w.writeBits(0, 3) // seq_profile
	w.writeBits(0, 1) // still_picture
	w.writeBits(1, 1) // reduced_still_picture_header
	w.writeBits(0, 5) // seq_level_idx[0]
	w.writeBits(15, 4)
	w.writeBits(15, 4)
	w.writeBits(width-1, 16)
	w.writeBits(height-1, 16)
	return w.bytesPadded()
}

// accessUnit builds one IVF "frame" payload: a temporal delimiter, an
// optional sequence header, and a frame header OBU.
func accessUnit(withSeqHeader bool, width, height uint64) []byte {
	w := &obuWriter{}
	w.add(2, nil) // OBU_TEMPORAL_DELIMITER
	if withSeqHeader {
		w.add(1, reducedSeqHeader(width, height)) // OBU_SEQUENCE_HEADER
	}
	w.add(3, nil) // OBU_FRAME_HEADER; reduced header ignores the payload.
	return w.buf
}

// buildIVF assembles a minimal "DKIF"-tagged IVF file carrying an AV01
// stream of frames, per container/ivf's documented header layout.
func buildIVF(width, height uint16, frames [][]byte) []byte {
	buf := make([]byte, 32)
	copy(buf[0:4], "DKIF")
	copy(buf[8:12], "AV01")
	binary.LittleEndian.PutUint16(buf[12:14], width)
	binary.LittleEndian.PutUint16(buf[14:16], height)
	binary.LittleEndian.PutUint32(buf[16:20], 1)
	binary.LittleEndian.PutUint32(buf[20:24], 30)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(len(frames)))

	for i, f := range frames {
		hdr := make([]byte, 12)
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(f)))
		binary.LittleEndian.PutUint64(hdr[4:12], uint64(i))
		buf = append(buf, hdr...)
		buf = append(buf, f...)
	}
	return buf
}

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.ivf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// fakeDecoder decodes one SourceFrame into an all-zero DecodedFrame per
// SendData call, enough to exercise FrameDecodeCoordinator's plumbing
// without a real AV1 decoder.
type fakeDecoder struct {
	width, height int
	pending       []decode.DecodedFrame
	sent          uint32
}

func (d *fakeDecoder) SendData(data []byte, timestamp int64) error {
	d.pending = append(d.pending, decode.DecodedFrame{
		FrameIndex: d.sent,
		Width:      d.width,
		Height:     d.height,
		BitDepth:   8,
		Y:          make([]byte, d.width*d.height),
		U:          make([]byte, (d.width/2)*(d.height/2)),
		V:          make([]byte, (d.width/2)*(d.height/2)),
	})
	d.sent++
	return nil
}

func (d *fakeDecoder) GetFrame() (decode.DecodedFrame, error) {
	if len(d.pending) == 0 {
		return decode.DecodedFrame{}, decode.ErrAgain
	}
	f := d.pending[0]
	d.pending = d.pending[1:]
	return f, nil
}

func TestCoreEndToEndAV1IVF(t *testing.T) {
	data := buildIVF(64, 48, [][]byte{
		accessUnit(true, 64, 48),
		accessUnit(false, 64, 48),
	})
	path := writeFixture(t, data)

	var dec *fakeDecoder
	c := core.New(core.Config{
		NewDecoder: func(codec container.Codec) decode.ExternalDecoder {
			dec = &fakeDecoder{width: 64, height: 48}
			return dec
		},
	})

	const stream = testStream
	events, err := c.OpenFile(stream, path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if len(events) == 0 || events[0].Kind != core.EventModelUpdated {
		t.Fatalf("expected a ModelUpdated event first, got %+v", events)
	}

	model := c.Model(stream)
	if model == nil {
		t.Fatal("Model returned nil after a successful OpenFile")
	}
	if model.FrameCount != 2 {
		t.Fatalf("FrameCount = %d, want 2", model.FrameCount)
	}

	idx := c.IndexMap(stream)
	if idx == nil || idx.FrameCount() != 2 {
		t.Fatalf("IndexMap = %+v, want 2 frames", idx)
	}

	if _, err := c.SelectFrame(stream, 0, core.AxisDecode); err != nil {
		t.Fatalf("SelectFrame: %v", err)
	}
	if _, err := c.SelectFrame(stream, 99, core.AxisDecode); err == nil {
		t.Fatal("SelectFrame with an out-of-range index should fail")
	}

	g, overlayEvents, err := c.ExtractOverlay(stream, 0, grid.KindQP)
	if err != nil {
		t.Fatalf("ExtractOverlay: %v", err)
	}
	if g == nil {
		t.Fatal("ExtractOverlay returned a nil grid")
	}
	if len(overlayEvents) != 1 || overlayEvents[0].Kind != core.EventDiagnosticAdded {
		t.Fatalf("expected one scaffold diagnostic event, got %+v", overlayEvents)
	}

	decodeEvents, err := c.RequestFrameDecode(stream, 0)
	if err != nil {
		t.Fatalf("RequestFrameDecode: %v", err)
	}
	if len(decodeEvents) != 1 || decodeEvents[0].Kind != core.EventFrameDecoded {
		t.Fatalf("expected a FrameDecoded event, got %+v", decodeEvents)
	}
	if dec.sent == 0 {
		t.Fatal("fake decoder was never driven")
	}

	closeEvents, err := c.CloseFile(stream)
	if err != nil {
		t.Fatalf("CloseFile: %v", err)
	}
	if len(closeEvents) != 1 || closeEvents[0].Units != nil {
		t.Fatalf("CloseFile should report a nil-model ModelUpdated event, got %+v", closeEvents)
	}
}

func TestCoreOpenFileRejectsRestrictedPath(t *testing.T) {
	c := core.New(core.Config{})
	if _, err := c.OpenFile(testStream, "/etc/fixture.ivf"); err == nil {
		t.Fatal("expected OpenFile to reject a restricted system path")
	}
}

func TestCoreOpenFileRejectsOversizedFile(t *testing.T) {
	data := buildIVF(64, 48, [][]byte{accessUnit(true, 64, 48)})
	path := writeFixture(t, data)

	c := core.New(core.Config{MaxFileSize: 4})
	if _, err := c.OpenFile(testStream, path); err == nil {
		t.Fatal("expected OpenFile to reject a file over MaxFileSize")
	}
}
