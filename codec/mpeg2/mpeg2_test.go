package mpeg2

import (
	"bytes"
	"testing"

	"github.com/ausocean/bitscope/container"
)

func startCode(code byte, payload []byte) []byte {
	return append([]byte{0x00, 0x00, 0x01, code}, payload...)
}

func TestSplitFindsStartCodes(t *testing.T) {
	data := bytes.Join([][]byte{
		startCode(codeSequenceHeader, []byte{0x01, 0x02}),
		startCode(codeGroupStart, nil),
		startCode(codePictureStart, []byte{0x03}),
	}, nil)

	units := Split(data)
	if len(units) != 3 {
		t.Fatalf("got %d units, want 3", len(units))
	}
	if units[0].Code != codeSequenceHeader || units[1].Code != codeGroupStart || units[2].Code != codePictureStart {
		t.Fatalf("codes = %x,%x,%x", units[0].Code, units[1].Code, units[2].Code)
	}
	if len(units[0].Payload) != 2 {
		t.Fatalf("sequence header payload len = %d, want 2", len(units[0].Payload))
	}
}

// buildSequenceHeaderPayload builds a sequence_header payload encoding
// 720x576 as 12-bit width/height fields.
func buildSequenceHeaderPayload(width, height uint64) []byte {
	v := (width << 12) | height
	return []byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

func TestParseSequenceHeaderDimensions(t *testing.T) {
	payload := buildSequenceHeaderPayload(720, 576)
	sh, err := ParseSequenceHeader(payload)
	if err != nil {
		t.Fatalf("ParseSequenceHeader: %v", err)
	}
	if sh.Width != 720 || sh.Height != 576 {
		t.Fatalf("dimensions = %dx%d, want 720x576", sh.Width, sh.Height)
	}
}

// buildPictureHeaderPayload packs temporal_reference (10 bits) and
// picture_coding_type (3 bits) into the top 13 bits of a 24-bit word,
// leaving the remaining 11 bits (vbv_delay's lead) zeroed.
func buildPictureHeaderPayload(ref uint64, codingType int) []byte {
	v := (ref & 0x3FF << 14) | (uint64(codingType) & 0x7 << 11)
	return []byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

func TestParsePictureHeaderIFrame(t *testing.T) {
	payload := buildPictureHeaderPayload(5, PictureI)
	ph, err := ParsePictureHeader(payload)
	if err != nil {
		t.Fatalf("ParsePictureHeader: %v", err)
	}
	if ph.TemporalReference != 5 {
		t.Fatalf("temporal_reference = %d, want 5", ph.TemporalReference)
	}
	if ph.CodingType != PictureI {
		t.Fatalf("coding_type = %d, want PictureI", ph.CodingType)
	}
}

func TestParseAccessUnitKeyFrame(t *testing.T) {
	data := bytes.Join([][]byte{
		startCode(codeSequenceHeader, buildSequenceHeaderPayload(720, 576)),
		startCode(codeGroupStart, nil),
		startCode(codePictureStart, buildPictureHeaderPayload(0, PictureI)),
		startCode(0x01, []byte{0xFF}), // slice.
	}, nil)

	p := &Parser{}
	pu, err := p.ParseAccessUnit(container.AccessUnit{Bytes: data}, 0)
	if err != nil {
		t.Fatalf("ParseAccessUnit: %v", err)
	}
	if !pu.KeyUnit {
		t.Fatal("expected a key unit for picture_coding_type I")
	}
	w, h, ok := p.SeenDimensions()
	if !ok || w != 720 || h != 576 {
		t.Fatalf("dimensions = %dx%d (ok=%v), want 720x576", w, h, ok)
	}
}
