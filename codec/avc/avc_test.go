package avc

import "testing"

// bitWriter accumulates MSB-first bits into bytes, matching bitio.Reader's
// bit order, so tests can hand-construct synthetic RBSPs.
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

func (w *bitWriter) writeUE(v uint64) {
	codeNum := v + 1
	nbits := 0
	for (uint64(1) << uint(nbits+1)) <= codeNum {
		nbits++
	}
	w.writeBits(0, nbits)
	w.writeBits(codeNum, nbits+1)
}

func (w *bitWriter) bytesPadded() []byte {
	if w.curBits > 0 {
		w.cur <<= uint(8 - w.curBits)
		w.bytes = append(w.bytes, w.cur)
		w.cur, w.curBits = 0, 0
	}
	return w.bytes
}

func buildSPS(profile uint8, widthMBsMinus1, heightMapUnitsMinus1 uint64) []byte {
	w := &bitWriter{}
	w.writeBits(uint64(profile), 8) // profile_idc
	w.writeBits(0, 8)               // constraint flags + reserved
	w.writeBits(30, 8)               // level_idc
	w.writeUE(0)                     // seq_parameter_set_id
	w.writeUE(0)                     // log2_max_frame_num_minus4
	w.writeUE(2)                     // pic_order_cnt_type
	w.writeUE(1)                     // max_num_ref_frames
	w.writeBits(0, 1)                // gaps_in_frame_num_value_allowed_flag
	w.writeUE(widthMBsMinus1)
	w.writeUE(heightMapUnitsMinus1)
	w.writeBits(1, 1) // frame_mbs_only_flag
	w.writeBits(0, 1) // direct_8x8_inference_flag
	w.writeBits(0, 1) // frame_cropping_flag
	w.writeBits(0, 1) // vui_parameters_present_flag
	return w.bytesPadded()
}

func TestParseSPSBaselineDimensions(t *testing.T) {
	rbsp := buildSPS(66, 9, 7) // (9+1)*16=160 wide, (7+1)*16=128 high.
	sps, err := ParseSPS(rbsp)
	if err != nil {
		t.Fatalf("ParseSPS: %v", err)
	}
	if sps.Width != 160 || sps.Height != 128 {
		t.Fatalf("dimensions = %dx%d, want 160x128", sps.Width, sps.Height)
	}
	if sps.Profile != 66 {
		t.Fatalf("profile = %d, want 66", sps.Profile)
	}
	if sps.MaxNumRefFrames != 1 {
		t.Fatalf("max_num_ref_frames = %d, want 1", sps.MaxNumRefFrames)
	}
}

func buildSliceHeader(firstMB, sliceType, ppsID uint64) []byte {
	w := &bitWriter{}
	w.writeUE(firstMB)
	w.writeUE(sliceType)
	w.writeUE(ppsID)
	w.writeBits(0, 4) // frame_num (4-bit best-effort width, see ParseSliceHeader).
	return w.bytesPadded()
}

func TestParseSliceHeaderType(t *testing.T) {
	rbsp := buildSliceHeader(0, 7, 0) // slice_type 7 == I (7 % 5 == 2 == SliceI).
	sh, err := ParseSliceHeader(rbsp, nil)
	if err != nil {
		t.Fatalf("ParseSliceHeader: %v", err)
	}
	if sh.Type != SliceI {
		t.Fatalf("slice type = %v, want I", sh.Type)
	}
	if sh.Type.FrameType().String() != "Key" {
		t.Fatalf("frame type = %v, want Key", sh.Type.FrameType())
	}
}

func TestDeEmulate(t *testing.T) {
	in := []byte{0x00, 0x00, 0x03, 0x01, 0x00, 0x00, 0x03, 0x02}
	want := []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x02}
	got := deEmulate(in)
	if len(got) != len(want) {
		t.Fatalf("deEmulate length = %d, want %d (%x)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("deEmulate[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}
}
