package color

import "testing"

// TestConvertGrayMidGray checks the achromatic case: U=V=128 (U'=V'=0),
// so R=G=B should equal Y exactly (since Y*128>>7 == Y for Y in [0,255]).
func TestConvertGrayMidGray(t *testing.T) {
	c := &Converter{strategy: StrategyScalar}
	y := []byte{16, 128, 235}
	u := []byte{128, 128, 128}
	v := []byte{128, 128, 128}
	out := make([]byte, 3*3)
	if err := c.Convert(y, u, v, 3, 1, out, 8, Subsampling444); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for i, yv := range y {
		r, g, b := out[i*3], out[i*3+1], out[i*3+2]
		if r != yv || g != yv || b != yv {
			t.Fatalf("pixel %d: got (%d,%d,%d), want (%d,%d,%d)", i, r, g, b, yv, yv, yv)
		}
	}
}

// TestConvertKnownRed hand-computes the BT.601 formula for Y=81, U=90,
// V=240 (a standard "red" test value in limited-range-ish inputs): U'=-38,
// V'=112.
// R = (81*128 + 181*112) >> 7 = (10368 + 20272) >> 7 = 30640 >> 7 = 239
// G = (81*128 - 44*-38 - 91*112) >> 7 = (10368 + 1672 - 10192) >> 7 = 1848 >> 7 = 14
// B = (81*128 + 227*-38) >> 7 = (10368 - 8626) >> 7 = 1742 >> 7 = 13
func TestConvertKnownRed(t *testing.T) {
	c := &Converter{strategy: StrategyScalar}
	y := []byte{81}
	u := []byte{90}
	v := []byte{240}
	out := make([]byte, 3)
	if err := c.Convert(y, u, v, 1, 1, out, 8, Subsampling444); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out[0] != 239 || out[1] != 14 || out[2] != 13 {
		t.Fatalf("got (%d,%d,%d), want (239,14,13)", out[0], out[1], out[2])
	}
}

// TestConvert420ChromaSharing verifies a 2x2 luma block sharing a single
// chroma sample is converted uniformly in chroma contribution.
func TestConvert420ChromaSharing(t *testing.T) {
	c := &Converter{strategy: StrategyScalar}
	y := []byte{100, 110, 120, 130}
	u := []byte{140}
	v := []byte{160}
	out := make([]byte, 2*2*3)
	if err := c.Convert(y, u, v, 2, 2, out, 8, Subsampling420); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	// All four pixels share chroma (140,160); only Y differs, so R-Y, G-Y,
	// B-Y deltas should be identical for each.
	uPrime, vPrime := int32(140-128), int32(160-128)
	dr := (181 * vPrime) >> 7
	dg := (-44*uPrime - 91*vPrime) >> 7
	db := (227 * uPrime) >> 7
	for i, yv := range y {
		wantR := clamp8(int32(yv)*128>>7 + dr)
		wantG := clamp8(int32(yv)*128>>7 + dg)
		wantB := clamp8(int32(yv)*128>>7 + db)
		r, g, b := out[i*3], out[i*3+1], out[i*3+2]
		if r != wantR || g != wantG || b != wantB {
			t.Fatalf("pixel %d: got (%d,%d,%d), want (%d,%d,%d)", i, r, g, b, wantR, wantG, wantB)
		}
	}
}

func TestConvert10BitShift(t *testing.T) {
	c := &Converter{strategy: StrategyScalar}
	// 10-bit Y sample 0x0100 (64<<2 = 256) should normalize to 64 after
	// >>2, same as the 8-bit midtone case.
	y := []byte{0x00, 0x01} // little-endian 0x0100 = 256, >>2 = 64.
	u := []byte{0x00, 0x02} // 0x0200 = 512, >>2 = 128.
	v := []byte{0x00, 0x02}
	out := make([]byte, 3)
	if err := c.Convert(y, u, v, 1, 1, out, 10, Subsampling444); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out[0] != 64 || out[1] != 64 || out[2] != 64 {
		t.Fatalf("got (%d,%d,%d), want (64,64,64)", out[0], out[1], out[2])
	}
}

func TestConvertPlaneSizeMismatch(t *testing.T) {
	c := &Converter{strategy: StrategyScalar}
	out := make([]byte, 3)
	err := c.Convert([]byte{1}, []byte{128}, []byte{128}, 2, 1, out, 8, Subsampling444)
	if err == nil {
		t.Fatal("expected a plane size mismatch error")
	}
}

func TestConvertUnsupportedBitDepth(t *testing.T) {
	c := &Converter{strategy: StrategyScalar}
	out := make([]byte, 3)
	err := c.Convert([]byte{1}, []byte{128}, []byte{128}, 1, 1, out, 9, Subsampling444)
	if err == nil {
		t.Fatal("expected an unsupported bit depth error")
	}
}

func TestChromaDims(t *testing.T) {
	cases := []struct {
		w, h    int
		sub     Subsampling
		wantW   int
		wantH   int
	}{
		{width420, height420, Subsampling420, 5, 4},
		{9, 7, Subsampling422, 5, 7},
		{9, 7, Subsampling444, 9, 7},
	}
	for _, c := range cases {
		gotW, gotH := chromaDims(c.w, c.h, c.sub)
		if gotW != c.wantW || gotH != c.wantH {
			t.Fatalf("chromaDims(%d,%d,%v) = %d,%d, want %d,%d", c.w, c.h, c.sub, gotW, gotH, c.wantW, c.wantH)
		}
	}
}

const width420, height420 = 9, 7
