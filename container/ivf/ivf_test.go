package ivf

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/ausocean/bitscope/container"
)

func buildIVF(t *testing.T, fourCC string, width, height uint16, frames [][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("DKIF")
	binary.Write(&buf, binary.LittleEndian, uint16(0))       // version
	binary.Write(&buf, binary.LittleEndian, uint16(32))      // header length
	buf.WriteString(fourCC)
	binary.Write(&buf, binary.LittleEndian, width)
	binary.Write(&buf, binary.LittleEndian, height)
	binary.Write(&buf, binary.LittleEndian, uint32(1))       // timebase num
	binary.Write(&buf, binary.LittleEndian, uint32(30))      // timebase den
	binary.Write(&buf, binary.LittleEndian, uint32(len(frames)))
	binary.Write(&buf, binary.LittleEndian, uint32(0))       // unused

	for i, f := range frames {
		binary.Write(&buf, binary.LittleEndian, uint32(len(f)))
		binary.Write(&buf, binary.LittleEndian, uint64(i*33))
		buf.Write(f)
	}
	return buf.Bytes()
}

func TestDemuxerBasic(t *testing.T) {
	frames := [][]byte{{0x12, 0x00, 0xAB}, {0x10, 0x01}, {0x10, 0x02, 0x03}}
	data := buildIVF(t, "AV01", 640, 480, frames)

	d, err := New(data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Codec() != container.CodecAV1 {
		t.Fatalf("codec = %v, want av1", d.Codec())
	}
	w, h, ok := d.Dimensions()
	if !ok || w != 640 || h != 480 {
		t.Fatalf("dimensions = %d %d %v", w, h, ok)
	}

	got, err := container.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(frames) {
		t.Fatalf("got %d access units, want %d", len(got), len(frames))
	}
	for i, au := range got {
		if !bytes.Equal(au.Bytes, frames[i]) {
			t.Errorf("frame %d = %x, want %x", i, au.Bytes, frames[i])
		}
		if !au.HasPTS || au.PTS != int64(i*33) {
			t.Errorf("frame %d pts = %d (has=%v), want %d", i, au.PTS, au.HasPTS, i*33)
		}
	}
}

func TestDemuxerBadMagic(t *testing.T) {
	if _, err := New([]byte("NOTDKIF-------------------------")); err != ErrBadMagic {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestDemuxerTruncatedHeader(t *testing.T) {
	if _, err := New([]byte("DKIF")); err != ErrTruncatedHeader {
		t.Fatalf("err = %v, want ErrTruncatedHeader", err)
	}
}

func TestDemuxerEOF(t *testing.T) {
	data := buildIVF(t, "VP90", 1, 1, nil)
	d, err := New(data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := d.Next(); err != io.EOF {
		t.Fatalf("Next on empty stream = %v, want io.EOF", err)
	}
}
