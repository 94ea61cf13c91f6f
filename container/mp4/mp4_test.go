package mp4

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/ausocean/bitscope/container"
)

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func mkBox(typ string, payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(payload)))
	copy(out[4:8], typ)
	copy(out[8:], payload)
	return out
}

// buildPrefix constructs the ftyp+moov portion of a single-track,
// single-chunk MP4 file for the given sample sizes, with the track's
// chunk offset set to chunkOffset.
func buildPrefix(sizes []uint32, chunkOffset uint32) []byte {
	n := uint32(len(sizes))

	entryFixed := make([]byte, 28)
	binary.BigEndian.PutUint16(entryFixed[24:26], 640)
	binary.BigEndian.PutUint16(entryFixed[26:28], 480)
	avc1 := mkBox("avc1", entryFixed)

	stsdPayload := append(append([]byte{0, 0, 0, 0}, u32(1)...), avc1...)
	stsd := mkBox("stsd", stsdPayload)

	stszPayload := append([]byte{0, 0, 0, 0}, u32(0)...)
	stszPayload = append(stszPayload, u32(n)...)
	for _, s := range sizes {
		stszPayload = append(stszPayload, u32(s)...)
	}
	stsz := mkBox("stsz", stszPayload)

	stcoPayload := append([]byte{0, 0, 0, 0}, u32(1)...)
	stcoPayload = append(stcoPayload, u32(chunkOffset)...)
	stco := mkBox("stco", stcoPayload)

	stscPayload := append([]byte{0, 0, 0, 0}, u32(1)...)
	stscPayload = append(stscPayload, u32(1)...)
	stscPayload = append(stscPayload, u32(n)...)
	stscPayload = append(stscPayload, u32(1)...)
	stsc := mkBox("stsc", stscPayload)

	sttsPayload := append([]byte{0, 0, 0, 0}, u32(1)...)
	sttsPayload = append(sttsPayload, u32(n)...)
	sttsPayload = append(sttsPayload, u32(1000)...)
	stts := mkBox("stts", sttsPayload)

	var stblPayload []byte
	stblPayload = append(stblPayload, stsd...)
	stblPayload = append(stblPayload, stsz...)
	stblPayload = append(stblPayload, stco...)
	stblPayload = append(stblPayload, stsc...)
	stblPayload = append(stblPayload, stts...)
	stbl := mkBox("stbl", stblPayload)

	minf := mkBox("minf", stbl)
	mdia := mkBox("mdia", minf)
	trak := mkBox("trak", mdia)
	moov := mkBox("moov", trak)
	ftyp := mkBox("ftyp", append([]byte("isom"), u32(0)...))

	var prefix []byte
	prefix = append(prefix, ftyp...)
	prefix = append(prefix, moov...)
	return prefix
}

func buildFile(t *testing.T, samples [][]byte) []byte {
	t.Helper()
	sizes := make([]uint32, len(samples))
	for i, s := range samples {
		sizes[i] = uint32(len(s))
	}

	probe := buildPrefix(sizes, 0)
	chunkOffset := uint32(len(probe) + 8) // + mdat header

	prefix := buildPrefix(sizes, chunkOffset)
	var mdatPayload []byte
	for _, s := range samples {
		mdatPayload = append(mdatPayload, s...)
	}
	mdat := mkBox("mdat", mdatPayload)

	var full []byte
	full = append(full, prefix...)
	full = append(full, mdat...)
	return full
}

func TestDemuxerRoundTrip(t *testing.T) {
	samples := [][]byte{
		{0xde, 0xad, 0xbe, 0xef},
		{0x01, 0x02, 0x03},
	}
	data := buildFile(t, samples)

	d, err := New(data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Codec() != container.CodecAVC {
		t.Fatalf("codec = %v, want avc", d.Codec())
	}
	w, h, ok := d.Dimensions()
	if !ok || w != 640 || h != 480 {
		t.Fatalf("dimensions = %d %d %v", w, h, ok)
	}

	got, err := container.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("got %d access units, want %d", len(got), len(samples))
	}
	for i, au := range got {
		if !bytes.Equal(au.Bytes, samples[i]) {
			t.Errorf("sample %d = %x, want %x", i, au.Bytes, samples[i])
		}
		wantDTS := int64(i * 1000)
		if !au.HasDTS || au.DTS != wantDTS {
			t.Errorf("sample %d dts = %d (has=%v), want %d", i, au.DTS, au.HasDTS, wantDTS)
		}
	}
	if _, err := d.Next(); err != io.EOF {
		t.Fatalf("Next past end = %v, want io.EOF", err)
	}
}

func TestDemuxerNoMoov(t *testing.T) {
	data := mkBox("ftyp", append([]byte("isom"), u32(0)...))
	if _, err := New(data); err == nil {
		t.Fatal("expected error for missing moov box")
	}
}
