/*
NAME
  nalsplit.go

DESCRIPTION
  nalsplit.go splits one access unit's bytes into individual NAL/OBU-style
  units, for the AVC/HEVC/VVC parsers: an access unit demuxed from an
  Annex-B stream still carries 00 00 01 / 00 00 00 01 start codes between
  its units, while one demuxed from MP4 (avc1/hev1/...) carries the
  length-prefixed ("AVCC") form instead, one 4-byte big-endian length per
  unit and no start codes at all. Grounded on the start-code scan in
  container/annexb/annexb.go, generalized to also accept the
  length-prefixed form MP4 samples arrive in.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codec

// NALUnit is one payload carved out of an access unit, tagged with its
// byte offset relative to the start of that access unit.
type NALUnit struct {
	Offset  uint64
	Payload []byte
}

// SplitNALUnits splits au into its constituent units. It first tries
// Annex-B start-code delimiting; if no start code is found at all, it
// falls back to 4-byte-length-prefixed (AVCC-style) delimiting.
func SplitNALUnits(au []byte) []NALUnit {
	if units := splitStartCodes(au); units != nil {
		return units
	}
	return splitLengthPrefixed(au)
}

func splitStartCodes(data []byte) []NALUnit {
	var starts []int
	for i := 0; i+2 < len(data); i++ {
		if data[i] != 0 || data[i+1] != 0 {
			continue
		}
		if data[i+2] == 1 {
			starts = append(starts, i)
			i += 2
			continue
		}
		if i+3 < len(data) && data[i+2] == 0 && data[i+3] == 1 {
			starts = append(starts, i)
			i += 3
		}
	}
	if len(starts) == 0 {
		return nil
	}

	units := make([]NALUnit, 0, len(starts))
	for k, s := range starts {
		codeLen := 3
		if s+3 < len(data) && data[s+2] == 0 {
			codeLen = 4
		}
		payloadStart := s + codeLen
		var payloadEnd int
		if k+1 < len(starts) {
			payloadEnd = starts[k+1]
		} else {
			payloadEnd = len(data)
		}
		if payloadStart >= payloadEnd {
			continue
		}
		units = append(units, NALUnit{Offset: uint64(s), Payload: data[payloadStart:payloadEnd]})
	}
	return units
}

// splitLengthPrefixed reads data as a sequence of (4-byte big-endian
// length, payload) records, the layout MP4 avc1/hev1/vvc1 samples use.
func splitLengthPrefixed(data []byte) []NALUnit {
	var units []NALUnit
	pos := 0
	for pos+4 <= len(data) {
		n := int(data[pos])<<24 | int(data[pos+1])<<16 | int(data[pos+2])<<8 | int(data[pos+3])
		start := pos + 4
		if n < 0 || start+n > len(data) {
			break
		}
		units = append(units, NALUnit{Offset: uint64(start), Payload: data[start : start+n]})
		pos = start + n
	}
	return units
}
