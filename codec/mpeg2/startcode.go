/*
NAME
  startcode.go

DESCRIPTION
  startcode.go splits an MPEG-2 access unit (a picture_start_code
  through the next one) into its start-code-delimited units, ISO/IEC
  13818-2 section 6.2. Grounded on container/annexb/annexb.go's
  start-code scan algorithm (the same 00 00 01 prefix convention
  H.264/265/266 Annex B uses), generalized here to keep the start code
  byte itself so callers can classify sequence/GOP/picture/slice/
  extension units.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mpeg2 implements the MPEG-2 Video CodecSyntaxParser, per spec §6.
package mpeg2

// Start code values, ISO/IEC 13818-2 Table 6-1.
const (
	codePictureStart   = 0x00
	sliceStartMin      = 0x01
	sliceStartMax      = 0xAF
	codeUserData       = 0xB2
	codeSequenceHeader = 0xB3
	codeSequenceError  = 0xB4
	codeExtensionStart = 0xB5
	codeSequenceEnd    = 0xB7
	codeGroupStart     = 0xB8
)

// StartUnit is one start-code-delimited syntax unit within an access unit.
type StartUnit struct {
	Code    byte // the byte following 00 00 01.
	Offset  uint64
	Payload []byte // bytes after the 4-byte start code.
}

// Split scans data for 00 00 01 xx start codes and returns each unit's
// payload up to (not including) the next start code.
func Split(data []byte) []StartUnit {
	var units []StartUnit
	starts := findStartCodes(data)
	for i, s := range starts {
		end := len(data)
		if i+1 < len(starts) {
			end = starts[i+1].pos
		}
		units = append(units, StartUnit{
			Code:    s.code,
			Offset:  uint64(s.pos),
			Payload: data[s.pos+4 : end],
		})
	}
	return units
}

type startCode struct {
	pos  int
	code byte
}

func findStartCodes(data []byte) []startCode {
	var out []startCode
	zeros := 0
	for i, b := range data {
		switch {
		case b == 0x00:
			zeros++
		case b == 0x01 && zeros >= 2:
			if i+1 < len(data) {
				out = append(out, startCode{pos: i - 2, code: data[i+1]})
			}
			zeros = 0
		default:
			zeros = 0
		}
	}
	return out
}
