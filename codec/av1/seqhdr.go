/*
NAME
  seqhdr.go

DESCRIPTION
  seqhdr.go parses an AV1 sequence_header_obu(), per AV1 spec section
  5.5, far enough to recover max frame dimensions and the
  reduced_still_picture_header flag that the frame header parser needs
  to pick its own syntax path. No teacher file parses AV1; this follows
  the published AV1 bitstream spec directly. uvlc() shares bitio.Reader's
  ReadUE, since both codes are leading-zero-count Exp-Golomb variants
  with the same value formula.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package av1

import (
	"bytes"

	"github.com/ausocean/bitscope/bitio"
)

// SequenceHeader is the subset of sequence_header_obu() fields consumed
// downstream.
type SequenceHeader struct {
	Profile                  uint64
	StillPicture             bool
	ReducedStillPictureHdr   bool
	FrameIDNumbersPresent    bool
	MaxFrameWidth            int
	MaxFrameHeight           int
	DecoderModelInfoPresent  bool
	EqualPictureInterval     bool
	BufferDelayLengthMinus1  uint64
}

// ParseSequenceHeader parses an AV1 sequence_header_obu() payload.
func ParseSequenceHeader(payload []byte) (*SequenceHeader, error) {
	br := bitio.NewReader(bytes.NewReader(payload), 0)
	s := &SequenceHeader{}

	profile, err := br.ReadBits(3)
	if err != nil {
		return nil, err
	}
	s.Profile = profile

	stillPicture, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	s.StillPicture = stillPicture

	reduced, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	s.ReducedStillPictureHdr = reduced

	if reduced {
		if err := br.SkipBits(5); err != nil { // seq_level_idx[0].
			return nil, err
		}
	} else {
		timingInfoPresent, err := br.ReadBit()
		if err != nil {
			return nil, err
		}
		if timingInfoPresent {
			if err := br.SkipBits(32); err != nil { // num_units_in_display_tick.
				return nil, err
			}
			if err := br.SkipBits(32); err != nil { // time_scale.
				return nil, err
			}
			equal, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			s.EqualPictureInterval = equal
			if equal {
				if _, err := br.ReadUE(); err != nil { // num_ticks_per_picture_minus1, uvlc().
					return nil, err
				}
			}
			decModelPresent, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			s.DecoderModelInfoPresent = decModelPresent
			if decModelPresent {
				bufDelayLen, err := br.ReadBits(5)
				if err != nil {
					return nil, err
				}
				s.BufferDelayLengthMinus1 = bufDelayLen
				if err := br.SkipBits(32); err != nil { // num_units_in_decoding_tick.
					return nil, err
				}
				if err := br.SkipBits(10); err != nil { // buffer_removal_time_length_minus1(5) + frame_presentation_time_length_minus1(5).
					return nil, err
				}
			}
		}

		initialDisplayDelayPresent, err := br.ReadBit()
		if err != nil {
			return nil, err
		}
		opCntMinus1, err := br.ReadBits(5)
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i <= opCntMinus1; i++ {
			if err := br.SkipBits(12); err != nil { // operating_point_idc[i].
				return nil, err
			}
			levelIdx, err := br.ReadBits(5)
			if err != nil {
				return nil, err
			}
			if levelIdx > 7 {
				if _, err := br.ReadBit(); err != nil { // seq_tier[i].
					return nil, err
				}
			}
			if s.DecoderModelInfoPresent {
				present, err := br.ReadBit()
				if err != nil {
					return nil, err
				}
				if present {
					n := int(s.BufferDelayLengthMinus1) + 1
					if err := br.SkipBits(n); err != nil { // decoder_buffer_delay.
						return nil, err
					}
					if err := br.SkipBits(n); err != nil { // encoder_buffer_delay.
						return nil, err
					}
					if _, err := br.ReadBit(); err != nil { // low_delay_mode_flag.
						return nil, err
					}
				}
			}
			if initialDisplayDelayPresent {
				present, err := br.ReadBit()
				if err != nil {
					return nil, err
				}
				if present {
					if err := br.SkipBits(4); err != nil { // initial_display_delay_minus1.
						return nil, err
					}
				}
			}
		}
	}

	widthBitsMinus1, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	heightBitsMinus1, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	width, err := br.ReadBits(int(widthBitsMinus1) + 1)
	if err != nil {
		return nil, err
	}
	height, err := br.ReadBits(int(heightBitsMinus1) + 1)
	if err != nil {
		return nil, err
	}
	s.MaxFrameWidth = int(width) + 1
	s.MaxFrameHeight = int(height) + 1

	if !reduced {
		frameIDPresent, err := br.ReadBit()
		if err != nil {
			return nil, err
		}
		s.FrameIDNumbersPresent = frameIDPresent
	}

	// use_128x128_superblock, enable_filter_intra, enable_intra_edge_filter
	// and everything after are not needed to recover dimensions or the
	// frame-header syntax path, so parsing stops here.
	return s, nil
}
