/*
NAME
  sps.go

DESCRIPTION
  sps.go parses an H.264/AVC sequence parameter set RBSP, per ITU-T H.264
  section 7.3.2.1.1. Grounded on codec/h264/h264dec/sps.go, trimmed to the
  fields the unit tree and FrameIdentity layer need (profile/level, chroma
  format, bit depth, coded dimensions, picture order count type) and
  ported onto the shared bitio.Reader instead of h264dec/bits.BitReader.
  Scaling lists are consumed (to keep the bitstream position correct for
  the fields that follow) but not retained, since nothing downstream of
  the unit tree inspects them.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avc

import (
	"bytes"

	"github.com/ausocean/bitscope/bitio"
)

// SPS is the subset of sequence parameter set fields the rest of
// bitscope consumes.
type SPS struct {
	ID                int
	Profile, LevelIDC uint8
	ChromaFormatIDC   uint64
	BitDepthLuma      uint64
	BitDepthChroma    uint64
	PicOrderCntType   uint64
	MaxNumRefFrames   uint64
	FrameMBSOnlyFlag  bool

	Width, Height int // Cropped display dimensions, in samples.
}

// profileHasScalingLists lists the AVC profile_idc values whose SPS
// carries chroma_format_idc, bit depth and scaling list fields (ITU-T
// H.264 section 7.3.2.1.1).
var profileHasScalingLists = map[uint8]bool{
	100: true, 110: true, 122: true, 244: true, 44: true,
	83: true, 86: true, 118: true, 128: true, 138: true, 139: true, 134: true, 135: true,
}

// ParseSPS parses a de-emulated SPS RBSP (the NAL header byte already
// stripped).
func ParseSPS(rbsp []byte) (*SPS, error) {
	br := bitio.NewReader(bytes.NewReader(rbsp), 0)
	s := &SPS{}

	profile, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	s.Profile = uint8(profile)
	if err := br.SkipBits(8); err != nil { // constraint flags + reserved.
		return nil, err
	}
	level, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	s.LevelIDC = uint8(level)

	id, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	s.ID = int(id)

	s.ChromaFormatIDC = 1 // Inferred when absent.
	s.BitDepthLuma, s.BitDepthChroma = 8, 8

	if profileHasScalingLists[s.Profile] {
		s.ChromaFormatIDC, err = br.ReadUE()
		if err != nil {
			return nil, err
		}
		if s.ChromaFormatIDC == 3 {
			if _, err := br.ReadBit(); err != nil { // separate_color_plane_flag.
				return nil, err
			}
		}
		bdl, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		bdc, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		s.BitDepthLuma, s.BitDepthChroma = bdl+8, bdc+8

		if _, err := br.ReadBit(); err != nil { // qpprime_y_zero_transform_bypass_flag.
			return nil, err
		}
		scalingMatrixPresent, err := br.ReadBit()
		if err != nil {
			return nil, err
		}
		if scalingMatrixPresent {
			n := 8
			if s.ChromaFormatIDC == 3 {
				n = 12
			}
			for i := 0; i < n; i++ {
				present, err := br.ReadBit()
				if err != nil {
					return nil, err
				}
				if !present {
					continue
				}
				size := 16
				if i >= 6 {
					size = 64
				}
				if err := skipScalingList(br, size); err != nil {
					return nil, err
				}
			}
		}
	}

	if _, err := br.ReadUE(); err != nil { // log2_max_frame_num_minus4.
		return nil, err
	}
	s.PicOrderCntType, err = br.ReadUE()
	if err != nil {
		return nil, err
	}
	switch s.PicOrderCntType {
	case 0:
		if _, err := br.ReadUE(); err != nil { // log2_max_pic_order_cnt_lsb_minus4.
			return nil, err
		}
	case 1:
		if _, err := br.ReadBit(); err != nil { // delta_pic_order_always_zero_flag.
			return nil, err
		}
		if _, err := br.ReadSE(); err != nil { // offset_for_non_ref_pic.
			return nil, err
		}
		if _, err := br.ReadSE(); err != nil { // offset_for_top_to_bottom_field.
			return nil, err
		}
		n, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < n; i++ {
			if _, err := br.ReadSE(); err != nil {
				return nil, err
			}
		}
	}

	s.MaxNumRefFrames, err = br.ReadUE()
	if err != nil {
		return nil, err
	}
	if _, err := br.ReadBit(); err != nil { // gaps_in_frame_num_value_allowed_flag.
		return nil, err
	}

	widthMBs, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	heightMapUnits, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	frameMBSOnly, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	s.FrameMBSOnlyFlag = frameMBSOnly
	if !frameMBSOnly {
		if _, err := br.ReadBit(); err != nil { // mb_adaptive_frame_field_flag.
			return nil, err
		}
	}
	if _, err := br.ReadBit(); err != nil { // direct_8x8_inference_flag.
		return nil, err
	}

	frameHeight := 1
	if !frameMBSOnly {
		frameHeight = 2
	}
	width := int(widthMBs+1) * 16
	height := int(heightMapUnits+1) * frameHeight * 16

	cropFlag, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	if cropFlag {
		left, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		right, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		top, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		bottom, err := br.ReadUE()
		if err != nil {
			return nil, err
		}
		cropUnitX, cropUnitY := chromaCropUnits(s.ChromaFormatIDC, frameMBSOnly)
		width -= int(left+right) * cropUnitX
		height -= int(top+bottom) * cropUnitY
	}

	s.Width, s.Height = width, height
	return s, nil
}

// chromaCropUnits returns the frame-crop rectangle's sample unit size in
// luma samples, per ITU-T H.264 equations 7-19 through 7-22.
func chromaCropUnits(chromaFormatIDC uint64, frameMBSOnly bool) (x, y int) {
	subWidthC, subHeightC := 1, 1
	switch chromaFormatIDC {
	case 1:
		subWidthC, subHeightC = 2, 2
	case 2:
		subWidthC, subHeightC = 2, 1
	}
	x = subWidthC
	y = subHeightC
	if !frameMBSOnly {
		y *= 2
	}
	return x, y
}

// skipScalingList consumes a scaling_list() syntax structure (ITU-T
// H.264 section 7.3.2.1.1.1) of size elements without retaining values.
func skipScalingList(br *bitio.Reader, size int) error {
	lastScale, nextScale := 8, 8
	for i := 0; i < size; i++ {
		if nextScale != 0 {
			delta, err := br.ReadSE()
			if err != nil {
				return err
			}
			nextScale = (lastScale + int(delta) + 256) % 256
		}
		if nextScale != 0 {
			lastScale = nextScale
		}
	}
	return nil
}
