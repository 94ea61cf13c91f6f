/*
NAME
  sps.go

DESCRIPTION
  sps.go parses an H.265/HEVC sequence parameter set RBSP, per ITU-T
  H.265 section 7.3.2.2. There is no HEVC SPS parser in the teacher repo
  to ground on (codec/h265 only extracts RTP access units); this is
  ported from the AVC sibling's bitio.Reader style and the ITU-T H.265
  profile_tier_level()/seq_parameter_set_rbsp() syntax tables, trimmed to
  the fields the unit tree needs: profile/level, chroma format, bit
  depth, and coded dimensions (pic_width/height_in_luma_samples, which
  unlike AVC are coded directly rather than derived from a macroblock
  grid).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package hevc

import (
	"bytes"

	"github.com/ausocean/bitscope/bitio"
)

// SPS is the subset of sequence parameter set fields bitscope consumes.
type SPS struct {
	ID                    int
	GeneralProfileIDC     uint8
	GeneralLevelIDC       uint8
	ChromaFormatIDC       uint64
	BitDepthLuma          uint64
	BitDepthChroma        uint64
	Width, Height         int
	Log2MaxPicOrderCntLSB uint64
}

// ParseSPS parses a de-emulated HEVC SPS RBSP (the 2-byte NAL header
// already stripped).
func ParseSPS(rbsp []byte) (*SPS, error) {
	br := bitio.NewReader(bytes.NewReader(rbsp), 0)
	s := &SPS{}

	if _, err := br.ReadBits(4); err != nil { // sps_video_parameter_set_id.
		return nil, err
	}
	maxSubLayersMinus1, err := br.ReadBits(3)
	if err != nil {
		return nil, err
	}
	if _, err := br.ReadBit(); err != nil { // sps_temporal_id_nesting_flag.
		return nil, err
	}

	profileIDC, levelIDC, err := skipProfileTierLevel(br, int(maxSubLayersMinus1))
	if err != nil {
		return nil, err
	}
	s.GeneralProfileIDC, s.GeneralLevelIDC = profileIDC, levelIDC

	id, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	s.ID = int(id)

	s.ChromaFormatIDC, err = br.ReadUE()
	if err != nil {
		return nil, err
	}
	if s.ChromaFormatIDC == 3 {
		if _, err := br.ReadBit(); err != nil { // separate_colour_plane_flag.
			return nil, err
		}
	}

	width, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	height, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	s.Width, s.Height = int(width), int(height)

	confWindow, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	if confWindow {
		for i := 0; i < 4; i++ {
			if _, err := br.ReadUE(); err != nil {
				return nil, err
			}
		}
	}

	s.BitDepthLuma, err = br.ReadUE()
	if err != nil {
		return nil, err
	}
	s.BitDepthLuma += 8
	s.BitDepthChroma, err = br.ReadUE()
	if err != nil {
		return nil, err
	}
	s.BitDepthChroma += 8

	s.Log2MaxPicOrderCntLSB, err = br.ReadUE()
	if err != nil {
		return nil, err
	}
	s.Log2MaxPicOrderCntLSB += 4

	// sub_layer_ordering_info, max_transform_hierarchy_depth, scaling
	// lists, PCM and short/long-term reference picture set parsing
	// follow; none of it is needed by the unit tree or overlay layers,
	// so parsing stops here.
	return s, nil
}

// skipProfileTierLevel consumes a profile_tier_level() syntax structure
// (ITU-T H.265 section 7.3.3) for the general profile plus
// maxNumSubLayersMinus1 sub-layers, returning the general profile/level.
func skipProfileTierLevel(br *bitio.Reader, maxNumSubLayersMinus1 int) (profileIDC, levelIDC uint8, err error) {
	if _, err = br.ReadBits(2); err != nil { // general_profile_space.
		return
	}
	if _, err = br.ReadBit(); err != nil { // general_tier_flag.
		return
	}
	p, err := br.ReadBits(5)
	if err != nil {
		return
	}
	profileIDC = uint8(p)
	if err = br.SkipBits(32); err != nil { // general_profile_compatibility_flag[32].
		return
	}
	if err = br.SkipBits(4); err != nil { // progressive/interlaced/non_packed/frame_only.
		return
	}
	if err = br.SkipBits(43); err != nil { // general_reserved_zero_43bits.
		return
	}
	if _, err = br.ReadBit(); err != nil { // general_inbld_flag / reserved.
		return
	}
	l, err := br.ReadBits(8)
	if err != nil {
		return
	}
	levelIDC = uint8(l)

	if maxNumSubLayersMinus1 == 0 {
		return profileIDC, levelIDC, nil
	}

	profilePresent := make([]bool, maxNumSubLayersMinus1)
	levelPresent := make([]bool, maxNumSubLayersMinus1)
	for i := 0; i < maxNumSubLayersMinus1; i++ {
		pp, err := br.ReadBit()
		if err != nil {
			return 0, 0, err
		}
		lp, err := br.ReadBit()
		if err != nil {
			return 0, 0, err
		}
		profilePresent[i], levelPresent[i] = pp, lp
	}
	for i := maxNumSubLayersMinus1; i < 8; i++ {
		if err := br.SkipBits(2); err != nil { // reserved_zero_2bits.
			return 0, 0, err
		}
	}
	for i := 0; i < maxNumSubLayersMinus1; i++ {
		if profilePresent[i] {
			if err := br.SkipBits(88); err != nil {
				return 0, 0, err
			}
		}
		if levelPresent[i] {
			if err := br.SkipBits(8); err != nil {
				return 0, 0, err
			}
		}
	}
	return profileIDC, levelIDC, nil
}
