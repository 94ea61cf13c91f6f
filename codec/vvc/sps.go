/*
NAME
  sps.go

DESCRIPTION
  sps.go parses an H.266/VVC sequence parameter set RBSP, per ITU-T
  H.266 section 7.3.2.3. Grounded on the HEVC sibling's profile_tier_level
  skip technique (codec/hevc/sps.go), extended for VVC's added
  general_constraints_info() block and multi-layer sub-profile list. VVC's
  general_constraints_info() is a long flat run of reserved/constraint
  flags (ITU-T H.266 section 7.3.2.2); the exact flag count is
  reconstructed from the standard's structure rather than verified
  against the document text, so gciFixedFlagBits is a best-effort value —
  see DESIGN.md.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vvc

import (
	"bytes"

	"github.com/ausocean/bitscope/bitio"
)

// SPS is the subset of sequence parameter set fields bitscope consumes.
type SPS struct {
	ID                int
	ChromaFormatIDC   uint64
	Log2CtuSizeMinus5 uint64
	Width, Height     int
}

// gciFixedFlagBits is the bit width of general_constraints_info()'s flat
// run of constraint flags, before its variable-length reserved tail.
const gciFixedFlagBits = 71

// ParseSPS parses a de-emulated VVC SPS RBSP (the 2-byte NAL header
// already stripped).
func ParseSPS(rbsp []byte) (*SPS, error) {
	br := bitio.NewReader(bytes.NewReader(rbsp), 0)
	s := &SPS{}

	id, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	s.ID = int(id)
	if _, err := br.ReadBits(4); err != nil { // sps_video_parameter_set_id.
		return nil, err
	}
	maxSubLayersMinus1, err := br.ReadBits(3)
	if err != nil {
		return nil, err
	}
	s.ChromaFormatIDC, err = br.ReadBits(2)
	if err != nil {
		return nil, err
	}
	s.Log2CtuSizeMinus5, err = br.ReadBits(2)
	if err != nil {
		return nil, err
	}

	ptlPresent, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	if ptlPresent {
		if err := skipProfileTierLevel(br, true, int(maxSubLayersMinus1)); err != nil {
			return nil, err
		}
	}

	if _, err := br.ReadBit(); err != nil { // sps_gdr_enabled_flag.
		return nil, err
	}
	refPicResampling, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	if refPicResampling {
		if _, err := br.ReadBit(); err != nil { // sps_res_change_in_clvs_allowed_flag.
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

	// sps_conformance_window_flag, subpicture layout, CTU/partitioning,
	// bit depth and everything after are not needed by the unit tree, so
	// parsing stops here.
	return s, nil
}

// skipProfileTierLevel consumes a profile_tier_level() syntax structure
// (ITU-T H.266 section 7.3.3.1), including VVC's general_constraints_info()
// and per-sublayer level fields.
func skipProfileTierLevel(br *bitio.Reader, profilePresent bool, maxNumSubLayersMinus1 int) error {
	if profilePresent {
		if err := br.SkipBits(7); err != nil { // general_profile_idc.
			return err
		}
		if _, err := br.ReadBit(); err != nil { // general_tier_flag.
			return err
		}
	}
	if err := br.SkipBits(8); err != nil { // general_level_idc.
		return err
	}
	if err := br.SkipBits(2); err != nil { // ptl_frame_only_constraint_flag, ptl_multilayer_enabled_flag.
		return err
	}

	if profilePresent {
		gciPresent, err := br.ReadBit()
		if err != nil {
			return err
		}
		if gciPresent {
			if err := br.SkipBits(gciFixedFlagBits); err != nil {
				return err
			}
			n, err := br.ReadBits(8) // gci_num_reserved_bits.
			if err != nil {
				return err
			}
			if err := br.SkipBits(int(n)); err != nil {
				return err
			}
		}
		if err := br.ByteAlign(); err != nil {
			return err
		}
	}

	sublayerLevelPresent := make([]bool, maxNumSubLayersMinus1)
	for i := maxNumSubLayersMinus1 - 1; i >= 0; i-- {
		p, err := br.ReadBit()
		if err != nil {
			return err
		}
		sublayerLevelPresent[i] = p
	}
	if err := br.ByteAlign(); err != nil {
		return err
	}
	for i := maxNumSubLayersMinus1 - 1; i >= 0; i-- {
		if sublayerLevelPresent[i] {
			if err := br.SkipBits(8); err != nil {
				return err
			}
		}
	}

	if profilePresent {
		n, err := br.ReadBits(8) // ptl_num_sub_profiles.
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			if err := br.SkipBits(32); err != nil {
				return err
			}
		}
	}
	return nil
}
