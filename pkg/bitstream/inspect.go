package bitstream

import (
	"fmt"

	"github.com/Eyevinn/mp4ff/avc"
)

// NALUnit summarizes one NAL unit of an Annex B stream.
type NALUnit struct {
	Type avc.NaluType
	Size int
}

// StreamInfo summarizes an Annex B elementary stream.
type StreamInfo struct {
	Width      int
	Height     int
	Profile    uint32
	Level      uint32
	Codec      string
	NALUnits   []NALUnit
	TypeCounts map[avc.NaluType]int
	IDRCount   int
	SliceCount int
}

// Inspect parses an Annex B byte stream and reports its NAL units.
// The first SPS found determines the picture size and codec string.
func Inspect(data []byte) (*StreamInfo, error) {
	nalus := avc.ExtractNalusFromByteStream(data)
	if len(nalus) == 0 {
		return nil, fmt.Errorf("no NAL units found")
	}

	info := &StreamInfo{TypeCounts: make(map[avc.NaluType]int)}
	var haveSPS bool
	for _, nalu := range nalus {
		if len(nalu) == 0 {
			continue
		}
		typ := avc.GetNaluType(nalu[0])
		info.NALUnits = append(info.NALUnits, NALUnit{Type: typ, Size: len(nalu)})
		info.TypeCounts[typ]++

		switch typ {
		case avc.NALU_SPS:
			if haveSPS {
				continue
			}
			sps, err := avc.ParseSPSNALUnit(nalu, false)
			if err != nil {
				return nil, fmt.Errorf("parse SPS: %w", err)
			}
			haveSPS = true
			info.Width = int(sps.Width)
			info.Height = int(sps.Height)
			info.Profile = sps.Profile
			info.Level = sps.Level
			info.Codec = avc.CodecString("avc1", sps)
		case avc.NALU_IDR:
			info.IDRCount++
			info.SliceCount++
		case avc.NALU_NON_IDR:
			info.SliceCount++
		}
	}
	if !haveSPS {
		return info, fmt.Errorf("stream has no SPS")
	}
	return info, nil
}

// NALTypes returns the NAL unit types of an Annex B buffer in order.
func NALTypes(data []byte) []avc.NaluType {
	nalus := avc.ExtractNalusFromByteStream(data)
	types := make([]avc.NaluType, 0, len(nalus))
	for _, nalu := range nalus {
		if len(nalu) > 0 {
			types = append(types, avc.GetNaluType(nalu[0]))
		}
	}
	return types
}
