package pcmengine

import (
	"errors"
	"fmt"

	"github.com/Eyevinn/mp4ff/bits"
)

const (
	profileBaseline = 66
	// constraint_set0_flag and constraint_set1_flag: Constrained Baseline.
	constraintFlags = 0xC0

	log2MaxFrameNum = 8
	maxFrameNum     = 1 << log2MaxFrameNum

	sliceTypeP = 5 // all slices in the picture are P
	sliceTypeI = 7 // all slices in the picture are I

	mbTypeIPCMInI = 25
	mbTypeIPCMInP = 30

	// Upper bound on the bits of one coded macroblock: 384 PCM samples plus
	// mb_skip_run, mb_type and pcm_alignment_zero_bits.
	pcmMacroblockBits = 384*8 + 64
	// Upper bound on the parameter sets and slice header of one picture.
	pictureOverheadBits = 1024
)

// ErrNoLevel is returned when no H.264 level can carry the stream.
var ErrNoLevel = errors.New("no H.264 level fits the stream")

// levelLimit holds the Table A-1 limits of one level.
type levelLimit struct {
	idc     uint32
	maxMBPS int64 // macroblocks per second
	maxFS   int64 // macroblocks per frame
	maxBR   int64 // 1000 bits per second, VCL
}

var levelLimits = []levelLimit{
	{10, 1485, 99, 64},
	{11, 3000, 396, 192},
	{12, 6000, 396, 384},
	{13, 11880, 396, 768},
	{20, 11880, 396, 2000},
	{21, 19800, 792, 4000},
	{22, 20250, 1620, 4000},
	{30, 40500, 1620, 10000},
	{31, 108000, 3600, 14000},
	{32, 216000, 5120, 20000},
	{40, 245760, 8192, 20000},
	{41, 245760, 8192, 50000},
	{42, 522240, 8704, 50000},
	{50, 589824, 22080, 135000},
	{51, 983040, 36864, 240000},
	{52, 2073600, 36864, 240000},
	{60, 4177920, 139264, 240000},
	{61, 8355840, 139264, 480000},
	{62, 16711680, 139264, 800000},
}

// limitsFor returns the limits of level idc.
func limitsFor(idc uint32) (levelLimit, bool) {
	for _, l := range levelLimits {
		if l.idc == idc {
			return l, true
		}
	}
	return levelLimit{}, false
}

// worstCaseBitrate is the bitrate of a stream in which every macroblock of
// every picture is coded as I_PCM.
func worstCaseBitrate(mbs int, fps float64) float64 {
	return float64(int64(mbs)*pcmMacroblockBits+pictureOverheadBits) * fps
}

// selectLevel returns the smallest level whose frame size, macroblock rate
// and bitrate limits all hold for mbs macroblocks per picture at fps.
func selectLevel(mbs int, fps float64) (uint32, error) {
	mbps := float64(mbs) * fps
	br := worstCaseBitrate(mbs, fps)
	for _, l := range levelLimits {
		if int64(mbs) <= l.maxFS && mbps <= float64(l.maxMBPS) && br <= float64(l.maxBR)*1000 {
			return l.idc, nil
		}
	}
	return 0, fmt.Errorf("%w: %d macroblocks at %.2f fps needs %.1f Mbit/s", ErrNoLevel, mbs, fps, br/1e6)
}

// geometry is the macroblock grid covering a picture.
type geometry struct {
	width, height int
	mbWidth       int
	mbHeight      int
}

func newGeometry(width, height int) geometry {
	return geometry{
		width:    width,
		height:   height,
		mbWidth:  (width + 15) / 16,
		mbHeight: (height + 15) / 16,
	}
}

func (g geometry) mbs() int {
	return g.mbWidth * g.mbHeight
}

func (g geometry) cropRight() int {
	return (g.mbWidth*16 - g.width) / 2
}

func (g geometry) cropBottom() int {
	return (g.mbHeight*16 - g.height) / 2
}

func writeSPS(w *bits.EBSPWriter, g geometry, level uint32) {
	w.Write(profileBaseline, 8)
	w.Write(constraintFlags, 8)
	w.Write(uint(level), 8)
	w.WriteExpGolomb(0) // seq_parameter_set_id
	w.WriteExpGolomb(log2MaxFrameNum - 4)
	w.WriteExpGolomb(2) // pic_order_cnt_type: output order follows frame_num
	w.WriteExpGolomb(1) // max_num_ref_frames
	w.Write(0, 1)
	w.WriteExpGolomb(uint(g.mbWidth - 1))
	w.WriteExpGolomb(uint(g.mbHeight - 1))
	w.Write(1, 1) // frame_mbs_only_flag
	w.Write(1, 1) // direct_8x8_inference_flag

	crop := g.cropRight() != 0 || g.cropBottom() != 0
	writeFlag(w, crop)
	if crop {
		w.WriteExpGolomb(0)
		w.WriteExpGolomb(uint(g.cropRight()))
		w.WriteExpGolomb(0)
		w.WriteExpGolomb(uint(g.cropBottom()))
	}
	w.Write(0, 1) // vui_parameters_present_flag
}

func writePPS(w *bits.EBSPWriter) {
	w.WriteExpGolomb(0) // pic_parameter_set_id
	w.WriteExpGolomb(0) // seq_parameter_set_id
	w.Write(0, 1)       // CAVLC
	w.Write(0, 1)       // bottom_field_pic_order_in_frame_present_flag
	w.WriteExpGolomb(0) // num_slice_groups_minus1
	w.WriteExpGolomb(0) // num_ref_idx_l0_default_active_minus1
	w.WriteExpGolomb(0) // num_ref_idx_l1_default_active_minus1
	w.Write(0, 1)       // weighted_pred_flag
	w.Write(0, 2)
	writeSE(w, 0) // pic_init_qp_minus26
	writeSE(w, 0) // pic_init_qs_minus26
	writeSE(w, 0) // chroma_qp_index_offset
	w.Write(1, 1) // deblocking_filter_control_present_flag
	w.Write(0, 1) // constrained_intra_pred_flag
	w.Write(0, 1) // redundant_pic_cnt_present_flag
}

type sliceHeader struct {
	idr      bool
	frameNum uint32
	idrPicID uint32
}

func writeSliceHeader(w *bits.EBSPWriter, h sliceHeader) {
	w.WriteExpGolomb(0) // first_mb_in_slice
	if h.idr {
		w.WriteExpGolomb(sliceTypeI)
	} else {
		w.WriteExpGolomb(sliceTypeP)
	}
	w.WriteExpGolomb(0) // pic_parameter_set_id
	w.Write(uint(h.frameNum), log2MaxFrameNum)
	if h.idr {
		w.WriteExpGolomb(uint(h.idrPicID))
	}
	if !h.idr {
		w.Write(0, 1) // num_ref_idx_active_override_flag
		w.Write(0, 1) // ref_pic_list_modification_flag_l0
	}
	// dec_ref_pic_marking
	if h.idr {
		w.Write(0, 1) // no_output_of_prior_pics_flag
		w.Write(0, 1) // long_term_reference_flag
	} else {
		w.Write(0, 1) // adaptive_ref_pic_marking_mode_flag
	}
	writeSE(w, 0)       // slice_qp_delta
	w.WriteExpGolomb(1) // disable_deblocking_filter_idc
}
