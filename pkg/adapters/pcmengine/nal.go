package pcmengine

import (
	"bytes"

	"github.com/Eyevinn/mp4ff/bits"
)

// NAL unit header bytes (forbidden_zero_bit, nal_ref_idc, nal_unit_type).
const (
	nalHeaderSlice = 0x41 // ref_idc 2, non-IDR slice
	nalHeaderIDR   = 0x65 // ref_idc 3, IDR slice
	nalHeaderSPS   = 0x67 // ref_idc 3, SPS
	nalHeaderPPS   = 0x68 // ref_idc 3, PPS
)

var startCode = []byte{0, 0, 0, 1}

// writeNAL appends a start code and one NAL unit to buf. body writes the
// RBSP without trailing bits; emulation prevention bytes are inserted by the
// writer. It returns the number of bytes appended.
func writeNAL(buf *bytes.Buffer, header byte, body func(w *bits.EBSPWriter)) int {
	start := buf.Len()
	buf.Write(startCode)
	w := bits.NewEBSPWriter(buf)
	w.Write(uint(header), 8)
	body(w)
	w.WriteRbspTrailingBits()
	return buf.Len() - start
}

// writeSE writes v as signed Exp-Golomb.
func writeSE(w *bits.EBSPWriter, v int) {
	if v > 0 {
		w.WriteExpGolomb(uint(2*v - 1))
	} else {
		w.WriteExpGolomb(uint(-2 * v))
	}
}

func writeFlag(w *bits.EBSPWriter, f bool) {
	if f {
		w.Write(1, 1)
	} else {
		w.Write(0, 1)
	}
}
