// Package pcmengine provides a pure-Go H.264 Constrained Baseline engine.
//
// Keyframes are coded as IDR pictures made entirely of I_PCM macroblocks.
// Later frames are P pictures in which macroblocks equal to the previous
// picture are signalled as P_Skip and all others are re-sent as I_PCM.
// The output is lossless and decodable by any conforming decoder; the
// bitrate target is accepted but not enforced. The declared level is the
// smallest one whose limits hold for an all-PCM stream at the configured
// frame rate, and Initialize fails when no level does.
package pcmengine

import (
	"bytes"

	"github.com/Eyevinn/mp4ff/bits"

	"github.com/user/h264enc/pkg/ports"
)

// Status codes reported through ports.EngineStatus.
const (
	StatusInitParamError  ports.EngineStatus = 1
	StatusInitExpected    ports.EngineStatus = 4
	StatusUnsupportedData ports.EngineStatus = 5
)

// Options configures an Engine.
type Options struct {
	// SkipDuplicates reports frames identical to the previous one as
	// FrameTypeSkip instead of emitting an all-skip P picture.
	SkipDuplicates bool
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{SkipDuplicates: true}
}

// Engine implements ports.Engine.
// It is not safe for concurrent use.
type Engine struct {
	opts Options

	initialized bool
	destroyed   bool
	params      ports.EngineParams
	geo         geometry
	level       uint32

	forceIntra bool
	hasRef     bool
	frameNum   uint32
	idrPicID   uint32

	// Macroblock-padded planes of the current and reference pictures.
	cur [3][]byte
	ref [3][]byte

	out bytes.Buffer
}

// New creates an engine with DefaultOptions.
func New() *Engine {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates an engine with the given options.
func NewWithOptions(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Initialize validates params and allocates the picture stores.
func (e *Engine) Initialize(params ports.EngineParams) error {
	if e.destroyed {
		return StatusInitExpected
	}
	if params.Width <= 0 || params.Height <= 0 || params.Width%2 != 0 || params.Height%2 != 0 {
		return StatusInitParamError
	}
	if params.MaxFrameRate <= 0 || params.TargetBitrate <= 0 {
		return StatusInitParamError
	}

	geo := newGeometry(params.Width, params.Height)
	level, err := selectLevel(geo.mbs(), params.MaxFrameRate)
	if err != nil {
		return StatusInitParamError
	}

	e.params = params
	e.geo = geo
	e.level = level
	lumaSize := e.geo.mbs() * 256
	chromaSize := e.geo.mbs() * 64
	for i, n := range [3]int{lumaSize, chromaSize, chromaSize} {
		e.cur[i] = make([]byte, n)
		e.ref[i] = make([]byte, n)
	}
	e.forceIntra = false
	e.hasRef = false
	e.frameNum = 0
	e.idrPicID = 0
	e.initialized = true
	return nil
}

// ForceIntraFrame makes the next encoded picture an IDR picture.
func (e *Engine) ForceIntraFrame(force bool) error {
	if !e.initialized {
		return StatusInitExpected
	}
	e.forceIntra = force
	return nil
}

// EncodeFrame encodes pic and describes the produced layers in info.
// Layer buffers alias an internal scratch area that is overwritten by the
// next call.
func (e *Engine) EncodeFrame(pic *ports.Picture, info *ports.FrameInfo) error {
	if !e.initialized {
		return StatusInitExpected
	}
	if pic == nil || info == nil {
		return StatusUnsupportedData
	}
	if err := e.load(pic); err != nil {
		return err
	}

	info.Reset()
	info.TimestampMs = pic.TimestampMs

	idr := e.forceIntra || !e.hasRef
	if !idr && e.opts.SkipDuplicates && e.unchanged() {
		info.FrameType = ports.FrameTypeSkip
		return nil
	}

	e.out.Reset()
	if idr {
		e.encodeIDR(info)
	} else {
		e.encodeP(info)
	}
	e.forceIntra = false
	e.hasRef = true
	e.cur, e.ref = e.ref, e.cur
	info.FrameSizeBytes = e.out.Len()
	return nil
}

// Uninitialize drops the picture stores.
func (e *Engine) Uninitialize() error {
	if !e.initialized {
		return StatusInitExpected
	}
	e.initialized = false
	e.cur = [3][]byte{}
	e.ref = [3][]byte{}
	e.out = bytes.Buffer{}
	return nil
}

// Destroy releases the engine. Further calls report StatusInitExpected.
func (e *Engine) Destroy() {
	e.initialized = false
	e.destroyed = true
	e.cur = [3][]byte{}
	e.ref = [3][]byte{}
	e.out = bytes.Buffer{}
}

func (e *Engine) encodeIDR(info *ports.FrameInfo) {
	spsLen := writeNAL(&e.out, nalHeaderSPS, func(w *bits.EBSPWriter) {
		writeSPS(w, e.geo, e.level)
	})
	ppsLen := writeNAL(&e.out, nalHeaderPPS, writePPS)
	paramEnd := e.out.Len()

	e.frameNum = 0
	sliceLen := writeNAL(&e.out, nalHeaderIDR, func(w *bits.EBSPWriter) {
		writeSliceHeader(w, sliceHeader{idr: true, frameNum: 0, idrPicID: e.idrPicID})
		for mb := 0; mb < e.geo.mbs(); mb++ {
			w.WriteExpGolomb(mbTypeIPCMInI)
			e.writePCM(w, mb)
		}
	})

	e.idrPicID = (e.idrPicID + 1) % 65536
	out := e.out.Bytes()
	info.FrameType = ports.FrameTypeIDR
	info.Layers = append(info.Layers,
		ports.LayerInfo{
			FrameType:  ports.FrameTypeIDR,
			LayerType:  ports.LayerTypeNonVideoCoding,
			NalLengths: []int{spsLen, ppsLen},
			Buf:        out[:paramEnd],
		},
		ports.LayerInfo{
			FrameType:  ports.FrameTypeIDR,
			LayerType:  ports.LayerTypeVideoCoding,
			NalLengths: []int{sliceLen},
			Buf:        out[paramEnd:],
		},
	)
}

func (e *Engine) encodeP(info *ports.FrameInfo) {
	e.frameNum = (e.frameNum + 1) % maxFrameNum
	sliceLen := writeNAL(&e.out, nalHeaderSlice, func(w *bits.EBSPWriter) {
		writeSliceHeader(w, sliceHeader{frameNum: e.frameNum})
		skipRun := uint(0)
		for mb := 0; mb < e.geo.mbs(); mb++ {
			if e.mbEqual(mb) {
				skipRun++
				continue
			}
			w.WriteExpGolomb(skipRun)
			skipRun = 0
			w.WriteExpGolomb(mbTypeIPCMInP)
			e.writePCM(w, mb)
		}
		if skipRun > 0 {
			w.WriteExpGolomb(skipRun)
		}
	})

	info.FrameType = ports.FrameTypeP
	info.Layers = append(info.Layers, ports.LayerInfo{
		FrameType:  ports.FrameTypeP,
		LayerType:  ports.LayerTypeVideoCoding,
		NalLengths: []int{sliceLen},
		Buf:        e.out.Bytes(),
	})
}

// writePCM writes pcm_alignment_zero_bits and the raw samples of one
// macroblock from the current picture.
func (e *Engine) writePCM(w *bits.EBSPWriter, mb int) {
	w.StuffByteWithZeros()
	for _, plane := range [3][]byte{
		e.cur[0][mb*256 : mb*256+256],
		e.cur[1][mb*64 : mb*64+64],
		e.cur[2][mb*64 : mb*64+64],
	} {
		for _, v := range plane {
			w.Write(uint(v), 8)
		}
	}
}

func (e *Engine) mbEqual(mb int) bool {
	return bytes.Equal(e.cur[0][mb*256:mb*256+256], e.ref[0][mb*256:mb*256+256]) &&
		bytes.Equal(e.cur[1][mb*64:mb*64+64], e.ref[1][mb*64:mb*64+64]) &&
		bytes.Equal(e.cur[2][mb*64:mb*64+64], e.ref[2][mb*64:mb*64+64])
}

func (e *Engine) unchanged() bool {
	return bytes.Equal(e.cur[0], e.ref[0]) &&
		bytes.Equal(e.cur[1], e.ref[1]) &&
		bytes.Equal(e.cur[2], e.ref[2])
}
