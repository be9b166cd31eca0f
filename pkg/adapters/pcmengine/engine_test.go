package pcmengine

import (
	"errors"
	"testing"

	"github.com/Eyevinn/mp4ff/avc"

	"github.com/user/h264enc/pkg/ports"
)

func defaultParams(w, h int) ports.EngineParams {
	return ports.EngineParams{
		Width:         w,
		Height:        h,
		MaxFrameRate:  30,
		TargetBitrate: 5000000,
		Usage:         ports.UsageCameraRealTime,
	}
}

// newPicture returns an I420 picture with every sample set to fill.
func newPicture(w, h int, fill byte) *ports.Picture {
	cw, ch := w/2, h/2
	pic := &ports.Picture{
		Width:       w,
		Height:      h,
		ColorFormat: ports.ColorFormatI420,
		Strides:     [3]int{w, cw, cw},
		Planes:      [3][]byte{make([]byte, w*h), make([]byte, cw*ch), make([]byte, cw*ch)},
	}
	for _, p := range pic.Planes {
		for i := range p {
			p[i] = fill
		}
	}
	return pic
}

func newEngine(t *testing.T, w, h int) *Engine {
	t.Helper()
	e := New()
	if err := e.Initialize(defaultParams(w, h)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(e.Destroy)
	return e
}

func layerNalus(t *testing.T, layer ports.LayerInfo) [][]byte {
	t.Helper()
	total := 0
	for _, n := range layer.NalLengths {
		total += n
	}
	if total != len(layer.Buf) {
		t.Fatalf("NAL lengths sum to %d, buffer holds %d", total, len(layer.Buf))
	}
	return avc.ExtractNalusFromByteStream(layer.Buf)
}

func TestEngine_FirstFrameIsIDR(t *testing.T) {
	e := newEngine(t, 64, 48)
	var info ports.FrameInfo

	if err := e.EncodeFrame(newPicture(64, 48, 100), &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.FrameType != ports.FrameTypeIDR {
		t.Fatalf("expected IDR, got %s", info.FrameType)
	}
	if len(info.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(info.Layers))
	}

	params := layerNalus(t, info.Layers[0])
	if len(params) != 2 {
		t.Fatalf("expected SPS and PPS, got %d NAL units", len(params))
	}
	if avc.GetNaluType(params[0][0]) != avc.NALU_SPS {
		t.Errorf("expected SPS, got %s", avc.GetNaluType(params[0][0]))
	}
	if avc.GetNaluType(params[1][0]) != avc.NALU_PPS {
		t.Errorf("expected PPS, got %s", avc.GetNaluType(params[1][0]))
	}
	if info.Layers[0].LayerType != ports.LayerTypeNonVideoCoding {
		t.Errorf("expected parameter layer to be non-video-coding")
	}

	slices := layerNalus(t, info.Layers[1])
	if len(slices) != 1 || avc.GetNaluType(slices[0][0]) != avc.NALU_IDR {
		t.Fatalf("expected a single IDR slice")
	}

	total := len(info.Layers[0].Buf) + len(info.Layers[1].Buf)
	if info.FrameSizeBytes != total {
		t.Errorf("expected frame size %d, got %d", total, info.FrameSizeBytes)
	}
}

func TestEngine_SPSDescribesPicture(t *testing.T) {
	tests := []struct {
		w, h  int
		level uint32
	}{
		{64, 48, 20},
		{100, 50, 21},
		{640, 480, 50},
		{1280, 720, 61},
		{1920, 1080, 62},
	}
	for _, tt := range tests {
		e := newEngine(t, tt.w, tt.h)
		var info ports.FrameInfo
		if err := e.EncodeFrame(newPicture(tt.w, tt.h, 50), &info); err != nil {
			t.Fatalf("%dx%d: unexpected error: %v", tt.w, tt.h, err)
		}
		nalus := layerNalus(t, info.Layers[0])
		sps, err := avc.ParseSPSNALUnit(nalus[0], false)
		if err != nil {
			t.Fatalf("%dx%d: parse SPS: %v", tt.w, tt.h, err)
		}
		if int(sps.Width) != tt.w || int(sps.Height) != tt.h {
			t.Errorf("expected %dx%d, SPS says %dx%d", tt.w, tt.h, sps.Width, sps.Height)
		}
		if sps.Profile != profileBaseline {
			t.Errorf("expected profile %d, got %d", profileBaseline, sps.Profile)
		}
		if sps.Level != tt.level {
			t.Errorf("%dx%d: expected level %d, got %d", tt.w, tt.h, tt.level, sps.Level)
		}

		spsMap := map[uint32]*avc.SPS{sps.ParameterID: sps}
		if _, err := avc.ParsePPSNALUnit(nalus[1], spsMap); err != nil {
			t.Errorf("%dx%d: parse PPS: %v", tt.w, tt.h, err)
		}
	}
}

func TestEngine_DeclaredLevelCarriesStream(t *testing.T) {
	tests := []struct {
		w, h int
		fps  float64
	}{
		{48, 32, 30},
		{320, 240, 30},
		{640, 480, 30},
		{640, 480, 5},
		{1280, 720, 25},
	}
	for _, tt := range tests {
		e := New()
		params := defaultParams(tt.w, tt.h)
		params.MaxFrameRate = tt.fps
		if err := e.Initialize(params); err != nil {
			t.Fatalf("%dx%d@%v: unexpected error: %v", tt.w, tt.h, tt.fps, err)
		}

		var info ports.FrameInfo
		// Samples vary per macroblock so nothing is skipped and the IDR is
		// the largest picture the stream can contain.
		pic := newPicture(tt.w, tt.h, 50)
		for i := range pic.Planes[0] {
			pic.Planes[0][i] = byte(16 + i%200)
		}
		if err := e.EncodeFrame(pic, &info); err != nil {
			t.Fatalf("%dx%d@%v: unexpected error: %v", tt.w, tt.h, tt.fps, err)
		}
		sps, err := avc.ParseSPSNALUnit(layerNalus(t, info.Layers[0])[0], false)
		if err != nil {
			t.Fatalf("parse SPS: %v", err)
		}
		limits, ok := limitsFor(sps.Level)
		if !ok {
			t.Fatalf("SPS declares unknown level %d", sps.Level)
		}

		mbs := int64((tt.w + 15) / 16 * ((tt.h + 15) / 16))
		if mbs > limits.maxFS {
			t.Errorf("%dx%d: %d macroblocks exceed level %d MaxFS %d", tt.w, tt.h, mbs, sps.Level, limits.maxFS)
		}
		if float64(mbs)*tt.fps > float64(limits.maxMBPS) {
			t.Errorf("%dx%d@%v: macroblock rate exceeds level %d MaxMBPS %d", tt.w, tt.h, tt.fps, sps.Level, limits.maxMBPS)
		}
		bitrate := float64(info.FrameSizeBytes) * 8 * tt.fps
		if bitrate > float64(limits.maxBR)*1000 {
			t.Errorf("%dx%d@%v: %.1f Mbit/s exceeds level %d MaxBR %d kbit/s", tt.w, tt.h, tt.fps, bitrate/1e6, sps.Level, limits.maxBR)
		}
		e.Destroy()
	}
}

func TestSelectLevel(t *testing.T) {
	if _, err := selectLevel(140000, 1); !errors.Is(err, ErrNoLevel) {
		t.Errorf("frame beyond every MaxFS: expected ErrNoLevel, got %v", err)
	}
	if _, err := selectLevel(8160, 60); !errors.Is(err, ErrNoLevel) {
		t.Errorf("1080p60 PCM: expected ErrNoLevel, got %v", err)
	}
	level, err := selectLevel(99, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level != 30 {
		t.Errorf("expected level 30 for QCIF at 15 fps, got %d", level)
	}
}

func TestEngine_DuplicateFrameIsSkipped(t *testing.T) {
	e := newEngine(t, 32, 32)
	var info ports.FrameInfo
	pic := newPicture(32, 32, 90)

	if err := e.EncodeFrame(pic, &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.EncodeFrame(pic, &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.FrameType != ports.FrameTypeSkip {
		t.Errorf("expected skip, got %s", info.FrameType)
	}
	if len(info.Layers) != 0 {
		t.Errorf("expected no layers for a skipped frame, got %d", len(info.Layers))
	}
}

func TestEngine_ChangedFrameIsP(t *testing.T) {
	e := newEngine(t, 32, 32)
	var info ports.FrameInfo

	if err := e.EncodeFrame(newPicture(32, 32, 90), &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	idrSize := info.FrameSizeBytes

	// Change a single luma sample: one macroblock is re-sent.
	pic := newPicture(32, 32, 90)
	pic.Planes[0][0] = 200
	if err := e.EncodeFrame(pic, &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.FrameType != ports.FrameTypeP {
		t.Fatalf("expected P, got %s", info.FrameType)
	}
	if len(info.Layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(info.Layers))
	}
	nalus := layerNalus(t, info.Layers[0])
	if len(nalus) != 1 || avc.GetNaluType(nalus[0][0]) != avc.NALU_NON_IDR {
		t.Fatalf("expected a single non-IDR slice")
	}
	if info.FrameSizeBytes >= idrSize/2 {
		t.Errorf("expected P frame (%d bytes) to be much smaller than IDR (%d bytes)", info.FrameSizeBytes, idrSize)
	}
}

func TestEngine_ForceIntraFrame(t *testing.T) {
	e := newEngine(t, 32, 32)
	var info ports.FrameInfo
	pic := newPicture(32, 32, 90)

	if err := e.EncodeFrame(pic, &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.ForceIntraFrame(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.EncodeFrame(pic, &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.FrameType != ports.FrameTypeIDR {
		t.Errorf("expected forced IDR, got %s", info.FrameType)
	}

	// The request applies to one frame only.
	if err := e.EncodeFrame(pic, &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.FrameType != ports.FrameTypeSkip {
		t.Errorf("expected skip after forced IDR, got %s", info.FrameType)
	}
}

func TestEngine_SkipDuplicatesDisabled(t *testing.T) {
	e := NewWithOptions(Options{SkipDuplicates: false})
	if err := e.Initialize(defaultParams(32, 32)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer e.Destroy()

	var info ports.FrameInfo
	pic := newPicture(32, 32, 90)
	for i := 0; i < 2; i++ {
		if err := e.EncodeFrame(pic, &info); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if info.FrameType != ports.FrameTypeP {
		t.Fatalf("expected P, got %s", info.FrameType)
	}
	// Header plus a single mb_skip_run covering all four macroblocks.
	if info.FrameSizeBytes > 16 {
		t.Errorf("expected a tiny all-skip slice, got %d bytes", info.FrameSizeBytes)
	}
}

func TestEngine_TimestampPropagates(t *testing.T) {
	e := newEngine(t, 16, 16)
	var info ports.FrameInfo
	pic := newPicture(16, 16, 1)
	pic.TimestampMs = 1234

	if err := e.EncodeFrame(pic, &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.TimestampMs != 1234 {
		t.Errorf("expected timestamp 1234, got %d", info.TimestampMs)
	}
}

func TestEngine_Errors(t *testing.T) {
	t.Run("not initialized", func(t *testing.T) {
		e := New()
		var info ports.FrameInfo
		err := e.EncodeFrame(newPicture(16, 16, 1), &info)
		if !errors.Is(err, StatusInitExpected) {
			t.Errorf("expected StatusInitExpected, got %v", err)
		}
		if err := e.ForceIntraFrame(true); !errors.Is(err, StatusInitExpected) {
			t.Errorf("expected StatusInitExpected, got %v", err)
		}
	})

	t.Run("invalid params", func(t *testing.T) {
		bad := []ports.EngineParams{
			defaultParams(0, 16),
			defaultParams(15, 16),
			{Width: 16, Height: 16, MaxFrameRate: 0, TargetBitrate: 1},
			{Width: 16, Height: 16, MaxFrameRate: 30, TargetBitrate: 0},
			defaultParams(16384, 16384),
			{Width: 64, Height: 48, MaxFrameRate: 100000, TargetBitrate: 1},
		}
		for _, p := range bad {
			e := New()
			if err := e.Initialize(p); !errors.Is(err, StatusInitParamError) {
				t.Errorf("%+v: expected StatusInitParamError, got %v", p, err)
			}
			e.Destroy()
		}
	})

	t.Run("picture size mismatch", func(t *testing.T) {
		e := newEngine(t, 32, 32)
		var info ports.FrameInfo
		err := e.EncodeFrame(newPicture(16, 16, 1), &info)
		if !errors.Is(err, StatusUnsupportedData) {
			t.Errorf("expected StatusUnsupportedData, got %v", err)
		}
	})

	t.Run("short plane", func(t *testing.T) {
		e := newEngine(t, 16, 16)
		pic := newPicture(16, 16, 1)
		pic.Planes[2] = pic.Planes[2][:10]
		var info ports.FrameInfo
		if err := e.EncodeFrame(pic, &info); !errors.Is(err, StatusUnsupportedData) {
			t.Errorf("expected StatusUnsupportedData, got %v", err)
		}
	})

	t.Run("after destroy", func(t *testing.T) {
		e := New()
		if err := e.Initialize(defaultParams(16, 16)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		e.Destroy()
		if err := e.Initialize(defaultParams(16, 16)); !errors.Is(err, StatusInitExpected) {
			t.Errorf("expected StatusInitExpected, got %v", err)
		}
	})

	t.Run("uninitialize twice", func(t *testing.T) {
		e := newEngine(t, 16, 16)
		if err := e.Uninitialize(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := e.Uninitialize(); !errors.Is(err, StatusInitExpected) {
			t.Errorf("expected StatusInitExpected, got %v", err)
		}
	})
}

func TestLoadPlane_EdgeReplication(t *testing.T) {
	// 2x2 source inside a single 4x4 block.
	src := []byte{
		1, 2,
		0, 4,
	}
	dst := make([]byte, 16)
	loadPlane(dst, src, 2, 2, 2, 4, 1, 1)

	want := []byte{
		1, 2, 2, 2,
		1, 4, 4, 4,
		1, 4, 4, 4,
		1, 4, 4, 4,
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d (%v)", i, want[i], dst[i], dst)
		}
	}
}

var _ ports.Engine = (*Engine)(nil)
