package mocks

import (
	"sync"

	"github.com/user/h264enc/pkg/ports"
)

// Engine is a mock implementation of ports.Engine.
//
// Without an EncodeFrameFunc it reports an IDR frame with a parameter-set
// layer and a slice layer when intra was forced, and a single P slice layer
// otherwise.
type Engine struct {
	mu sync.Mutex

	InitializeFunc   func(params ports.EngineParams) error
	EncodeFrameFunc  func(pic *ports.Picture, info *ports.FrameInfo) error
	UninitializeFunc func() error

	// Recorded calls for verification
	InitializeCalls   []ports.EngineParams
	ForceIntraCalls   []bool
	EncodeFrameCalls  []EncodeFrameCall
	UninitializeCalls int
	DestroyCalls      int

	forced bool
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	TimestampMs int64
	Forced      bool
	Luma        []byte
}

func (m *Engine) Initialize(params ports.EngineParams) error {
	m.mu.Lock()
	m.InitializeCalls = append(m.InitializeCalls, params)
	m.mu.Unlock()
	if m.InitializeFunc != nil {
		return m.InitializeFunc(params)
	}
	return nil
}

func (m *Engine) ForceIntraFrame(force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ForceIntraCalls = append(m.ForceIntraCalls, force)
	m.forced = force
	return nil
}

func (m *Engine) EncodeFrame(pic *ports.Picture, info *ports.FrameInfo) error {
	m.mu.Lock()
	forced := m.forced
	m.forced = false
	m.EncodeFrameCalls = append(m.EncodeFrameCalls, EncodeFrameCall{
		TimestampMs: pic.TimestampMs,
		Forced:      forced,
		Luma:        append([]byte(nil), pic.Planes[0]...),
	})
	m.mu.Unlock()

	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(pic, info)
	}

	info.Reset()
	info.TimestampMs = pic.TimestampMs
	if forced {
		info.FrameType = ports.FrameTypeIDR
		info.Layers = append(info.Layers,
			ports.LayerInfo{
				LayerType:  ports.LayerTypeNonVideoCoding,
				NalLengths: []int{6, 5},
				Buf:        []byte{0, 0, 0, 1, 0x67, 0x42, 0, 0, 0, 1, 0x68},
			},
			ports.LayerInfo{
				LayerType:  ports.LayerTypeVideoCoding,
				NalLengths: []int{6},
				Buf:        []byte{0, 0, 0, 1, 0x65, 0x88},
			},
		)
		info.FrameSizeBytes = 17
		return nil
	}
	info.FrameType = ports.FrameTypeP
	info.Layers = append(info.Layers, ports.LayerInfo{
		LayerType:  ports.LayerTypeVideoCoding,
		NalLengths: []int{6},
		Buf:        []byte{0, 0, 0, 1, 0x41, 0x9A},
	})
	info.FrameSizeBytes = 6
	return nil
}

func (m *Engine) Uninitialize() error {
	m.mu.Lock()
	m.UninitializeCalls++
	m.mu.Unlock()
	if m.UninitializeFunc != nil {
		return m.UninitializeFunc()
	}
	return nil
}

func (m *Engine) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DestroyCalls++
}

var _ ports.Engine = (*Engine)(nil)
