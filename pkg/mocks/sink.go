package mocks

import (
	"sync"

	"github.com/user/h264enc/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SessionJSON  []byte
	SourceFrames map[int][]byte
	Layers       map[[2]int][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:      enabled,
		SourceFrames: make(map[int][]byte),
		Layers:       make(map[[2]int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveSessionJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionJSON = data
	return nil
}

func (m *DebugSink) SaveSourceFrame(index int, i420 []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFrames[index] = append([]byte(nil), i420...)
	return nil
}

func (m *DebugSink) SaveLayer(frameIndex, layerIndex int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Layers[[2]int{frameIndex, layerIndex}] = append([]byte(nil), data...)
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
