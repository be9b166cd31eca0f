package mocks

import (
	"sync"

	"github.com/user/h264enc/pkg/ports"
)

// Layer records one OnEncodedLayer call.
type Layer struct {
	Data     []byte
	KeyFrame bool
}

// LayerSink is a mock implementation of ports.LayerSink that copies every
// layer it receives.
type LayerSink struct {
	mu     sync.Mutex
	Layers []Layer

	OnEncodedLayerFunc func(data []byte, keyFrame bool)
}

func (m *LayerSink) OnEncodedLayer(data []byte, keyFrame bool) {
	m.mu.Lock()
	m.Layers = append(m.Layers, Layer{Data: append([]byte(nil), data...), KeyFrame: keyFrame})
	m.mu.Unlock()
	if m.OnEncodedLayerFunc != nil {
		m.OnEncodedLayerFunc(data, keyFrame)
	}
}

// Count returns the number of recorded layers.
func (m *LayerSink) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Layers)
}

// Reset discards recorded layers.
func (m *LayerSink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Layers = nil
}

var _ ports.LayerSink = (*LayerSink)(nil)
