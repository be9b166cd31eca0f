package mocks

import (
	"context"
	"image"
	"io"

	"github.com/user/h264enc/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource that yields
// Frames in order.
type FrameSource struct {
	Frames   []image.Image
	NextFunc func(ctx context.Context, index int) (image.Image, error)

	// Recorded calls for verification
	NextCalls   int
	CloseCalled bool

	next int
}

func (m *FrameSource) Next(ctx context.Context) (image.Image, error) {
	m.NextCalls++
	if m.NextFunc != nil {
		i := m.next
		m.next++
		return m.NextFunc(ctx, i)
	}
	if m.next >= len(m.Frames) {
		return nil, io.EOF
	}
	img := m.Frames[m.next]
	m.next++
	return img, nil
}

func (m *FrameSource) Len() int {
	return len(m.Frames)
}

func (m *FrameSource) Close() error {
	m.CloseCalled = true
	return nil
}

var _ ports.FrameSource = (*FrameSource)(nil)
