// Package framebuf holds the fixed-size I420 picture a session hands to its
// engine, together with the plane layout that describes it.
package framebuf

import (
	"errors"
	"fmt"

	"github.com/user/h264enc/pkg/ports"
)

var (
	// ErrSizeMismatch is returned when a frame does not match the buffer size.
	ErrSizeMismatch = errors.New("framebuf: frame size mismatch")

	// ErrInvalidLayout is returned when a plane layout does not tile the buffer.
	ErrInvalidLayout = errors.New("framebuf: invalid plane layout")

	// ErrReleased is returned when a released buffer is used.
	ErrReleased = errors.New("framebuf: buffer released")
)

// Plane describes one plane inside the backing buffer.
type Plane struct {
	Offset int
	Stride int
	Rows   int
}

// Size returns the plane's byte length.
func (p Plane) Size() int {
	return p.Stride * p.Rows
}

// Layout describes the three I420 planes within a single buffer.
type Layout struct {
	Width  int
	Height int
	Planes [3]Plane
}

// I420Layout returns the packed I420 layout for the given size:
// Y at 0 with stride width, U at width*height and V at width*height*5/4,
// both with stride width/2.
func I420Layout(width, height int) Layout {
	ySize := width * height
	return Layout{
		Width:  width,
		Height: height,
		Planes: [3]Plane{
			{Offset: 0, Stride: width, Rows: height},
			{Offset: ySize, Stride: width / 2, Rows: height / 2},
			{Offset: ySize + ySize/4, Stride: width / 2, Rows: height / 2},
		},
	}
}

// Size returns the total buffer length covered by the layout.
func (l Layout) Size() int {
	return l.Width * l.Height * 3 / 2
}

// Validate checks that the planes are contiguous, in order and exactly
// cover Size() bytes.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 || l.Width%2 != 0 || l.Height%2 != 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidLayout, l.Width, l.Height)
	}
	next := 0
	total := 0
	for i, p := range l.Planes {
		if p.Offset != next {
			return fmt.Errorf("%w: plane %d at offset %d, expected %d", ErrInvalidLayout, i, p.Offset, next)
		}
		if p.Stride <= 0 || p.Rows <= 0 {
			return fmt.Errorf("%w: plane %d is empty", ErrInvalidLayout, i)
		}
		next = p.Offset + p.Size()
		total += p.Size()
	}
	if total != l.Size() {
		return fmt.Errorf("%w: planes cover %d bytes, buffer is %d", ErrInvalidLayout, total, l.Size())
	}
	return nil
}

// Buffer is a fixed-size I420 frame store.
// It is not safe for concurrent use; the owning session serializes access.
type Buffer struct {
	layout Layout
	data   []byte
}

// New allocates a buffer for width x height pictures.
func New(width, height int) (*Buffer, error) {
	layout := I420Layout(width, height)
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Buffer{
		layout: layout,
		data:   make([]byte, layout.Size()),
	}, nil
}

// Layout returns the buffer's plane layout.
func (b *Buffer) Layout() Layout {
	return b.layout
}

// Size returns the buffer length in bytes.
func (b *Buffer) Size() int {
	return b.layout.Size()
}

// Bytes returns the backing storage. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Fill overwrites the whole buffer with src.
// The buffer is left untouched when len(src) != Size().
func (b *Buffer) Fill(src []byte) error {
	if b.data == nil {
		return ErrReleased
	}
	if len(src) != len(b.data) {
		return fmt.Errorf("%w: got %d bytes, expected %d", ErrSizeMismatch, len(src), len(b.data))
	}
	copy(b.data, src)
	return nil
}

// Picture describes the current contents as an engine picture.
// The planes alias the buffer and stay valid until the next Fill.
func (b *Buffer) Picture(timestampMs int64) (ports.Picture, error) {
	if b.data == nil {
		return ports.Picture{}, ErrReleased
	}
	pic := ports.Picture{
		Width:       b.layout.Width,
		Height:      b.layout.Height,
		ColorFormat: ports.ColorFormatI420,
		TimestampMs: timestampMs,
	}
	for i, p := range b.layout.Planes {
		pic.Strides[i] = p.Stride
		pic.Planes[i] = b.data[p.Offset : p.Offset+p.Size() : p.Offset+p.Size()]
	}
	return pic, nil
}

// Release drops the backing storage. It is safe to call more than once.
func (b *Buffer) Release() {
	b.data = nil
}
