// Package colorconv converts packed RGB pixel buffers into the planar
// YUV 4:2:0 layout consumed by H.264 engines.
package colorconv

import (
	"fmt"

	"github.com/user/h264enc/pkg/ports"
)

// PixelsToRGBA repacks a 24- or 32-bit pixel buffer into tightly packed RGBA.
// The fourth byte of every output pixel is left zero; only R, G and B are
// carried over. The source is read row by row through its stride.
func PixelsToRGBA(frame ports.PixelFrame) ([]byte, error) {
	pixelSize := frame.Format.BytesPerPixel()
	if pixelSize == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, frame.Format)
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrame, frame.Width, frame.Height)
	}
	rowBytes := frame.Width * pixelSize
	if frame.Stride < rowBytes {
		return nil, fmt.Errorf("%w: stride %d shorter than row %d", ErrInvalidFrame, frame.Stride, rowBytes)
	}
	need := (frame.Height-1)*frame.Stride + rowBytes
	if len(frame.Pix) < need {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidFrame, len(frame.Pix), need)
	}

	out := make([]byte, frame.Width*frame.Height*4)
	cnt := 0
	for row := 0; row < frame.Height; row++ {
		src := frame.Pix[row*frame.Stride : row*frame.Stride+rowBytes]
		for col := 0; col < rowBytes; col += pixelSize {
			out[cnt] = src[col]
			out[cnt+1] = src[col+1]
			out[cnt+2] = src[col+2]
			cnt += 4
		}
	}
	return out, nil
}
