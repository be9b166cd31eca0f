package colorconv

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/user/h264enc/pkg/ports"
)

// ImageToPixelFrame exposes an image as a PixelFrame.
// *image.RGBA and *image.NRGBA are wrapped without copying; any other image
// is first drawn into a new RGBA buffer.
func ImageToPixelFrame(img image.Image) ports.PixelFrame {
	switch m := img.(type) {
	case *image.RGBA:
		return ports.PixelFrame{
			Width:  m.Rect.Dx(),
			Height: m.Rect.Dy(),
			Stride: m.Stride,
			Format: ports.PixelFormatPARGB32,
			Pix:    m.Pix[m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y):],
		}
	case *image.NRGBA:
		return ports.PixelFrame{
			Width:  m.Rect.Dx(),
			Height: m.Rect.Dy(),
			Stride: m.Stride,
			Format: ports.PixelFormatARGB32,
			Pix:    m.Pix[m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y):],
		}
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return ports.PixelFrame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Stride: dst.Stride,
		Format: ports.PixelFormatPARGB32,
		Pix:    dst.Pix,
	}
}
