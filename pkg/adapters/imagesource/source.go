// Package imagesource reads an ordered list of still images as frames.
// PNG, JPEG, GIF, BMP, TIFF and WebP files are supported.
package imagesource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/user/h264enc/pkg/ports"
)

// Source decodes images in order and scales them to a fixed size.
type Source struct {
	fs     ports.FileSystem
	paths  []string
	width  int
	height int
	next   int
}

// New creates a source that yields the images at paths scaled to
// width x height.
func New(fs ports.FileSystem, paths []string, width, height int) *Source {
	return &Source{
		fs:     fs,
		paths:  paths,
		width:  width,
		height: height,
	}
}

// Next decodes the next image, or returns io.EOF after the last path.
func (s *Source) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return s.fit(img), nil
}

// Len returns the number of images.
func (s *Source) Len() int {
	return len(s.paths)
}

// Close does nothing.
func (s *Source) Close() error {
	return nil
}

// fit returns img unchanged when it already has the target size and is an
// RGBA image; otherwise it is scaled into a new RGBA image.
func (s *Source) fit(img image.Image) image.Image {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Dx() == s.width && b.Dy() == s.height {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	if b.Dx() == s.width && b.Dy() == s.height {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Probe returns the size of the image at path, rounded down to even
// dimensions so it can be used as an I420 frame size.
func Probe(fs ports.FileSystem, path string) (width, height int, err error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	width, height = cfg.Width&^1, cfg.Height&^1
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("image %s is too small: %dx%d", path, cfg.Width, cfg.Height)
	}
	return width, height, nil
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
