// Package patternsource renders synthetic test frames with the gg library.
package patternsource

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/user/h264enc/pkg/ports"
)

// Colors of the vertical bars, left to right.
var barColors = []color.Color{
	color.RGBA{R: 192, G: 192, B: 192, A: 255},
	color.RGBA{R: 192, G: 192, B: 0, A: 255},
	color.RGBA{R: 0, G: 192, B: 192, A: 255},
	color.RGBA{R: 0, G: 192, B: 0, A: 255},
	color.RGBA{R: 192, G: 0, B: 192, A: 255},
	color.RGBA{R: 192, G: 0, B: 0, A: 255},
	color.RGBA{R: 0, G: 0, B: 192, A: 255},
}

// Options configures a Source.
type Options struct {
	Width  int
	Height int
	Frames int
	// Hold repeats every rendered picture this many times. Values below
	// one are treated as one.
	Hold int
}

// Source produces color bars with a moving box and a frame counter.
type Source struct {
	opts Options
	next int
	last image.Image
}

// New creates a pattern source.
func New(opts Options) *Source {
	if opts.Hold < 1 {
		opts.Hold = 1
	}
	return &Source{opts: opts}
}

// Next renders the next frame, or returns io.EOF after Frames frames.
func (s *Source) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= s.opts.Frames {
		return nil, io.EOF
	}
	i := s.next
	s.next++

	if i%s.opts.Hold != 0 && s.last != nil {
		return s.last, nil
	}
	s.last = s.render(i / s.opts.Hold)
	return s.last, nil
}

// Len returns the number of frames the source produces.
func (s *Source) Len() int {
	return s.opts.Frames
}

// Close does nothing.
func (s *Source) Close() error {
	return nil
}

func (s *Source) render(step int) image.Image {
	w, h := float64(s.opts.Width), float64(s.opts.Height)
	dc := gg.NewContext(s.opts.Width, s.opts.Height)
	dc.SetColor(color.Black)
	dc.Clear()

	barWidth := w / float64(len(barColors))
	barHeight := h * 2 / 3
	for i, c := range barColors {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*barWidth, 0, barWidth+1, barHeight)
		dc.Fill()
	}

	// Gray ramp under the bars.
	steps := 8
	rampWidth := w / float64(steps)
	for i := 0; i < steps; i++ {
		v := uint8(i * 255 / (steps - 1))
		dc.SetColor(color.Gray{Y: v})
		dc.DrawRectangle(float64(i)*rampWidth, barHeight, rampWidth+1, h-barHeight)
		dc.Fill()
	}

	// Box sweeping left to right, one box width per 8 steps.
	box := h / 6
	travel := w - box
	x := 0.0
	if travel > 0 {
		x = math.Mod(float64(step)*box/8, travel)
	}
	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(x, barHeight-box-4, box, box, box/6)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("frame %d", step), w/2, barHeight+(h-barHeight)/2, 0.5, 0.5)
	return dc.Image()
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
