package patternsource

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestSource_ProducesFrames(t *testing.T) {
	src := New(Options{Width: 64, Height: 48, Frames: 3})
	ctx := context.Background()

	if src.Len() != 3 {
		t.Errorf("expected Len 3, got %d", src.Len())
	}
	for i := 0; i < 3; i++ {
		img, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		b := img.Bounds()
		if b.Dx() != 64 || b.Dy() != 48 {
			t.Errorf("frame %d: expected 64x48, got %dx%d", i, b.Dx(), b.Dy())
		}
	}
	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestSource_FramesDiffer(t *testing.T) {
	src := New(Options{Width: 128, Height: 96, Frames: 2})
	a, _ := src.Next(context.Background())
	b, _ := src.Next(context.Background())

	same := true
	for y := 0; y < 96 && same; y++ {
		for x := 0; x < 128; x++ {
			if a.At(x, y) != b.At(x, y) {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("expected consecutive frames to differ")
	}
}

func TestSource_Hold(t *testing.T) {
	src := New(Options{Width: 32, Height: 32, Frames: 4, Hold: 2})
	ctx := context.Background()

	a, _ := src.Next(ctx)
	b, _ := src.Next(ctx)
	c, _ := src.Next(ctx)
	if a != b {
		t.Error("expected held frame to be repeated")
	}
	if a == c {
		t.Error("expected a new frame after the hold")
	}
}

func TestSource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := New(Options{Width: 16, Height: 16, Frames: 1})
	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
