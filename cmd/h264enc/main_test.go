package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/h264enc/pkg/bitstream"
)

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	return newApp().RunContext(context.Background(), append([]string{"h264enc"}, args...))
}

func TestPatternCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping CLI encode in short mode")
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "pattern.h264")
	summary := filepath.Join(dir, "report", "summary.md")

	err := runApp(t, "pattern",
		"-o", out,
		"--summary", summary,
		"--engine", "pcm",
		"--frames", "6",
		"--fps", "2",
		"-W", "48",
		"-H", "32",
		"-q",
	)
	if err != nil {
		t.Fatalf("pattern command failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not found: %v", err)
	}
	info, err := bitstream.Inspect(data)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if info.Width != 48 || info.Height != 32 {
		t.Errorf("expected 48x32 stream, got %dx%d", info.Width, info.Height)
	}
	// 2 fps gives a keyframe every 4 frames
	if info.IDRCount != 2 {
		t.Errorf("expected 2 IDR slices, got %d", info.IDRCount)
	}

	report, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("summary not found: %v", err)
	}
	for _, want := range []string{"pcm", "48x32", "| Keyframe Interval | 4 frames |"} {
		if !strings.Contains(string(report), want) {
			t.Errorf("expected summary to contain %q", want)
		}
	}
}

func TestEncodeCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping CLI encode in short mode")
	}

	dir := t.TempDir()
	var paths []string
	for i, c := range []color.RGBA{{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}} {
		img := image.NewRGBA(image.Rect(0, 0, 33, 17))
		for y := 0; y < 17; y++ {
			for x := 0; x < 33; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode png: %v", err)
		}
		p := filepath.Join(dir, "frame"+string(rune('0'+i))+".png")
		if err := os.WriteFile(p, buf.Bytes(), 0644); err != nil {
			t.Fatalf("write png: %v", err)
		}
		paths = append(paths, p)
	}

	out := filepath.Join(dir, "images.h264")
	debugDir := filepath.Join(dir, "debug")
	args := append([]string{"encode", "-o", out, "--engine", "pcm", "-d", "--debug-dir", debugDir, "-q"}, paths...)
	if err := runApp(t, args...); err != nil {
		t.Fatalf("encode command failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not found: %v", err)
	}
	info, err := bitstream.Inspect(data)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	// Size is probed from the first image and rounded down to even
	if info.Width != 32 || info.Height != 16 {
		t.Errorf("expected 32x16 stream, got %dx%d", info.Width, info.Height)
	}
	if info.SliceCount != 3 {
		t.Errorf("expected 3 slices, got %d", info.SliceCount)
	}

	if _, err := os.Stat(filepath.Join(debugDir, "session.json")); err != nil {
		t.Errorf("expected session.json in debug dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(debugDir, "frames", "source", "frame-0000.yuv")); err != nil {
		t.Errorf("expected source frame dump: %v", err)
	}
}

func TestEncodeCommand_NoArgs(t *testing.T) {
	if err := runApp(t, "encode", "-q"); err == nil {
		t.Error("expected error without image arguments")
	}
}

func TestEncodeCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	err := runApp(t, "pattern", "-o", filepath.Join(dir, "x.h264"), "--fps", "0", "-q")
	if err == nil {
		t.Error("expected error for zero fps")
	}
}

func TestEnginesCommand(t *testing.T) {
	if err := runApp(t, "engines"); err != nil {
		t.Errorf("engines command failed: %v", err)
	}
}

func TestInspectCommand_Missing(t *testing.T) {
	if err := runApp(t, "inspect", filepath.Join(t.TempDir(), "missing.h264")); err == nil {
		t.Error("expected error for missing file")
	}
}
