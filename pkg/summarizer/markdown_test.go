package summarizer

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/h264enc/pkg/mocks"
)

func testSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		SessionID:   "6c0f4e8a-1b2c-4d5e-8f90-a1b2c3d4e5f6",
		Settings: Settings{
			Engine:           "pcm",
			EngineFallback:   true,
			Input:            "pattern",
			Width:            640,
			Height:           480,
			FPS:              30,
			KeyframeInterval: 60,
		},
		Stream: StreamInfo{
			FramesIn:      90,
			FramesEncoded: 88,
			FramesSkipped: 2,
			Keyframes:     2,
			Layers:        90,
			Bytes:         1024 * 1024,
			DurationMs:    3000,
			OutputPath:    "out.h264",
		},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	formatter := NewMarkdownFormatter()

	result := formatter.Format(testSummary())

	checks := []string{
		"# Encode Summary",
		"6c0f4e8a-1b2c-4d5e-8f90-a1b2c3d4e5f6",
		"2024-01-15T10:30:00Z",
		"pcm (fallback)",
		"640x480",
		"30.00 fps",
		"60 frames",
		"| Skipped Frames | 2 |",
		"1.00 MB",
		"3000 ms",
		"2796.2 kbps",
		"out.h264",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Format_NoDuration(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := testSummary()
	summary.Stream.DurationMs = 0
	summary.Stream.OutputPath = ""
	summary.Settings.EngineFallback = false

	result := formatter.Format(summary)

	if !strings.Contains(result, "N/A") {
		t.Error("expected N/A bitrate without duration")
	}
	if strings.Contains(result, "fallback") {
		t.Error("output should NOT mention fallback")
	}
	if strings.Contains(result, "| Output |") {
		t.Error("output should NOT contain an output row")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Encode Summary": "エンコードサマリー",
			"Keyframes":      "キーフレーム",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	formatter := NewMarkdownFormatter(WithTranslator(translator))
	result := formatter.Format(testSummary())

	if !strings.Contains(result, "エンコードサマリー") {
		t.Error("expected translated 'Encode Summary'")
	}
	if !strings.Contains(result, "キーフレーム") {
		t.Error("expected translated 'Keyframes'")
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	formatter := NewMarkdownFormatter(WithVersion("v1.2.0"))

	result := formatter.Format(testSummary())

	if !strings.Contains(result, "v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	writer := NewWriter(FormatFunc(func(s *Summary) string { return "frames: 90" }), fs)

	path := filepath.Join("reports", "summary.md")
	if err := writer.Write(path, testSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !fs.HasDir("reports") {
		t.Error("expected parent directory to be created")
	}
	data, ok := fs.GetFile(path)
	if !ok {
		t.Fatalf("expected file at %s", path)
	}
	if string(data) != "frames: 90" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(string, []byte) error { return errors.New("disk full") }
	writer := NewWriter(NewMarkdownFormatter(), fs)

	if err := writer.Write("summary.md", testSummary()); err == nil {
		t.Error("expected write error")
	}
}
