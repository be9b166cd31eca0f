package filesink

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/h264enc/pkg/mocks"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem())

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveSessionJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	data := []byte(`{"frames": 3}`)
	if err := sink.SaveSessionJSON(data); err != nil {
		t.Fatalf("SaveSessionJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "session.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveSourceFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	frame := make([]byte, 24)
	for i := 0; i < 3; i++ {
		if err := sink.SaveSourceFrame(i, frame); err != nil {
			t.Fatalf("SaveSourceFrame(%d) failed: %v", i, err)
		}
	}

	dir := filepath.Join(testBaseDir, "frames", "source")
	if !fs.HasDir(dir) {
		t.Errorf("expected directory %s to be created", dir)
	}
	paths := fs.Paths(dir)
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %v", paths)
	}
	if paths[0] != filepath.Join(dir, "frame-0000.yuv") {
		t.Errorf("unexpected first path %s", paths[0])
	}
}

func TestSink_SaveLayer(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	data := []byte{0, 0, 0, 1, 0x65}
	if err := sink.SaveLayer(12, 1, data); err != nil {
		t.Fatalf("SaveLayer failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "layers", "frame-0012-layer-1.h264")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if len(saved) != len(data) {
		t.Errorf("expected %d bytes, got %d", len(data), len(saved))
	}
}

func TestSink_MkdirError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAllFunc = func(string) error { return errors.New("read-only") }
	sink := New(testBaseDir, fs)

	if err := sink.SaveLayer(0, 0, []byte{1}); err == nil {
		t.Error("expected error when directory cannot be created")
	}
	if err := sink.SaveSourceFrame(0, []byte{1}); err == nil {
		t.Error("expected error when directory cannot be created")
	}
}
