// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/user/h264enc/pkg/ports"
)

// Sink saves debug output to files under a base directory:
//
//	session.json
//	frames/source/frame-NNNN.yuv          raw I420 handed to the engine
//	frames/layers/frame-NNNN-layer-L.h264 Annex B bytes of each layer
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSessionJSON saves the session settings and statistics.
func (s *Sink) SaveSessionJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "session.json")
	return s.fs.WriteFile(path, data)
}

// SaveSourceFrame saves the I420 picture of a frame.
func (s *Sink) SaveSourceFrame(index int, i420 []byte) error {
	dir := filepath.Join(s.baseDir, "frames", "source")
	if err := s.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("create source frame dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.yuv", index))
	return s.fs.WriteFile(path, i420)
}

// SaveLayer saves one encoded layer of a frame.
func (s *Sink) SaveLayer(frameIndex, layerIndex int, data []byte) error {
	dir := filepath.Join(s.baseDir, "frames", "layers")
	if err := s.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("create layer dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d-layer-%d.h264", frameIndex, layerIndex))
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
