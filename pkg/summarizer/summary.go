// Package summarizer provides summary generation for encode runs.
package summarizer

import "time"

// Summary contains all data collected during an encode run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	SessionID   string

	// Encoding settings
	Settings Settings

	// Output stream details
	Stream StreamInfo
}

// Settings contains the encode configuration.
type Settings struct {
	Engine           string
	EngineFallback   bool
	Input            string
	Width            int
	Height           int
	FPS              float64
	KeyframeInterval uint64
}

// StreamInfo contains information about the produced elementary stream.
type StreamInfo struct {
	FramesIn      uint64
	FramesEncoded uint64
	FramesSkipped uint64
	Keyframes     uint64
	Layers        uint64
	Bytes         int64
	DurationMs    int64
	OutputPath    string
}

// BitrateKbps returns the average bitrate of the stream, or zero when the
// duration is unknown.
func (s StreamInfo) BitrateKbps() float64 {
	if s.DurationMs <= 0 {
		return 0
	}
	return float64(s.Bytes) * 8 / float64(s.DurationMs)
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSession sets the session identifier.
func (b *Builder) WithSession(id string) *Builder {
	b.summary.SessionID = id
	return b
}

// WithSettings sets encode settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithStream sets output stream information.
func (b *Builder) WithStream(stream StreamInfo) *Builder {
	b.summary.Stream = stream
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
