package ports

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate encoding results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSessionJSON saves the session settings and statistics as JSON.
	SaveSessionJSON(data []byte) error

	// SaveSourceFrame saves the I420 picture handed to the encoder.
	SaveSourceFrame(index int, i420 []byte) error

	// SaveLayer saves one encoded layer of a frame.
	SaveLayer(frameIndex, layerIndex int, data []byte) error
}
