// Package session drives a single H.264 engine instance: it owns the I420
// frame buffer, decides when to force keyframes, translates timestamps and
// hands every encoded layer to the caller's sink.
package session

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/user/h264enc/pkg/bitstream"
	"github.com/user/h264enc/pkg/colorconv"
	"github.com/user/h264enc/pkg/framebuf"
	"github.com/user/h264enc/pkg/ports"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDisposed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Options configures optional session collaborators.
type Options struct {
	// Logger receives lifecycle and per-frame logs. Defaults to no output.
	Logger ports.Logger
	// DebugSink receives source frames and encoded layers when enabled.
	DebugSink ports.DebugSink
}

// Session encodes one stream of equally sized frames.
//
// All methods are safe for concurrent use; calls are serialized so that at
// most one encode is in flight. The layer sink runs on the encoding
// goroutine before Encode returns and must not call back into the session.
type Session struct {
	mu sync.Mutex

	id     string
	log    ports.Logger
	debug  ports.DebugSink
	engine ports.Engine
	sink   ports.LayerSink

	state     State
	destroyed bool
	cfg       Config
	buf       *framebuf.Buffer
	info      ports.FrameInfo

	frames   uint64
	interval uint64

	stats counters
}

// New creates a session that takes ownership of engine.
// The engine is destroyed by Close. A nil engine yields a session whose
// Setup fails with ErrEngineInit and whose Close is a no-op.
func New(engine ports.Engine, opts Options) *Session {
	id := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	return &Session{
		id:     id,
		log:    log.WithComponent("session/" + id[:8]),
		debug:  opts.DebugSink,
		engine: engine,
		state:  StateUninitialized,
	}
}

// ID returns the session identifier used in logs and summaries.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns the configuration fixed at Setup.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// KeyframeInterval returns the forced keyframe cadence in frames,
// or zero before Setup.
func (s *Session) KeyframeInterval() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// FrameCount returns the number of frames that reached the engine.
func (s *Session) FrameCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats {
	return s.stats.snapshot()
}

// Setup validates the parameters, initializes the engine and allocates the
// frame buffer. On failure the session stays uninitialized and may be
// closed safely.
func (s *Session) Setup(width, height int, frameRate float64, sink ports.LayerSink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady:
		return fmt.Errorf("%w: session already set up", ErrConfiguration)
	case StateDisposed:
		return fmt.Errorf("%w: session closed", ErrNotReady)
	}

	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive and even", ErrConfiguration, width, height)
	}
	if !(frameRate > 0) || math.IsInf(frameRate, 0) {
		return fmt.Errorf("%w: frame rate %v", ErrConfiguration, frameRate)
	}
	if sink == nil {
		return fmt.Errorf("%w: layer sink is required", ErrConfiguration)
	}
	if s.engine == nil {
		return fmt.Errorf("%w: no engine", ErrEngineInit)
	}

	cfg := Config{
		Width:     width,
		Height:    height,
		FrameRate: frameRate,
		Bitrate:   DefaultBitrate,
		Usage:     ports.UsageCameraRealTime,
	}
	if err := s.engine.Initialize(ports.EngineParams{
		Width:         cfg.Width,
		Height:        cfg.Height,
		MaxFrameRate:  cfg.FrameRate,
		TargetBitrate: cfg.Bitrate,
		Usage:         cfg.Usage,
	}); err != nil {
		s.log.Error("Engine initialization failed: %v", err)
		return fmt.Errorf("%w: %w", ErrEngineInit, err)
	}

	buf, err := framebuf.New(width, height)
	if err != nil {
		_ = s.engine.Uninitialize()
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	s.cfg = cfg
	s.buf = buf
	s.sink = sink
	s.interval = KeyframeInterval(frameRate)
	s.frames = 0
	s.state = StateReady

	s.log.Info("Session ready: %dx%d at %.2f fps, keyframe every %d frames", width, height, frameRate, s.interval)
	return nil
}

// Encode encodes one I420 frame of exactly width*height*3/2 bytes.
// timestampSeconds is converted to whole milliseconds by truncation.
//
// Every frame whose zero-based index is a multiple of the keyframe interval
// is forced to be a keyframe. When the engine emits output, the sink
// receives one call per layer before Encode returns. When the engine skips
// the frame, the sink is not called.
func (s *Session) Encode(i420 []byte, timestampSeconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return fmt.Errorf("%w: state %s", ErrNotReady, s.state)
	}
	if !(timestampSeconds >= 0) || math.IsInf(timestampSeconds, 0) {
		return fmt.Errorf("%w: timestamp %v", ErrConfiguration, timestampSeconds)
	}
	if err := s.buf.Fill(i420); err != nil {
		return err
	}

	index := s.frames
	s.frames++
	s.stats.framesIn.Add(1)

	if index%s.interval == 0 {
		if err := s.engine.ForceIntraFrame(true); err != nil {
			s.stats.framesFailed.Add(1)
			return &EncodeError{Frame: index, Status: engineStatus(err), Err: err}
		}
		s.log.Debug("Forcing keyframe at frame %d", index)
	}

	ts := int64(timestampSeconds * 1000)
	pic, err := s.buf.Picture(ts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	if err := s.engine.EncodeFrame(&pic, &s.info); err != nil {
		s.stats.framesFailed.Add(1)
		s.log.Warn("Engine rejected frame %d: %v", index, err)
		return &EncodeError{Frame: index, Status: engineStatus(err), Err: err}
	}

	s.saveSource(index)

	if s.info.FrameType == ports.FrameTypeSkip {
		s.stats.framesSkipped.Add(1)
		s.log.Debug("Frame %d skipped by engine", index)
		return nil
	}

	layers, err := bitstream.Extract(&s.info)
	if err != nil {
		s.stats.framesFailed.Add(1)
		s.log.Warn("Engine rejected frame %d: %v", index, err)
		return &EncodeError{Frame: index, Status: int(ports.EngineStatusUnknown), Err: err}
	}
	bitstream.Dispatch(s.sink, layers)

	s.stats.framesEncoded.Add(1)
	if s.info.FrameType.IsKey() {
		s.stats.keyframes.Add(1)
	}
	for _, l := range layers {
		s.stats.layers.Add(1)
		s.stats.bytes.Add(uint64(len(l.Data)))
	}
	s.log.Debug("Frame %d at %d ms: %s, %d layers, %d bytes", index, ts, s.info.FrameType, len(layers), s.info.FrameSizeBytes)
	s.saveLayers(index, layers)
	return nil
}

// EncodeFrame converts a packed pixel frame to I420 and encodes it.
func (s *Session) EncodeFrame(frame ports.PixelFrame, timestampSeconds float64) error {
	rgba, err := colorconv.PixelsToRGBA(frame)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	i420, err := colorconv.RGBAToYUV420Planar(rgba, frame.Width, frame.Height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return s.Encode(i420, timestampSeconds)
}

// EncodeImage encodes an image of the session's size.
func (s *Session) EncodeImage(img image.Image, timestampSeconds float64) error {
	return s.EncodeFrame(colorconv.ImageToPixelFrame(img), timestampSeconds)
}

// Close releases the engine and buffers. It is idempotent and safe to call
// whether or not Setup succeeded. The engine handle is destroyed exactly once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisposed {
		return nil
	}

	var err error
	if s.state == StateReady {
		if uerr := s.engine.Uninitialize(); uerr != nil {
			err = fmt.Errorf("uninitialize engine: %w", uerr)
		}
	}
	if !s.destroyed && s.engine != nil {
		s.engine.Destroy()
	}
	s.destroyed = true
	if s.buf != nil {
		s.buf.Release()
		s.buf = nil
	}
	s.info = ports.FrameInfo{}
	s.sink = nil
	s.state = StateDisposed

	st := s.stats.snapshot()
	s.log.Info("Session closed: %d frames, %d keyframes, %d bytes", st.FramesIn, st.Keyframes, st.Bytes)
	return err
}

func (s *Session) saveSource(index uint64) {
	if s.debug == nil || !s.debug.Enabled() {
		return
	}
	if err := s.debug.SaveSourceFrame(int(index), s.buf.Bytes()); err != nil {
		s.log.Warn("Failed to save debug frame %d: %v", index, err)
	}
}

func (s *Session) saveLayers(index uint64, layers []bitstream.EncodedLayer) {
	if s.debug == nil || !s.debug.Enabled() {
		return
	}
	for _, l := range layers {
		if err := s.debug.SaveLayer(int(index), l.Index, l.Data); err != nil {
			s.log.Warn("Failed to save debug layer %d/%d: %v", index, l.Index, err)
		}
	}
}

// nopLogger discards output when no logger is configured.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

func (nopLogger) Info(string, ...interface{}) {}

func (nopLogger) Warn(string, ...interface{}) {}

func (nopLogger) Error(string, ...interface{}) {}

func (l nopLogger) WithComponent(string) ports.Logger {
	return l
}
