// Package encode implements the frame encoding stage.
package encode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/user/h264enc/pkg/pipeline"
	"github.com/user/h264enc/pkg/ports"
	"github.com/user/h264enc/pkg/session"
)

// EngineFactory creates a fresh engine for one encode run.
type EngineFactory func() (ports.Engine, error)

// Stage pulls frames from a source and encodes them with a session.
type Stage struct {
	newEngine EngineFactory
	logger    ports.Logger
	debug     ports.DebugSink
}

// NewStage creates a new encode stage.
func NewStage(newEngine EngineFactory, logger ports.Logger, debug ports.DebugSink) *Stage {
	return &Stage{
		newEngine: newEngine,
		logger:    logger.WithComponent("encode"),
		debug:     debug,
	}
}

// Execute encodes every frame of the source. The session is closed on all
// paths; a close error is reported only when encoding itself succeeded.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (result pipeline.EncodeResult, err error) {
	if input.Source == nil {
		return result, fmt.Errorf("no frame source")
	}
	if input.Sink == nil {
		return result, fmt.Errorf("no layer sink")
	}

	engine, err := s.newEngine()
	if err != nil {
		return result, fmt.Errorf("create engine: %w", err)
	}

	sess := session.New(engine, session.Options{
		Logger:    s.logger,
		DebugSink: s.debug,
	})
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close session: %w", cerr)
		}
		result.Stats = sess.Stats()
	}()

	if err := sess.Setup(input.Width, input.Height, input.FPS, input.Sink); err != nil {
		return result, fmt.Errorf("setup session: %w", err)
	}

	result.SessionID = sess.ID()
	result.Width = input.Width
	result.Height = input.Height
	result.FPS = input.FPS
	result.KeyframeInterval = sess.KeyframeInterval()

	s.logger.Info("Encoding %d frames at %.2f fps", input.Source.Len(), input.FPS)

	var i int
	for ; ; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		img, err := input.Source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read frame %d: %w", i, err)
		}

		ts := float64(i) / input.FPS
		if err := sess.EncodeImage(img, ts); err != nil {
			return result, fmt.Errorf("encode frame %d: %w", i, err)
		}
	}

	if i == 0 {
		return result, fmt.Errorf("no frames to encode")
	}

	result.DurationMs = int64(math.Round(float64(i) * 1000 / input.FPS))
	s.logger.Info("Encoding completed: %d frames", i)
	return result, nil
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult] = (*Stage)(nil)
