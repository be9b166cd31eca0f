// Package orchestrator runs an encode from a frame source to an output file.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/user/h264enc/pkg/adapters/annexbsink"
	"github.com/user/h264enc/pkg/pipeline"
	"github.com/user/h264enc/pkg/ports"
)

// Config contains all configuration for one orchestrated run.
type Config struct {
	// Output
	OutputPath string

	// Encoding
	Width  int
	Height int
	FPS    float64
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OutputPath: "output.h264",
		Width:      320,
		Height:     240,
		FPS:        30.0,
	}
}

// Orchestrator wires a frame source, the encode stage and the output file.
type Orchestrator struct {
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	fs          ports.FileSystem
	sink        ports.DebugSink
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		encodeStage: encodeStage,
		fs:          fs,
		sink:        sink,
		logger:      logger,
	}
}

// Run encodes every frame of source into config.OutputPath as an Annex B
// elementary stream. The source is closed before Run returns.
func (o *Orchestrator) Run(ctx context.Context, config Config, source ports.FrameSource) (result RunResult, err error) {
	defer func() {
		if cerr := source.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close source: %w", cerr)
		}
	}()

	o.logger.Info(l10n.T("Starting pipeline"))

	out, err := o.fs.Create(config.OutputPath)
	if err != nil {
		o.logger.Error(l10n.F("Failed to write output: %s", err))
		return RunResult{}, fmt.Errorf("create output: %w", err)
	}
	layers := annexbsink.New(out)

	encoded, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		Source: source,
		Sink:   layers,
		Width:  config.Width,
		Height: config.Height,
		FPS:    config.FPS,
	})
	cerr := out.Close()
	if err == nil {
		err = layers.Err()
	}
	if err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}

	o.saveSessionJSON(encoded)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return RunResult{}, err
		}
		o.logger.Error(l10n.F("Failed to encode video: %s", err))
		return RunResult{}, fmt.Errorf("encode stage: %w", err)
	}

	written := layers.Stats()
	o.logger.Info(l10n.F("Video encoded: %d bytes", written.Bytes))
	o.logger.Info(l10n.T("Pipeline completed successfully"))

	return RunResult{
		Encode:     encoded,
		OutputPath: config.OutputPath,
		FileSize:   int64(written.Bytes),
	}, nil
}

// saveSessionJSON records the run parameters and counters in the debug sink.
func (o *Orchestrator) saveSessionJSON(encoded pipeline.EncodeResult) {
	if o.sink == nil || !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return
	}
	if err := o.sink.SaveSessionJSON(data); err != nil {
		o.logger.Warn("Failed to save session.json: %v", err)
	}
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	Encode     pipeline.EncodeResult
	OutputPath string
	FileSize   int64
}
