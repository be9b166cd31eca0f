// Package main provides the CLI entry point for h264enc.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/h264enc/pkg/adapters/engines"
	"github.com/user/h264enc/pkg/adapters/filesink"
	"github.com/user/h264enc/pkg/adapters/imagesource"
	"github.com/user/h264enc/pkg/adapters/logger"
	"github.com/user/h264enc/pkg/adapters/nullsink"
	"github.com/user/h264enc/pkg/adapters/osfilesystem"
	"github.com/user/h264enc/pkg/adapters/patternsource"
	"github.com/user/h264enc/pkg/bitstream"
	"github.com/user/h264enc/pkg/config"
	"github.com/user/h264enc/pkg/orchestrator"
	"github.com/user/h264enc/pkg/ports"
	"github.com/user/h264enc/pkg/stages/encode"
	"github.com/user/h264enc/pkg/summarizer"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "h264enc",
		Usage:   l10n.T("Encode frames into a raw H.264 elementary stream"),
		Version: version,
		Description: l10n.T("h264enc converts RGB frames to I420 and encodes them as an Annex B H.264 stream " +
			"with a keyframe every two seconds."),
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     l10n.T("Encode a sequence of image files"),
				ArgsUsage: "IMAGE...",
				Flags:     encodeFlags(),
				Action:    runEncode,
			},
			{
				Name:   "pattern",
				Usage:  l10n.T("Encode a synthetic test pattern"),
				Flags:  append(encodeFlags(), patternFlags()...),
				Action: runPattern,
			},
			{
				Name:      "inspect",
				Usage:     l10n.T("Print the NAL units and SPS of an H.264 file"),
				ArgsUsage: "FILE",
				Action:    runInspect,
			},
			{
				Name:   "engines",
				Usage:  l10n.T("List available encoder engines"),
				Action: runEngines,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Println(l10n.F("h264enc version %s", version))
					return nil
				},
			},
		},
	}
}

func encodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T("Input"), Usage: l10n.T("YAML configuration file")},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T("Output"), Usage: l10n.T("Output .h264 file path")},
		&cli.StringFlag{Name: "summary", Category: l10n.T("Output"), Usage: l10n.T("Output execution summary to file (Markdown format)")},
		&cli.StringFlag{Name: "engine", Aliases: []string{"e"}, Category: l10n.T("Encoding"), Usage: l10n.T("Encoder engine (auto, pcm, openh264)")},
		&cli.Float64Flag{Name: "fps", Aliases: []string{"r"}, Category: l10n.T("Encoding"), Usage: l10n.T("Frame rate (default: 30)")},
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Category: l10n.T("Encoding"), Usage: l10n.T("Frame width, even (default: from input)")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Category: l10n.T("Encoding"), Usage: l10n.T("Frame height, even (default: from input)")},
		&cli.BoolFlag{Name: "skip-duplicates", Category: l10n.T("Encoding"), Usage: l10n.T("Let the pcm engine skip unchanged frames")},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Category: l10n.T("Debug"), Usage: l10n.T("Enable debug output")},
		&cli.StringFlag{Name: "debug-dir", Category: l10n.T("Debug"), Usage: l10n.T("Directory for debug output")},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T("Logging"), Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Category: l10n.T("Logging"), Usage: l10n.T("Suppress all log output")},
	}
}

func patternFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Category: l10n.T("Pattern"), Usage: l10n.T("Number of frames (default: 90)")},
		&cli.IntFlag{Name: "hold", Category: l10n.T("Pattern"), Usage: l10n.T("Repeat each pattern step this many frames")},
	}
}

// loadConfig builds a Config from defaults, the optional file and flags.
// Flags win over file values.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("summary") {
		cfg.SummaryPath = c.String("summary")
	}
	if c.IsSet("engine") {
		cfg.Engine = c.String("engine")
	}
	if c.IsSet("fps") {
		cfg.FPS = c.Float64("fps")
	}
	if c.IsSet("width") {
		cfg.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Height = c.Int("height")
	}
	if c.IsSet("skip-duplicates") {
		cfg.SkipDuplicates = c.Bool("skip-duplicates")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("frames") {
		cfg.PatternFrames = c.Int("frames")
	}
	if c.IsSet("hold") {
		cfg.PatternHold = c.Int("hold")
	}

	return cfg, cfg.Validate()
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(cfg.Level())
}

func runEncode(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New(l10n.T("At least one image argument is required"))
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	fs := osfilesystem.New()
	if cfg.Width == 0 {
		cfg.Width, cfg.Height, err = imagesource.Probe(fs, paths[0])
		if err != nil {
			return err
		}
	}

	source := imagesource.New(fs, paths, cfg.Width, cfg.Height)
	return run(c, cfg, source, fmt.Sprintf("%d images", len(paths)))
}

func runPattern(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Width == 0 {
		def := orchestrator.DefaultConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}

	source := patternsource.New(patternsource.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		Frames: cfg.PatternFrames,
		Hold:   cfg.PatternHold,
	})
	return run(c, cfg, source, "pattern")
}

// run wires the adapters, encodes source and writes the optional summary.
func run(c *cli.Context, cfg config.Config, source ports.FrameSource, input string) error {
	log := newLogger(c, cfg)
	fs := osfilesystem.New()

	name, err := engines.Parse(cfg.Engine)
	if err != nil {
		return err
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	var info engines.Info
	newEngine := func() (ports.Engine, error) {
		e, i, err := engines.New(name, cfg.EngineOptions(log))
		info = i
		return e, err
	}

	orch := orchestrator.New(encode.NewStage(newEngine, log, sink), fs, sink, log)

	log.Info(l10n.F("Encoding %s to %s (%dx%d, %.2f fps)...", input, cfg.OutputPath, cfg.Width, cfg.Height, cfg.FPS))
	result, err := orch.Run(c.Context, orchestrator.Config{
		OutputPath: cfg.OutputPath,
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
	}, source)
	if err != nil {
		if c.Context.Err() != nil {
			log.Warn(l10n.T("Interrupted, shutting down..."))
		}
		return err
	}
	log.Info(l10n.F("Output saved to %s", cfg.OutputPath))

	if cfg.SummaryPath != "" {
		enc := result.Encode
		summary := summarizer.NewBuilder().
			WithSession(enc.SessionID).
			WithSettings(summarizer.Settings{
				Engine:           string(info.Name),
				EngineFallback:   info.FallbackUsed,
				Input:            input,
				Width:            enc.Width,
				Height:           enc.Height,
				FPS:              enc.FPS,
				KeyframeInterval: enc.KeyframeInterval,
			}).
			WithStream(summarizer.StreamInfo{
				FramesIn:      enc.Stats.FramesIn,
				FramesEncoded: enc.Stats.FramesEncoded,
				FramesSkipped: enc.Stats.FramesSkipped,
				Keyframes:     enc.Stats.Keyframes,
				Layers:        enc.Stats.Layers,
				Bytes:         result.FileSize,
				DurationMs:    enc.DurationMs,
				OutputPath:    result.OutputPath,
			}).
			Build()

		writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		), fs)
		if err := writer.Write(cfg.SummaryPath, summary); err != nil {
			log.Error(l10n.F("Failed to write summary: %s", err))
			return err
		}
		log.Info(l10n.F("Summary saved to %s", cfg.SummaryPath))
	}

	return nil
}

func runInspect(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New(l10n.T("One file argument is required"))
	}
	path := c.Args().First()

	data, err := osfilesystem.New().ReadFile(path)
	if err != nil {
		return err
	}
	info, err := bitstream.Inspect(data)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	fmt.Println(l10n.F("File: %s (%d bytes)", path, len(data)))
	fmt.Println(l10n.F("Codec: %s, profile %d, level %d", info.Codec, info.Profile, info.Level))
	fmt.Println(l10n.F("Picture size: %dx%d", info.Width, info.Height))
	fmt.Println(l10n.F("Slices: %d (%d IDR)", info.SliceCount, info.IDRCount))

	types := make([]avc.NaluType, 0, len(info.TypeCounts))
	for typ := range info.TypeCounts {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, typ := range types {
		fmt.Printf("  %-12s %d\n", typ, info.TypeCounts[typ])
	}
	return nil
}

func runEngines(c *cli.Context) error {
	for _, a := range engines.Available() {
		status := l10n.T("available")
		if !a.Available {
			status = l10n.T("not available")
		}
		fmt.Printf("%-10s %s\n", a.Name, status)
	}
	return nil
}
