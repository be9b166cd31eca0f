package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Encode Summary"))
	if s.SessionID != "" {
		fmt.Fprintf(&b, "- %s: `%s`\n", t("Session"), s.SessionID)
	}
	fmt.Fprintf(&b, "- %s: %s\n\n", t("Generated At"), s.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	engine := s.Settings.Engine
	if s.Settings.EngineFallback {
		engine += " (" + t("fallback") + ")"
	}
	row(&b, t("Engine"), engine)
	if s.Settings.Input != "" {
		row(&b, t("Input"), s.Settings.Input)
	}
	row(&b, t("Frame Size"), fmt.Sprintf("%dx%d", s.Settings.Width, s.Settings.Height))
	row(&b, t("Frame Rate"), fmt.Sprintf("%.2f fps", s.Settings.FPS))
	row(&b, t("Keyframe Interval"), fmt.Sprintf("%d %s", s.Settings.KeyframeInterval, t("frames")))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Stream"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	row(&b, t("Frames"), fmt.Sprintf("%d", s.Stream.FramesIn))
	row(&b, t("Encoded Frames"), fmt.Sprintf("%d", s.Stream.FramesEncoded))
	row(&b, t("Skipped Frames"), fmt.Sprintf("%d", s.Stream.FramesSkipped))
	row(&b, t("Keyframes"), fmt.Sprintf("%d", s.Stream.Keyframes))
	row(&b, t("Layers"), fmt.Sprintf("%d", s.Stream.Layers))
	row(&b, t("Size"), formatBytes(s.Stream.Bytes))
	row(&b, t("Duration"), fmt.Sprintf("%d ms", s.Stream.DurationMs))
	if kbps := s.Stream.BitrateKbps(); kbps > 0 {
		row(&b, t("Average Bitrate"), fmt.Sprintf("%.1f kbps", kbps))
	} else {
		row(&b, t("Average Bitrate"), "N/A")
	}
	if s.Stream.OutputPath != "" {
		row(&b, t("Output"), s.Stream.OutputPath)
	}

	if f.version != "" {
		fmt.Fprintf(&b, "\n---\n\nh264enc %s\n", f.version)
	}

	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, value)
}

// formatBytes renders a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
