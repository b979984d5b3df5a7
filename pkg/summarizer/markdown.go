package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(translate func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = translate
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
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

// Format implements Formatter.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Playback Summary"))
	fmt.Fprintf(&sb, "%s: %s\n\n", t("Generated"), summary.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(&sb, "## %s\n\n", t("Results"))
	f.header(&sb)
	f.row(&sb, t("Outcome"), t(summary.Playback.Outcome))
	f.row(&sb, t("Frames"), fmt.Sprintf("%d", summary.Playback.Frames))
	f.row(&sb, t("Elapsed"), fmt.Sprintf("%d ms", summary.Playback.ElapsedMs))
	if fps := summary.Playback.EffectiveFPS(); fps > 0 {
		f.row(&sb, t("Effective Rate"), fmt.Sprintf("%.2f fps", fps))
	}
	if summary.Playback.Error != "" {
		f.row(&sb, t("Error"), escape(summary.Playback.Error))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## %s\n\n", t("Source"))
	f.header(&sb)
	mode := t("Single")
	if summary.Source.Dual() {
		mode = t("Dual (base + alpha)")
	}
	f.row(&sb, t("Mode"), mode)
	f.row(&sb, t("Base"), escape(summary.Source.Base))
	if summary.Source.Dual() {
		f.row(&sb, t("Alpha"), escape(summary.Source.Alpha))
	}
	codec := summary.Source.Codec
	if codec == "" {
		codec = t("Image sequence")
	}
	f.row(&sb, t("Codec"), codec)
	if summary.Source.Width > 0 {
		f.row(&sb, t("Frame Size"), fmt.Sprintf("%dx%d", summary.Source.Width, summary.Source.Height))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## %s\n\n", t("Settings"))
	f.header(&sb)
	f.row(&sb, t("Target Rate"), fmt.Sprintf("%g fps", summary.Playback.FPS))
	f.row(&sb, t("Refresh Rate"), fmt.Sprintf("%g Hz", summary.Playback.RefreshHz))
	if summary.Output.Dir == "" {
		f.row(&sb, t("Output"), t("None"))
	} else {
		f.row(&sb, t("Output"), escape(summary.Output.Dir))
		f.row(&sb, t("Format"), summary.Output.Format)
		f.row(&sb, t("Saved Frames"), fmt.Sprintf("%d", summary.Output.Saved))
	}

	if f.version != "" {
		fmt.Fprintf(&sb, "\n---\n%s kitsune %s\n", t("Generated by"), f.version)
	}
	return sb.String()
}

func (f *MarkdownFormatter) header(sb *strings.Builder) {
	fmt.Fprintf(sb, "| %s | %s |\n|---|---|\n", f.translate("Item"), f.translate("Value"))
}

func (f *MarkdownFormatter) row(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "| %s | %s |\n", label, value)
}

// escape keeps pipes from breaking table cells.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var _ Formatter = (*MarkdownFormatter)(nil)
