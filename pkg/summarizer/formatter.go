package summarizer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Formatter renders a playback Summary as text.
type Formatter interface {
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// Text renders a summary as a single line, suitable for logs and .txt reports.
// Labels pass through translate when it is not nil.
func Text(translate func(string) string) Formatter {
	if translate == nil {
		translate = func(s string) string { return s }
	}
	return FormatFunc(func(s *Summary) string {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s: %s, %d %s, %d ms",
			translate("Outcome"), translate(s.Playback.Outcome),
			s.Playback.Frames, translate("frames"), s.Playback.ElapsedMs)
		if fps := s.Playback.EffectiveFPS(); fps > 0 {
			fmt.Fprintf(&sb, " (%.2f fps)", fps)
		}
		if s.Output.Dir != "" {
			fmt.Fprintf(&sb, ", %s %d", translate("saved"), s.Output.Saved)
		}
		if s.Playback.Error != "" {
			fmt.Fprintf(&sb, ", %s: %s", translate("Error"), s.Playback.Error)
		}
		sb.WriteString("\n")
		return sb.String()
	})
}

// ForPath picks a formatter from the report file extension.
// ".txt" selects Text; anything else renders Markdown.
func ForPath(path string, translate func(string) string, opts ...MarkdownOption) Formatter {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return Text(translate)
	}
	if translate != nil {
		opts = append([]MarkdownOption{WithTranslator(translate)}, opts...)
	}
	return NewMarkdownFormatter(opts...)
}
