// Package summarizer provides summary generation for playback results.
package summarizer

import "time"

// Summary contains all data collected during a playback session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input sources
	Source SourceInfo

	// Playback results
	Playback PlaybackInfo

	// Frame output
	Output OutputInfo
}

// SourceInfo describes the played sources.
type SourceInfo struct {
	Base   string
	Alpha  string // Empty for single-stream playback
	Codec  string // Container codec, empty for image sequences
	Width  int
	Height int
}

// Dual reports whether an alpha source was played.
func (s SourceInfo) Dual() bool {
	return s.Alpha != ""
}

// PlaybackInfo contains the session outcome and timing.
type PlaybackInfo struct {
	Outcome   string
	Frames    int
	ElapsedMs int
	FPS       float64 // Target decode rate
	RefreshHz float64
	Error     string
}

// EffectiveFPS returns the measured delivery rate, 0 when unknown.
func (p PlaybackInfo) EffectiveFPS() float64 {
	if p.ElapsedMs <= 0 || p.Frames == 0 {
		return 0
	}
	return float64(p.Frames) * 1000 / float64(p.ElapsedMs)
}

// OutputInfo describes written frames.
type OutputInfo struct {
	Dir    string // Empty when frames were not saved
	Format string
	Saved  int
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

// WithSource sets source information.
func (b *Builder) WithSource(source SourceInfo) *Builder {
	b.summary.Source = source
	return b
}

// WithPlayback sets the outcome and frame count.
func (b *Builder) WithPlayback(outcome string, frames int, elapsed time.Duration) *Builder {
	b.summary.Playback.Outcome = outcome
	b.summary.Playback.Frames = frames
	b.summary.Playback.ElapsedMs = int(elapsed.Milliseconds())
	return b
}

// WithRates sets the target decode and refresh rates.
func (b *Builder) WithRates(fps, refreshHz float64) *Builder {
	b.summary.Playback.FPS = fps
	b.summary.Playback.RefreshHz = refreshHz
	return b
}

// WithError records the error that ended playback.
func (b *Builder) WithError(err error) *Builder {
	if err != nil {
		b.summary.Playback.Error = err.Error()
	}
	return b
}

// WithOutput sets frame output information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
