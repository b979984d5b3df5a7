// Package governor downsamples display refresh ticks to a target decode frame rate.
package governor

import (
	"time"
)

// DefaultTolerance is how far short of a full interval a tick may land and
// still be accepted. It absorbs integer truncation of refresh periods and
// timer jitter. It is capped at a quarter of the interval.
const DefaultTolerance = 1500 * time.Microsecond

// Governor gates refresh timestamps so that accepted ticks are spaced by at
// least one frame interval, less the tolerance. Each accepted tick becomes
// the new baseline, so missed ticks never cause a burst of catch-up decodes.
//
// A Governor is not safe for concurrent use.
type Governor struct {
	interval  time.Duration
	tolerance time.Duration
	last      time.Duration
	hasLast   bool
}

// New creates a governor for the given target frame rate using
// DefaultTolerance. A non-positive fps accepts every tick.
func New(fps float64) *Governor {
	return NewWithTolerance(fps, DefaultTolerance)
}

// NewWithTolerance creates a governor that accepts ticks landing up to
// tolerance before the next frame interval. Negative tolerance is treated as 0.
func NewWithTolerance(fps float64, tolerance time.Duration) *Governor {
	g := &Governor{}
	if fps > 0 {
		g.interval = time.Duration(float64(time.Second) / fps)
	}
	if tolerance < 0 {
		tolerance = 0
	}
	if limit := g.interval / 4; tolerance > limit {
		tolerance = limit
	}
	g.tolerance = tolerance
	return g
}

// Interval returns the nominal spacing between accepted ticks.
func (g *Governor) Interval() time.Duration {
	return g.interval
}

// Tolerance returns the slack applied to Interval when accepting a tick.
func (g *Governor) Tolerance() time.Duration {
	return g.tolerance
}

// Accept reports whether the tick at ts should drive a decode step.
// The first tick after New or Clear is always accepted.
func (g *Governor) Accept(ts time.Duration) bool {
	if !g.hasLast {
		g.last = ts
		g.hasLast = true
		return true
	}
	if ts-g.last < g.interval-g.tolerance {
		return false
	}
	g.last = ts
	return true
}

// Clear forgets the recorded timestamp so the next tick is accepted.
func (g *Governor) Clear() {
	g.last = 0
	g.hasLast = false
}
