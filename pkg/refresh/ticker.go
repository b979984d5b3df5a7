package refresh

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/user/kitsune/pkg/ports"
)

// TickerSource emits timestamps at a fixed refresh rate using time.Ticker.
// Ticks are dropped rather than queued while the pump is busy, as a
// display link drops frames when the render thread overruns.
//
// Timestamps are snapped to the ideal refresh grid n*time.Second/hz, the way
// a display link reports vsync times rather than wake-up times. A late
// wake-up yields the nearest grid slot instead of its own time.
type TickerSource struct {
	hz       float64
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewTickerSource creates a source ticking hz times per second.
// A non-positive hz falls back to DefaultRefreshHz.
func NewTickerSource(hz float64) *TickerSource {
	if hz <= 0 {
		hz = DefaultRefreshHz
	}
	return &TickerSource{hz: hz, interval: time.Duration(float64(time.Second) / hz)}
}

// slot returns the timestamp of refresh n.
func (s *TickerSource) slot(n int64) time.Duration {
	return time.Duration(float64(n) * float64(time.Second) / s.hz)
}

// nearestSlot returns the refresh index closest to elapsed.
func (s *TickerSource) nearestSlot(elapsed time.Duration) int64 {
	return int64(math.Round(elapsed.Seconds() * s.hz))
}

// Interval returns the time between ticks.
func (s *TickerSource) Interval() time.Duration {
	return s.interval
}

// Start begins ticking until ctx is done or Stop is called.
func (s *TickerSource) Start(ctx context.Context) (<-chan time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stop := make(chan struct{})
	s.stop = stop
	out := make(chan time.Duration, 1)

	go func() {
		defer close(out)

		origin := time.Now()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		var last int64

		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case now := <-ticker.C:
				n := s.nearestSlot(now.Sub(origin))
				if n <= last {
					n = last + 1
				}
				last = n
				select {
				case out <- s.slot(n):
				default:
				}
			}
		}
	}()

	return out, nil
}

// Stop halts the source. Safe to call more than once.
func (s *TickerSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

var _ ports.RefreshSource = (*TickerSource)(nil)
