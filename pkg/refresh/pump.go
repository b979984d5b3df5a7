// Package refresh provides the display refresh pump that drives playback engines.
//
// A Pump owns one goroutine, locked to its OS thread, that receives refresh
// timestamps from a ports.RefreshSource and calls every active subscriber
// synchronously. All decode work and consumer callbacks run on that goroutine.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/user/kitsune/pkg/adapters/logger"
	"github.com/user/kitsune/pkg/ports"
)

// DefaultRefreshHz is the refresh rate of the shared pump.
const DefaultRefreshHz = 60

var (
	// ErrPumpStarted is returned when Start is called twice.
	ErrPumpStarted = errors.New("refresh: pump already started")
	// ErrPumpClosed is returned when Start is called after Close.
	ErrPumpClosed = errors.New("refresh: pump closed")
)

// Subscriber receives refresh ticks.
type Subscriber interface {
	OnRefresh(tick ports.Tick)
}

// Pump fans refresh ticks out to subscribers.
type Pump struct {
	source ports.RefreshSource
	logger ports.Logger

	mu      sync.Mutex
	subs    map[uint64]weak.Pointer[Subscription]
	nextID  uint64
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}

	paused   atomic.Bool
	sequence atomic.Uint64
}

var (
	sharedOnce sync.Once
	shared     *Pump
)

// Shared returns the process-wide pump, starting it on first use with a
// ticker source at DefaultRefreshHz. It runs until the process exits.
func Shared() *Pump {
	sharedOnce.Do(func() {
		shared = NewPump(NewTickerSource(DefaultRefreshHz), nil)
		if err := shared.Start(context.Background()); err != nil {
			panic(fmt.Sprintf("refresh: start shared pump: %v", err))
		}
	})
	return shared
}

// NewPump creates a pump over the given source. A nil logger discards output.
func NewPump(source ports.RefreshSource, log ports.Logger) *Pump {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Pump{
		source: source,
		logger: log.WithComponent("refresh"),
		subs:   make(map[uint64]weak.Pointer[Subscription]),
	}
}

// Start begins delivering ticks on a dedicated goroutine.
func (p *Pump) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPumpClosed
	}
	if p.started {
		return ErrPumpStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	ticks, err := p.source.Start(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("start refresh source: %w", err)
	}

	p.started = true
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ticks, p.done)

	p.logger.Debug("Refresh pump started")
	return nil
}

func (p *Pump) loop(ticks <-chan time.Duration, done chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	for ts := range ticks {
		p.Dispatch(ts)
	}
}

// Close stops the source and waits for the pump goroutine to exit.
func (p *Pump) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	p.source.Stop()
	<-done
	p.logger.Debug("Refresh pump stopped")
}

// Paused reports whether tick delivery is suspended for all subscribers.
func (p *Pump) Paused() bool {
	return p.paused.Load()
}

// SetPaused suspends or resumes tick delivery for all subscribers.
// Engines pause individually through their Subscription instead.
func (p *Pump) SetPaused(paused bool) {
	p.paused.Store(paused)
}

// Subscribe registers s. The returned subscription starts inactive.
//
// The pump only holds a weak reference: a subscription that is no longer
// reachable from its owner is dropped on the next tick.
func (p *Pump) Subscribe(s Subscriber) *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	sub := &Subscription{pump: p, id: p.nextID, target: s}
	p.subs[sub.id] = weak.Make(sub)
	return sub
}

func (p *Pump) remove(id uint64) {
	p.mu.Lock()
	delete(p.subs, id)
	p.mu.Unlock()
}

// Len returns the number of registered subscriptions, active or not.
func (p *Pump) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Dispatch delivers one tick to every active subscriber, in subscription
// order, on the calling goroutine. The pump loop calls it for each
// timestamp from the source.
func (p *Pump) Dispatch(ts time.Duration) {
	if p.paused.Load() {
		return
	}
	tick := ports.Tick{Timestamp: ts, Sequence: p.sequence.Add(1)}

	for _, sub := range p.snapshot() {
		if !sub.Active() {
			continue
		}
		p.deliver(sub, tick)
	}
}

// snapshot returns live subscriptions ordered by id and prunes collected ones.
func (p *Pump) snapshot() []*Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]uint64, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	live := make([]*Subscription, 0, len(ids))
	for _, id := range ids {
		sub := p.subs[id].Value()
		if sub == nil {
			delete(p.subs, id)
			continue
		}
		live = append(live, sub)
	}
	return live
}

func (p *Pump) deliver(sub *Subscription, tick ports.Tick) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Subscriber panicked on tick %d: %v", tick.Sequence, r)
		}
	}()
	sub.target.OnRefresh(tick)
}

// Subscription is one subscriber's registration with a pump.
// Its active flag gates delivery independently of other subscribers.
type Subscription struct {
	pump   *Pump
	id     uint64
	target Subscriber
	active atomic.Bool
}

// Activate starts delivering ticks to the subscriber.
func (s *Subscription) Activate() {
	s.active.Store(true)
}

// Deactivate stops delivering ticks. A tick already being delivered completes.
func (s *Subscription) Deactivate() {
	s.active.Store(false)
}

// Active reports whether ticks are delivered.
func (s *Subscription) Active() bool {
	return s.active.Load()
}

// Cancel deactivates and unregisters the subscription.
func (s *Subscription) Cancel() {
	s.Deactivate()
	s.pump.remove(s.id)
}
