package time

import (
	"context"
	"sync"
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
)

// ManualTimeProvider is a TimeProvider whose clock only moves when told to.
// Tickers it creates fire only through Tick, which makes periodic work deterministic in tests.
type ManualTimeProvider struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*ManualTicker
}

// NewManualTimeProvider creates a clock frozen at now
func NewManualTimeProvider(now time.Time) *ManualTimeProvider {
	return &ManualTimeProvider{now: now}
}

// Now returns the frozen time
func (p *ManualTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// Since measures against the frozen time
func (p *ManualTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(p.Now().Sub(t))
}

// WithTimeout uses a real timeout; deadlines are not driven by the manual clock
func (p *ManualTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

// Set moves the clock to t
func (p *ManualTimeProvider) Set(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = t
}

// Advance moves the clock forward by d and returns the new time
func (p *ManualTimeProvider) Advance(d time.Duration) time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
	return p.now
}

// NewTicker returns a ticker that fires only on Tick
func (p *ManualTimeProvider) NewTicker(core.Duration) core.Ticker {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := &ManualTicker{ch: make(chan time.Time)}
	p.tickers = append(p.tickers, t)
	return t
}

// Tick delivers the current time to every live ticker and blocks until each has received it
func (p *ManualTimeProvider) Tick() {
	p.mu.Lock()
	now := p.now
	tickers := append([]*ManualTicker(nil), p.tickers...)
	p.mu.Unlock()

	for _, t := range tickers {
		t.fire(now)
	}
}

// ManualTicker is the ticker handed out by ManualTimeProvider
type ManualTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	stopped bool
	stopCh  chan struct{}
}

// C returns the tick channel
func (t *ManualTicker) C() <-chan time.Time {
	return t.ch
}

// Stop prevents further ticks from being delivered
func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	if t.stopCh != nil {
		close(t.stopCh)
	}
}

func (t *ManualTicker) fire(now time.Time) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.stopCh == nil {
		t.stopCh = make(chan struct{})
	}
	stop := t.stopCh
	t.mu.Unlock()

	select {
	case t.ch <- now:
	case <-stop:
	}
}
