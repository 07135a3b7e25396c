package client

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is used when PollerConfig.Interval is zero.
const DefaultPollInterval = 5 * time.Second

// FetchFunc returns the current serialized state of a resource.
type FetchFunc func(ctx context.Context) ([]byte, error)

// PollerConfig configures a Poller.
type PollerConfig struct {
	Interval time.Duration
	// OnChange receives the new payload whenever it differs from the last one.
	OnChange func(data []byte)
	// OnError receives fetch failures; polling continues. Defaults to a log line.
	OnError func(err error)
}

// Poller re-fetches a resource on an interval and reports payload changes.
//
// The first fetch happens immediately on Start and on every Resume. Payloads
// are compared byte for byte; the first successful fetch always counts as a
// change. Stop pauses, Resume restarts, Close (or cancelling the Start
// context) tears the poller down for good. Stop and Close do not cancel a
// fetch already in flight: its payload still updates the snapshot, but
// OnChange is not called for it. Close waits for a running OnChange to
// return, so OnChange must not call Close (Stop is fine).
type Poller struct {
	fetch    FetchFunc
	interval time.Duration
	onChange func([]byte)
	onError  func(error)

	// cb serializes callbacks against Close.
	cb sync.Mutex

	mu      sync.Mutex
	parent  context.Context
	cancel  context.CancelFunc
	gen     uint64
	last    []byte
	fetched bool
	closed  bool
}

// NewPoller creates a stopped poller around fetch.
func NewPoller(fetch FetchFunc, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.OnError == nil {
		cfg.OnError = func(err error) {
			log.Warn().Err(err).Msg("Poll failed")
		}
	}
	return &Poller{
		fetch:    fetch,
		interval: cfg.Interval,
		onChange: cfg.OnChange,
		onError:  cfg.OnError,
	}
}

// Poll creates a poller over GET path.
func (c *Client) Poll(path string, cfg PollerConfig) *Poller {
	return NewPoller(func(ctx context.Context) ([]byte, error) {
		return c.Get(ctx, path)
	}, cfg)
}

// Start begins polling. Calling it again, or after Close, does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.parent != nil {
		return
	}
	p.parent = ctx
	p.startLocked()
}

// Stop pauses polling. The last snapshot is kept.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Resume restarts a stopped poller with an immediate fetch.
func (p *Poller) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.parent == nil || p.cancel != nil || p.parent.Err() != nil {
		return
	}
	p.startLocked()
}

// Close stops polling permanently. No OnChange call starts after Close returns.
func (p *Poller) Close() {
	p.mu.Lock()
	p.closed = true
	p.stopLocked()
	p.mu.Unlock()

	// wait out a callback that was already running
	p.cb.Lock()
	p.cb.Unlock()
}

// Running reports whether the poller is actively polling.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeLocked()
}

// Snapshot returns the last fetched payload, or nil before the first fetch.
func (p *Poller) Snapshot() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Poller) startLocked() {
	ctx, cancel := context.WithCancel(p.parent)
	p.cancel = cancel
	p.gen++
	go p.loop(ctx, p.gen)
}

func (p *Poller) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Poller) activeLocked() bool {
	return !p.closed && p.cancel != nil && p.parent.Err() == nil
}

func (p *Poller) loop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		p.poll(gen)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll runs one fetch. It uses the Start context so pausing never aborts a
// request midway.
func (p *Poller) poll(gen uint64) {
	data, err := p.fetch(p.parent)

	p.cb.Lock()
	defer p.cb.Unlock()

	p.mu.Lock()
	current := gen == p.gen && p.activeLocked()
	if err != nil {
		p.mu.Unlock()
		if current {
			p.onError(err)
		}
		return
	}
	changed := !p.fetched || !bytes.Equal(data, p.last)
	p.last = data
	p.fetched = true
	p.mu.Unlock()

	if changed && current && p.onChange != nil {
		p.onChange(data)
	}
}
