// Package poll keeps an in-memory snapshot of slow-to-build data fresh
// by refetching it on a fixed interval and swapping it in only when the
// payload actually changed.
package poll

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// FetchFunc builds one snapshot. It is called once up front and then on
// every tick.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type Poller[T any] struct {
	name     string
	fetch    FetchFunc[T]
	interval time.Duration
	log      *slog.Logger

	mu      sync.RWMutex
	current T
	version uint64
	ready   bool
}

func New[T any](name string, fetch FetchFunc[T], interval time.Duration, log *slog.Logger) *Poller[T] {
	return &Poller[T]{
		name:     name,
		fetch:    fetch,
		interval: interval,
		log:      log,
	}
}

// Run fetches immediately, then refetches every interval until ctx is
// cancelled. A failed fetch logs and keeps serving the last good
// snapshot.
func (p *Poller[T]) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Refresh forces one fetch outside the ticker schedule. Handlers call
// it after admin writes so the next read sees the change without
// waiting out the interval.
func (p *Poller[T]) Refresh(ctx context.Context) {
	p.refresh(ctx)
}

func (p *Poller[T]) refresh(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.interval*3)
	defer cancel()

	next, err := p.fetch(fetchCtx)
	if err != nil {
		p.log.Warn("poll fetch failed, keeping previous snapshot",
			slog.String("poller", p.name),
			slog.String("error", err.Error()))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready && reflect.DeepEqual(p.current, next) {
		return
	}
	p.current = next
	p.version++
	p.ready = true
}

// Snapshot returns the last good payload and a version counter that
// only moves when the payload changed. Clients compare versions to skip
// redundant re-renders.
func (p *Poller[T]) Snapshot() (T, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.version
}

// Ready reports whether at least one fetch has succeeded.
func (p *Poller[T]) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}
