package poll

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type page struct {
	Title string
	Items []string
}

func TestVersionStableAcrossEqualPayloads(t *testing.T) {
	fetched := page{Title: "home", Items: []string{"a", "b"}}
	p := New("home", func(ctx context.Context) (page, error) {
		// Fresh copy each call, equal by value.
		return page{Title: fetched.Title, Items: append([]string(nil), fetched.Items...)}, nil
	}, time.Second, slog.New(slog.DiscardHandler))

	p.Refresh(context.Background())
	_, v1 := p.Snapshot()

	p.Refresh(context.Background())
	p.Refresh(context.Background())
	snap, v2 := p.Snapshot()

	if v2 != v1 {
		t.Fatalf("version moved on identical payload: %d -> %d", v1, v2)
	}
	if snap.Title != "home" {
		t.Fatalf("snapshot lost: %+v", snap)
	}
}

func TestVersionAdvancesOnChange(t *testing.T) {
	title := "home"
	p := New("home", func(ctx context.Context) (page, error) {
		return page{Title: title}, nil
	}, time.Second, slog.New(slog.DiscardHandler))

	p.Refresh(context.Background())
	_, v1 := p.Snapshot()

	title = "home v2"
	p.Refresh(context.Background())
	snap, v2 := p.Snapshot()

	if v2 == v1 {
		t.Fatal("version did not advance on changed payload")
	}
	if snap.Title != "home v2" {
		t.Fatalf("snapshot not swapped: %+v", snap)
	}
}

func TestFailedFetchKeepsPreviousSnapshot(t *testing.T) {
	fail := false
	p := New("home", func(ctx context.Context) (page, error) {
		if fail {
			return page{}, errors.New("database down")
		}
		return page{Title: "home"}, nil
	}, time.Second, slog.New(slog.DiscardHandler))

	p.Refresh(context.Background())
	_, v1 := p.Snapshot()

	fail = true
	p.Refresh(context.Background())
	snap, v2 := p.Snapshot()

	if v2 != v1 {
		t.Fatalf("version moved on failed fetch: %d -> %d", v1, v2)
	}
	if snap.Title != "home" {
		t.Fatalf("previous snapshot lost: %+v", snap)
	}
	if !p.Ready() {
		t.Fatal("poller should stay ready after one success")
	}
}

func TestNotReadyBeforeFirstSuccess(t *testing.T) {
	p := New("home", func(ctx context.Context) (page, error) {
		return page{}, errors.New("database down")
	}, time.Second, slog.New(slog.DiscardHandler))

	p.Refresh(context.Background())
	if p.Ready() {
		t.Fatal("poller must not report ready before a successful fetch")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	calls := make(chan struct{}, 16)
	p := New("home", func(ctx context.Context) (page, error) {
		select {
		case calls <- struct{}{}:
		default:
		}
		return page{Title: "home"}, nil
	}, 5*time.Millisecond, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	<-calls
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
