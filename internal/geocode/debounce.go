package geocode

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrSuperseded is returned for a query that was replaced by a newer one
// before (or while) its request ran. Callers drop the result; only the most
// recent query's suggestions are ever rendered.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Searcher is the lookup the debouncer coordinates; satisfied by *Client.
type Searcher interface {
	Autocomplete(ctx context.Context, query string) ([]Place, error)
}

// Debouncer serializes autocomplete queries for one user: each call waits a
// fixed delay after the last keystroke before dispatching, and cancels any
// pending or in-flight predecessor so responses cannot race (last write
// wins).
type Debouncer struct {
	searcher Searcher
	delay    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewDebouncer(s Searcher, delay time.Duration) *Debouncer {
	return &Debouncer{searcher: s, delay: delay}
}

// Search waits out the debounce delay and then dispatches query. A newer
// Search or Flush call during the wait or the request cancels this one,
// which surfaces as ErrSuperseded. Queries below MinQueryLength cancel any
// pending search and return ErrQueryTooShort without touching the network.
func (d *Debouncer) Search(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		d.cancelPending()
		return nil, ErrQueryTooShort
	}
	sctx := d.replacePending(ctx)

	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-sctx.Done():
		return nil, ErrSuperseded
	case <-timer.C:
	}

	places, err := d.searcher.Autocomplete(sctx, query)
	if sctx.Err() != nil {
		return nil, ErrSuperseded
	}
	return places, err
}

// Flush dispatches query immediately, bypassing the delay. Used when the
// user explicitly confirms a search instead of pausing their typing.
func (d *Debouncer) Flush(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		d.cancelPending()
		return nil, ErrQueryTooShort
	}
	sctx := d.replacePending(ctx)
	places, err := d.searcher.Autocomplete(sctx, query)
	if sctx.Err() != nil {
		return nil, ErrSuperseded
	}
	return places, err
}

// replacePending cancels the previous query's context and installs a new
// one derived from ctx.
func (d *Debouncer) replacePending(ctx context.Context) context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	sctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	return sctx
}

func (d *Debouncer) cancelPending() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
