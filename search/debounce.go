// ABOUTME: Debounced, cancelable search for keystroke-driven lookups
// ABOUTME: Only the last query in a quiet window runs; superseded requests are canceled and stale results dropped
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const DefaultDelay = 500 * time.Millisecond

// Func performs one lookup. It must honor ctx cancellation.
type Func[T any] func(ctx context.Context, query string) (T, error)

// Result is delivered for every lookup that was not superseded.
type Result[T any] struct {
	Query string
	Value T
	Err   error
}

type options struct {
	delay     time.Duration
	minLength int
	logger    *log.Logger
}

type Option func(*options)

// WithDelay sets the quiet window after the last keystroke.
func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithMinLength suppresses lookups for queries shorter than n runes.
func WithMinLength(n int) Option {
	return func(o *options) {
		o.minLength = n
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Debouncer owns one pending timer and at most one live lookup.
type Debouncer[T any] struct {
	fn      Func[T]
	opts    options
	parent  context.Context
	results chan Result[T]

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// New returns a debouncer whose lookups derive from ctx.
func New[T any](ctx context.Context, fn Func[T], opts ...Option) *Debouncer[T] {
	o := options{delay: DefaultDelay, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.WithPrefix("search")

	return &Debouncer[T]{
		fn:      fn,
		opts:    o,
		parent:  ctx,
		results: make(chan Result[T], 1),
	}
}

// Results delivers lookup outcomes. Only the newest undelivered result is
// kept. The channel is closed by Close.
func (d *Debouncer[T]) Results() <-chan Result[T] {
	return d.results
}

// Input registers a keystroke. It resets the quiet window and aborts any
// lookup already in flight.
func (d *Debouncer[T]) Input(query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	seq := d.supersede()

	if len([]rune(query)) < d.opts.minLength {
		return
	}
	d.timer = time.AfterFunc(d.opts.delay, func() {
		d.fire(seq, query)
	})
}

// Cancel drops the pending keystroke and aborts the in-flight lookup.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersede()
}

// supersede must be called with d.mu held.
func (d *Debouncer[T]) supersede() uint64 {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	return d.seq
}

func (d *Debouncer[T]) fire(seq uint64, query string) {
	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(d.parent)
	d.cancel = cancel
	d.wg.Add(1)
	d.mu.Unlock()

	defer d.wg.Done()
	d.opts.logger.Debug("lookup", "query", query, "seq", seq)
	value, err := d.fn(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	cancel()

	if d.closed || seq != d.seq {
		d.opts.logger.Debug("dropping stale result", "query", query, "seq", seq)
		return
	}
	d.cancel = nil
	d.deliver(Result[T]{Query: query, Value: value, Err: err})
}

// deliver must be called with d.mu held. It replaces an unread result rather
// than block.
func (d *Debouncer[T]) deliver(r Result[T]) {
	for {
		select {
		case d.results <- r:
			return
		default:
		}
		select {
		case <-d.results:
		default:
		}
	}
}

// Close aborts pending work, waits for running lookups and closes Results.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.supersede()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	close(d.results)
}
