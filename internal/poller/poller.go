// Package poller keeps a value fresh by fetching it on an interval.
//
// A Source owns one timer and at most one live request. Changing the
// parameters or the interval replaces the timer and issues a fetch; the
// newest request always wins, and responses from older requests are
// dropped. Ticks and refreshes for unchanged parameters never interrupt a
// request that is still running. Stop releases everything exactly once.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/vtarchitect/vtconsole/internal/logger"
)

// Fetcher loads a value for params. It should return promptly once ctx is
// cancelled.
type Fetcher[P comparable, T any] func(ctx context.Context, params P) (T, error)

// State is a snapshot of a Source.
type State[T any] struct {
	// Data is the last successful result. A failed fetch leaves it unchanged.
	Data T
	// Loading is true while the newest request is outstanding.
	Loading bool
	// Err is the failure of the newest settled request, cleared when a new
	// request starts.
	Err error
	// Seq identifies the request this state belongs to.
	Seq uint64
	// UpdatedAt is when the newest request settled.
	UpdatedAt time.Time
}

// Options configures a Source.
type Options[P comparable] struct {
	// Name labels log lines.
	Name string
	// Skip reports params that need no request, e.g. an empty field. A
	// skipped fetch resets Data to its zero value.
	Skip func(P) bool
	// Logger receives debug output. Defaults to a no-op logger.
	Logger logger.Logger
}

// Source polls a Fetcher.
type Source[P comparable, T any] struct {
	fetch Fetcher[P, T]
	name  string
	skip  func(P) bool
	log   logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State[T]
	params      P
	interval    time.Duration
	started     bool
	stopped     bool
	seq         uint64
	inflight    context.CancelFunc
	tickGen     uint64
	stopTicking context.CancelFunc

	updates chan State[T]
}

// New creates an idle Source. Call Start to begin polling.
func New[P comparable, T any](fetch Fetcher[P, T], opts Options[P]) *Source[P, T] {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Source[P, T]{
		fetch:   fetch,
		name:    opts.Name,
		skip:    opts.Skip,
		log:     opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
		updates: make(chan State[T], 1),
	}
	if s.name == "" {
		s.name = "poller"
	}
	if s.log == nil {
		s.log = logger.Noop()
	}
	return s
}

// Start issues one fetch for params and then polls every interval. A
// non-positive interval fetches once. Calling Start again behaves like
// Update.
func (s *Source[P, T]) Start(params P, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.started = true
	s.resetLocked(params, interval)
}

// Update changes the params or interval. An unchanged pair is a no-op;
// otherwise the timer is replaced and exactly one fetch is issued.
func (s *Source[P, T]) Update(params P, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.started && params == s.params && interval == s.interval {
		return
	}
	s.started = true
	s.resetLocked(params, interval)
}

// Refresh issues a fetch now without touching the timer. It does nothing
// while a request is still in flight.
func (s *Source[P, T]) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || !s.started {
		return
	}
	s.pollLocked()
}

// Stop cancels the timer and any in-flight request, waits for them to
// finish, and closes the Updates channel. Later calls do nothing.
func (s *Source[P, T]) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.cancel()
	close(s.updates)
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Debug("[%s] stopped", s.name)
}

// State returns the current snapshot.
func (s *Source[P, T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Params returns the params of the newest request.
func (s *Source[P, T]) Params() P {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Updates delivers state changes. Only the latest unread state is kept, so
// a slow reader never blocks the Source. The channel is closed by Stop.
func (s *Source[P, T]) Updates() <-chan State[T] {
	return s.updates
}

func (s *Source[P, T]) resetLocked(params P, interval time.Duration) {
	if s.stopTicking != nil {
		s.stopTicking()
		s.stopTicking = nil
	}
	s.tickGen++
	s.params = params
	s.interval = interval

	s.issueLocked()

	if interval > 0 {
		ctx, cancel := context.WithCancel(s.ctx)
		s.stopTicking = cancel
		s.wg.Add(1)
		go s.tick(ctx, s.tickGen, interval)
	}
}

func (s *Source[P, T]) tick(ctx context.Context, gen uint64, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.stopped && gen == s.tickGen {
				s.pollLocked()
			}
			s.mu.Unlock()
		}
	}
}

// pollLocked issues a fetch for the current params unless one is already
// running for them.
func (s *Source[P, T]) pollLocked() {
	if s.inflight != nil {
		s.log.Debug("[%s] request #%d still running, skipping poll", s.name, s.seq)
		return
	}
	s.issueLocked()
}

func (s *Source[P, T]) issueLocked() {
	s.seq++
	seq := s.seq

	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}

	if s.skip != nil && s.skip(s.params) {
		var zero T
		s.state = State[T]{Data: zero, Seq: seq, UpdatedAt: time.Now()}
		s.publishLocked()
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel

	s.state.Loading = true
	s.state.Err = nil
	s.state.Seq = seq
	s.publishLocked()

	s.log.Debug("[%s] request #%d", s.name, seq)

	s.wg.Add(1)
	go s.run(ctx, cancel, seq, s.params)
}

func (s *Source[P, T]) run(ctx context.Context, cancel context.CancelFunc, seq uint64, params P) {
	defer s.wg.Done()
	defer cancel()

	data, err := s.fetch(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || seq != s.seq {
		s.log.Debug("[%s] discarding request #%d (newest #%d)", s.name, seq, s.seq)
		return
	}

	s.inflight = nil
	s.state.Loading = false
	s.state.UpdatedAt = time.Now()
	if err != nil {
		s.state.Err = err
		s.log.Debug("[%s] request #%d failed: %v", s.name, seq, err)
	} else {
		s.state.Data = data
		s.log.Debug("[%s] request #%d settled", s.name, seq)
	}
	s.publishLocked()
}

func (s *Source[P, T]) publishLocked() {
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- s.state:
	default:
	}
}
