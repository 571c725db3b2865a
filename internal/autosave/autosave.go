// Package autosave persists match snapshots in the background. Tagging
// happens in quick bursts, so saves are debounced: each Schedule supersedes
// the previous pending one and only the newest snapshot reaches the store.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pable/volleytag/internal/match"
)

// SaveFunc writes one snapshot to durable storage.
type SaveFunc func(ctx context.Context, snap match.Snapshot) error

// Saver debounces snapshot writes on a single background goroutine.
// Schedule never blocks the caller.
type Saver struct {
	save  SaveFunc
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	pending *match.Snapshot
	gen     uint64
	kick    chan struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Saver.
type Option func(*Saver)

// WithDelay sets the debounce window. Default is 2 seconds.
func WithDelay(d time.Duration) Option {
	return func(s *Saver) { s.delay = d }
}

// WithLogger sets the logger for save failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Saver) { s.log = l }
}

// New starts a Saver. Call Close to flush and stop it.
func New(save SaveFunc, opts ...Option) *Saver {
	s := &Saver{
		save:  save,
		delay: 2 * time.Second,
		log:   slog.Default(),
		kick:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
	return s
}

// Schedule queues a snapshot for saving. A snapshot scheduled while an
// earlier one is still waiting replaces it.
func (s *Saver) Schedule(snap match.Snapshot) {
	s.mu.Lock()
	s.pending = &snap
	s.gen++
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Close flushes any pending snapshot and stops the background goroutine.
func (s *Saver) Close() {
	s.cancel()
	<-s.done
}

func (s *Saver) run(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.delay)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-s.kick:
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.delay)
			armed = true
		case <-timer.C:
			armed = false
			s.flush(ctx)
		case <-ctx.Done():
			if armed && !timer.Stop() {
				<-timer.C
			}
			// One last write so a quit right after a tag loses nothing.
			s.flush(context.Background())
			return
		}
	}
}

// flush writes the pending snapshot, if any. A snapshot scheduled while the
// write is in flight stays pending for the next round instead of being lost.
func (s *Saver) flush(ctx context.Context) {
	s.mu.Lock()
	snap := s.pending
	gen := s.gen
	s.mu.Unlock()
	if snap == nil {
		return
	}

	if err := s.save(ctx, *snap); err != nil {
		s.log.Error("autosave failed", "error", err)
		return
	}

	s.mu.Lock()
	if s.gen == gen {
		s.pending = nil
	}
	s.mu.Unlock()
}
