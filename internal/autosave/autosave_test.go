package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
)

type recorder struct {
	mu    sync.Mutex
	saved []match.Snapshot
	fail  bool
}

func (r *recorder) save(_ context.Context, snap match.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("disk full")
	}
	r.saved = append(r.saved, snap)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func (r *recorder) last() match.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[len(r.saved)-1]
}

func (r *recorder) setFail(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = v
}

func snapWithScore(home int) match.Snapshot {
	return match.Snapshot{
		Score:      model.Score{Home: home},
		Serving:    model.SideHome,
		CurrentSet: 1,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestBurstCoalescesToOneSave(t *testing.T) {
	rec := &recorder{}
	s := New(rec.save, WithDelay(30*time.Millisecond))
	defer s.Close()

	s.Schedule(snapWithScore(1))
	s.Schedule(snapWithScore(2))
	s.Schedule(snapWithScore(3))

	waitFor(t, func() bool { return rec.count() == 1 })
	if got := rec.last().Score.Home; got != 3 {
		t.Errorf("saved score = %d, want the newest (3)", got)
	}

	// Nothing else pending: no further saves should appear.
	time.Sleep(100 * time.Millisecond)
	if rec.count() != 1 {
		t.Errorf("saves = %d, want 1", rec.count())
	}
}

func TestCloseFlushesPending(t *testing.T) {
	rec := &recorder{}
	s := New(rec.save, WithDelay(time.Hour))

	s.Schedule(snapWithScore(9))
	s.Close()

	if rec.count() != 1 || rec.last().Score.Home != 9 {
		t.Errorf("saved %d snapshots, last %+v", rec.count(), rec.saved)
	}
}

func TestCloseWithNothingPending(t *testing.T) {
	rec := &recorder{}
	s := New(rec.save, WithDelay(10*time.Millisecond))
	s.Schedule(snapWithScore(1))
	waitFor(t, func() bool { return rec.count() == 1 })

	s.Close()
	if rec.count() != 1 {
		t.Errorf("close re-saved an already flushed snapshot: %d", rec.count())
	}
}

func TestFailedSaveRetriesOnNextSchedule(t *testing.T) {
	rec := &recorder{}
	rec.setFail(true)
	s := New(rec.save, WithDelay(10*time.Millisecond))
	defer s.Close()

	s.Schedule(snapWithScore(1))
	time.Sleep(100 * time.Millisecond)
	if rec.count() != 0 {
		t.Fatalf("save should have failed, got %d", rec.count())
	}

	rec.setFail(false)
	s.Schedule(snapWithScore(2))
	waitFor(t, func() bool { return rec.count() == 1 })
	if rec.last().Score.Home != 2 {
		t.Errorf("saved score = %d, want 2", rec.last().Score.Home)
	}
}

func TestScheduleNeverBlocks(t *testing.T) {
	block := make(chan struct{})
	var once sync.Once
	slow := func(context.Context, match.Snapshot) error {
		once.Do(func() { <-block })
		return nil
	}
	s := New(slow, WithDelay(time.Millisecond))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Schedule(snapWithScore(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Schedule blocked while a save was in flight")
	}
	close(block)
	s.Close()
}
