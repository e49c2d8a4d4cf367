package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPurger struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (p *recordingPurger) PurgeCount(ctx context.Context, before time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, before)
	return 3, p.err
}

func (p *recordingPurger) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func TestRateLimitSweepWorker_RunUsesWindow(t *testing.T) {
	p := &recordingPurger{}
	w := NewRateLimitSweepWorker(p, time.Hour, time.Minute)
	now := time.Unix(1700000000, 0)
	w.now = func() time.Time { return now }

	w.run(context.Background())

	require.Len(t, p.cutoffs, 1)
	assert.Equal(t, now.Add(-time.Hour), p.cutoffs[0])
}

func TestRateLimitSweepWorker_RunSurvivesErrors(t *testing.T) {
	p := &recordingPurger{err: errors.New("db down")}
	w := NewRateLimitSweepWorker(p, time.Hour, time.Minute)

	assert.NotPanics(t, func() { w.run(context.Background()) })
	assert.Equal(t, 1, p.calls())
}

func TestRateLimitSweepWorker_StopsOnCancel(t *testing.T) {
	p := &recordingPurger{}
	w := NewRateLimitSweepWorker(p, time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls() > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
