package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// fakeRunner counts passes and signals each run on a channel.
type fakeRunner struct {
	mu    sync.Mutex
	runs  int
	ran   chan struct{}
	block chan struct{} // when set, RunPass blocks until closed
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{ran: make(chan struct{}, 16)}
}

func (f *fakeRunner) RunPass(ctx context.Context) fulfillment.PassSummary {
	f.mu.Lock()
	f.runs++
	n := f.runs
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	select {
	case f.ran <- struct{}{}:
	default:
	}

	return fulfillment.PassSummary{
		PassID:     uuid.New(),
		Candidates: n,
	}
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func waitForRun(t *testing.T, runner *fakeRunner) {
	t.Helper()
	select {
	case <-runner.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a pass to run")
	}
}

func TestPoller_RunsImmediatelyOnStart(t *testing.T) {
	runner := newFakeRunner()
	poller := NewPoller(PollerConfig{Interval: time.Hour}, runner, zap.NewNop())

	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop(context.Background())

	waitForRun(t, runner)
	assert.Equal(t, 1, runner.count())
	assert.True(t, poller.IsRunning())
}

func TestPoller_RunsOnInterval(t *testing.T) {
	runner := newFakeRunner()
	poller := NewPoller(PollerConfig{Interval: 20 * time.Millisecond}, runner, zap.NewNop())

	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop(context.Background())

	waitForRun(t, runner)
	waitForRun(t, runner)
	waitForRun(t, runner)
	assert.GreaterOrEqual(t, runner.count(), 3)
}

func TestPoller_StartIsIdempotent(t *testing.T) {
	runner := newFakeRunner()
	poller := NewPoller(PollerConfig{Interval: time.Hour}, runner, zap.NewNop())

	require.NoError(t, poller.Start(context.Background()))
	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop(context.Background())

	waitForRun(t, runner)
	// A second Start must not spawn a second loop
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, runner.count())
}

func TestPoller_StopWaitsForInFlightPass(t *testing.T) {
	runner := newFakeRunner()
	runner.block = make(chan struct{})
	poller := NewPoller(PollerConfig{Interval: time.Hour}, runner, zap.NewNop())

	require.NoError(t, poller.Start(context.Background()))

	// Give the first pass time to enter RunPass, then release it mid-stop
	time.Sleep(20 * time.Millisecond)
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(runner.block)
	}()

	require.NoError(t, poller.Stop(context.Background()))
	assert.Equal(t, 1, runner.count())
	assert.False(t, poller.IsRunning())
}

func TestPoller_StopHonorsContext(t *testing.T) {
	runner := newFakeRunner()
	runner.block = make(chan struct{})
	defer close(runner.block)

	poller := NewPoller(PollerConfig{Interval: time.Hour}, runner, zap.NewNop())
	require.NoError(t, poller.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, poller.Stop(ctx))
}

func TestPoller_StopWithoutStart(t *testing.T) {
	poller := NewPoller(PollerConfig{}, newFakeRunner(), zap.NewNop())
	assert.NoError(t, poller.Stop(context.Background()))
}

func TestPoller_TriggerNow(t *testing.T) {
	runner := newFakeRunner()
	poller := NewPoller(PollerConfig{Interval: time.Hour}, runner, zap.NewNop())

	summary := poller.TriggerNow(context.Background())
	assert.Equal(t, 1, summary.Candidates)

	last, ok := poller.LastSummary()
	require.True(t, ok)
	assert.Equal(t, summary.PassID, last.PassID)
}

func TestPoller_LastSummary(t *testing.T) {
	runner := newFakeRunner()
	poller := NewPoller(PollerConfig{Interval: time.Hour}, runner, zap.NewNop())

	_, ok := poller.LastSummary()
	assert.False(t, ok)

	require.NoError(t, poller.Start(context.Background()))
	defer poller.Stop(context.Background())
	waitForRun(t, runner)

	require.Eventually(t, func() bool {
		_, ok := poller.LastSummary()
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestDefaultPollerConfig(t *testing.T) {
	config := DefaultPollerConfig()
	assert.Equal(t, 5*time.Minute, config.Interval)
	assert.Equal(t, 10*time.Minute, config.PassTimeout)
}
