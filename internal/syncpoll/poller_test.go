package syncpoll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher serves scripted responses and counts calls.
type stubFetcher struct {
	mu    sync.Mutex
	body  []byte
	err   error
	calls int
	etags []string
}

func (f *stubFetcher) Fetch(ctx context.Context, etag string) ([]byte, string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.etags = append(f.etags, etag)
	if f.err != nil {
		return nil, "", false, f.err
	}
	return f.body, "v1", false, nil
}

func (f *stubFetcher) set(body []byte, err error) {
	f.mu.Lock()
	f.body = body
	f.err = err
	f.mu.Unlock()
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recorder collects delivered snapshot bodies.
type recorder struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (r *recorder) handle(body []byte) {
	r.mu.Lock()
	r.bodies = append(r.bodies, body)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
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
	t.Fatal("condition not met within deadline")
}

func TestPollerDedupsIdenticalResponses(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"v":1}`)}
	p := NewPoller(fetcher, 10*time.Millisecond)
	defer p.Stop()

	rec := &recorder{}
	unsubscribe := p.Subscribe(rec.handle)
	defer unsubscribe()

	// Several poll cycles with the same body deliver exactly once.
	waitFor(t, func() bool { return fetcher.callCount() >= 4 })
	assert.Equal(t, 1, rec.count())
}

func TestPollerDeliversChangedBody(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"v":1}`)}
	p := NewPoller(fetcher, 10*time.Millisecond)
	defer p.Stop()

	rec := &recorder{}
	defer p.Subscribe(rec.handle)()

	waitFor(t, func() bool { return rec.count() == 1 })

	fetcher.set([]byte(`{"v":2}`), nil)
	waitFor(t, func() bool { return rec.count() == 2 })

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []byte(`{"v":2}`), rec.bodies[1])
}

func TestPollerForceRefreshRedelivers(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"v":1}`)}
	p := NewPoller(fetcher, time.Hour)
	defer p.Stop()

	rec := &recorder{}
	defer p.Subscribe(rec.handle)()

	waitFor(t, func() bool { return rec.count() == 1 })

	// Same bytes, but the dedup cache was cleared.
	p.ForceRefresh()
	waitFor(t, func() bool { return rec.count() == 2 })
}

func TestPollerPauseStopsRequests(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"v":1}`)}
	p := NewPoller(fetcher, 10*time.Millisecond)
	defer p.Stop()

	rec := &recorder{}
	defer p.Subscribe(rec.handle)()

	waitFor(t, func() bool { return fetcher.callCount() >= 1 })

	p.Pause()
	time.Sleep(30 * time.Millisecond)
	before := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	// At most one in-flight tick can land after Pause.
	assert.LessOrEqual(t, fetcher.callCount(), before+1)

	p.Resume()
	resumed := fetcher.callCount()
	waitFor(t, func() bool { return fetcher.callCount() > resumed })
}

func TestPollerKeepsLastGoodOnError(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"v":1}`)}
	p := NewPoller(fetcher, 10*time.Millisecond)
	defer p.Stop()

	rec := &recorder{}
	defer p.Subscribe(rec.handle)()

	waitFor(t, func() bool { return rec.count() == 1 })

	fetchErr := errors.New("connection refused")
	fetcher.set(nil, fetchErr)
	waitFor(t, func() bool { return p.LastError() != nil })

	assert.Equal(t, []byte(`{"v":1}`), p.Snapshot())
	assert.Equal(t, 1, rec.count())

	fetcher.set([]byte(`{"v":2}`), nil)
	waitFor(t, func() bool { return rec.count() == 2 })
	assert.NoError(t, p.LastError())
}

func TestPollerLateSubscriberGetsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"v":1}`)}
	p := NewPoller(fetcher, time.Hour)
	defer p.Stop()

	first := &recorder{}
	defer p.Subscribe(first.handle)()
	waitFor(t, func() bool { return first.count() == 1 })

	late := &recorder{}
	defer p.Subscribe(late.handle)()

	require.Equal(t, 1, late.count())
	assert.Equal(t, []byte(`{"v":1}`), late.bodies[0])
}
