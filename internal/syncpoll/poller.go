package syncpoll

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 5 * time.Second

// Fetcher retrieves the current snapshot. etag is the value to send as
// If-None-Match on the next call; notModified reports a 304, in which case
// body is empty.
type Fetcher interface {
	Fetch(ctx context.Context, etag string) (body []byte, newETag string, notModified bool, err error)
}

// HTTPFetcher polls a snapshot endpoint over HTTP with conditional requests.
type HTTPFetcher struct {
	client *fasthttp.Client
	url    string
	token  string
}

func NewHTTPFetcher(url, token string) *HTTPFetcher {
	return &HTTPFetcher{
		client: &fasthttp.Client{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		url:   url,
		token: token,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, etag string) ([]byte, string, bool, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(f.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	deadline, ok := ctx.Deadline()
	var err error
	if ok {
		err = f.client.DoDeadline(req, resp, deadline)
	} else {
		err = f.client.Do(req, resp)
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("snapshot fetch failed: %w", err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusNotModified:
		return nil, etag, true, nil
	case fasthttp.StatusOK:
		body := make([]byte, len(resp.Body()))
		copy(body, resp.Body())
		return body, string(resp.Header.Peek("ETag")), false, nil
	default:
		return nil, "", false, fmt.Errorf("snapshot fetch returned status %d", resp.StatusCode())
	}
}

// UpdateHandler receives the raw snapshot body each time it changes.
type UpdateHandler func(body []byte)

// Poller implements the subscription contract over a polling transport:
// subscribers get each distinct snapshot exactly once, identical consecutive
// responses are discarded, a paused poller issues no requests, and a fetch
// error preserves the last accepted snapshot.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration

	mu       sync.Mutex
	handlers map[int]UpdateHandler
	nextID   int
	lastHash string
	lastBody []byte
	lastETag string
	lastErr  error
	paused   bool

	ticker *time.Ticker
	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoller(fetcher Fetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		handlers: make(map[int]UpdateHandler),
		wake:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Subscribe registers a handler and returns its unsubscribe func. The first
// subscriber starts the poll loop; an immediate fetch fires before the first
// tick.
func (p *Poller) Subscribe(handler UpdateHandler) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	first := len(p.handlers) == 1
	// A late subscriber gets the current snapshot right away.
	if p.lastBody != nil {
		body := p.lastBody
		p.mu.Unlock()
		handler(body)
		p.mu.Lock()
	}
	p.mu.Unlock()

	if first {
		p.start()
	}

	return func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	}
}

// Pause stops the interval entirely. No requests are issued while paused.
func (p *Poller) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume restarts the poll loop and fires an immediate fetch.
func (p *Poller) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
	p.poke()
}

// ForceRefresh clears the dedup cache and immediately re-fetches, so the
// next response is always delivered even if byte-identical.
func (p *Poller) ForceRefresh() {
	p.mu.Lock()
	p.lastHash = ""
	p.lastETag = ""
	p.mu.Unlock()
	p.poke()
}

// LastError reports the most recent fetch failure, or nil after a success.
func (p *Poller) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Snapshot returns the last accepted body, which survives fetch errors.
func (p *Poller) Snapshot() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastBody
}

// Stop shuts the poll loop down. In-flight fetches are not cancelled; their
// responses are simply not applied.
func (p *Poller) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Poller) start() {
	p.ticker = time.NewTicker(p.interval)
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		defer p.ticker.Stop()

		p.tick()

		for {
			select {
			case <-p.ctx.Done():
				return
			case <-p.ticker.C:
				p.tick()
			case <-p.wake:
				p.tick()
			}
		}
	}()
}

func (p *Poller) poke() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Poller) tick() {
	p.mu.Lock()
	if p.paused {
		p.mu.Unlock()
		return
	}
	etag := p.lastETag
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(p.ctx, p.interval*2)
	defer cancel()

	body, newETag, notModified, err := p.fetcher.Fetch(ctx, etag)

	p.mu.Lock()
	if err != nil {
		// Last-known-good stays visible; only the error flag changes.
		p.lastErr = err
		p.mu.Unlock()
		slog.Warn("Snapshot poll failed", slog.Any("error", err))
		return
	}
	p.lastErr = nil

	if notModified {
		p.mu.Unlock()
		return
	}

	sum := sha256.Sum256(body)
	hash := hex.EncodeToString(sum[:])
	if hash == p.lastHash && bytes.Equal(body, p.lastBody) {
		p.mu.Unlock()
		return
	}

	p.lastHash = hash
	p.lastBody = body
	p.lastETag = newETag

	handlers := make([]UpdateHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(body)
	}
}
