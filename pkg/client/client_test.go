package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// changes collects OnChange payloads.
type changes struct {
	mu   sync.Mutex
	seen []string
}

func (c *changes) add(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, string(data))
}

func (c *changes) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.seen...)
}

// scripted returns payloads in order, repeating the last one.
func scripted(calls *atomic.Int32, payloads ...string) FetchFunc {
	return func(context.Context) ([]byte, error) {
		n := int(calls.Add(1)) - 1
		if n >= len(payloads) {
			n = len(payloads) - 1
		}
		return []byte(payloads[n]), nil
	}
}

func TestPollerReportsOnlyChanges(t *testing.T) {
	var calls atomic.Int32
	got := &changes{}
	p := NewPoller(scripted(&calls, "a", "a", "b", "b", "b"), PollerConfig{
		Interval: 10 * time.Millisecond,
		OnChange: got.add,
	})
	p.Start(context.Background())
	defer p.Close()

	assert.Eventually(t, func() bool { return calls.Load() >= 6 }, waitFor, tick)
	assert.Equal(t, []string{"a", "b"}, got.list())
	assert.Equal(t, []byte("b"), p.Snapshot())
}

func TestPollerFetchesImmediately(t *testing.T) {
	var calls atomic.Int32
	got := &changes{}
	p := NewPoller(scripted(&calls, "[]"), PollerConfig{
		Interval: time.Hour,
		OnChange: got.add,
	})
	p.Start(context.Background())
	defer p.Close()

	assert.Eventually(t, func() bool { return len(got.list()) == 1 }, waitFor, tick)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewPoller(func(context.Context) ([]byte, error) { return nil, nil }, PollerConfig{})
	assert.Equal(t, DefaultPollInterval, p.interval)
	assert.False(t, p.Running())
}

func TestPollerStopAndResume(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(scripted(&calls, "x"), PollerConfig{Interval: 10 * time.Millisecond})
	p.Start(context.Background())
	defer p.Close()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, waitFor, tick)

	p.Stop()
	assert.False(t, p.Running())
	// let any in-flight iteration settle
	time.Sleep(30 * time.Millisecond)
	paused := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, paused, calls.Load())

	p.Resume()
	assert.True(t, p.Running())
	assert.Eventually(t, func() bool { return calls.Load() > paused }, waitFor, tick)
}

func TestPollerNoCallbackAfterClose(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var first atomic.Bool
	first.Store(true)

	got := &changes{}
	p := NewPoller(func(context.Context) ([]byte, error) {
		if first.CompareAndSwap(true, false) {
			entered <- struct{}{}
			<-release
			return []byte("late"), nil
		}
		return []byte("never"), nil
	}, PollerConfig{Interval: 10 * time.Millisecond, OnChange: got.add})

	p.Start(context.Background())
	<-entered
	p.Close()
	close(release)

	assert.Eventually(t, func() bool { return string(p.Snapshot()) == "late" }, waitFor, tick)
	assert.Empty(t, got.list())

	p.Resume()
	assert.False(t, p.Running())
}

func TestPollerContextCancelTearsDown(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(scripted(&calls, "x"), PollerConfig{Interval: 10 * time.Millisecond})
	p.Start(ctx)
	defer p.Close()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, waitFor, tick)
	cancel()
	assert.False(t, p.Running())

	p.Resume()
	assert.False(t, p.Running())
}

func TestPollerErrorsDoNotStopLoop(t *testing.T) {
	var calls atomic.Int32
	var errs atomic.Int32
	got := &changes{}
	p := NewPoller(func(context.Context) ([]byte, error) {
		if calls.Add(1) <= 2 {
			return nil, errors.New("offline")
		}
		return []byte("ok"), nil
	}, PollerConfig{
		Interval: 10 * time.Millisecond,
		OnChange: got.add,
		OnError:  func(error) { errs.Add(1) },
	})
	p.Start(context.Background())
	defer p.Close()

	assert.Eventually(t, func() bool { return len(got.list()) == 1 }, waitFor, tick)
	assert.Equal(t, int32(2), errs.Load())
}

func TestPollerCallbackMayStop(t *testing.T) {
	var calls atomic.Int32
	var p *Poller
	p = NewPoller(scripted(&calls, "a", "b"), PollerConfig{
		Interval: 10 * time.Millisecond,
		OnChange: func([]byte) { p.Stop() },
	})
	p.Start(context.Background())
	defer p.Close()

	assert.Eventually(t, func() bool { return !p.Running() }, waitFor, tick)
	assert.Equal(t, []byte("a"), p.Snapshot())
}

func newTestServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var version atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Email hoặc mật khẩu không đúng"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":"u1"}}`))
	})
	mux.HandleFunc("GET /api/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		_, _ = fmt.Fprintf(w, `[{"version":%d}]`, version.Load())
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &version
}

func TestClientLoginAndErrors(t *testing.T) {
	server, _ := newTestServer(t)
	c, err := New(Config{BaseURL: server.URL + "/api/v1/"})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/messages")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized", apiErr.Message)

	err = c.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "mật khẩu")

	require.NoError(t, c.Login(context.Background(), "alice@example.com", "secret123"))
	assert.Equal(t, "tok", c.Token())

	raw, err := c.Get(context.Background(), "/messages")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"version":0}]`, string(raw))
}

func TestClientPollsEndpoint(t *testing.T) {
	server, version := newTestServer(t)
	c, err := New(Config{BaseURL: server.URL + "/api/v1", Token: "tok"})
	require.NoError(t, err)

	got := &changes{}
	p := c.Poll("/messages", PollerConfig{Interval: 10 * time.Millisecond, OnChange: got.add})
	p.Start(context.Background())
	defer p.Close()

	assert.Eventually(t, func() bool { return len(got.list()) == 1 }, waitFor, tick)
	version.Store(1)
	assert.Eventually(t, func() bool { return len(got.list()) == 2 }, waitFor, tick)
	assert.JSONEq(t, `[{"version":1}]`, got.list()[1])
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
