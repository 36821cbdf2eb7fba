package slack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrisedwards/slack-cli/internal/clierr"
)

// newTestGateway returns a Gateway whose cooldown is recorded instead of slept.
func newTestGateway(concurrency int) (*Gateway, *[]time.Duration) {
	g := NewGateway(concurrency, DefaultCooldown, nil)
	var slept []time.Duration
	g.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return g, &slept
}

func TestGateway_Success(t *testing.T) {
	g, slept := newTestGateway(1)

	got, err := Call(context.Background(), g, "test", func(context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Call() = %q, want ok", got)
	}
	if len(*slept) != 0 {
		t.Errorf("unexpected cooldown: %v", *slept)
	}
}

func TestGateway_WrapsErrors(t *testing.T) {
	g, slept := newTestGateway(1)
	cause := errors.New("channel_not_found")

	err := g.Do(context.Background(), "conversations.info", func(context.Context) error { return cause })

	var apiErr *clierr.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Do() error = %v, want *clierr.APIError", err)
	}
	if apiErr.RateLimited {
		t.Error("plain failure marked as rate limited")
	}
	if apiErr.Op != "conversations.info" {
		t.Errorf("Op = %q", apiErr.Op)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not preserved")
	}
	if len(*slept) != 0 {
		t.Errorf("plain failure should not cool down, slept %v", *slept)
	}
}

func TestGateway_RateLimitedAttemptedOnce(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "typed", err: &slackapi.RateLimitedError{RetryAfter: time.Second}},
		{name: "message", err: errors.New("slack rate limit exceeded")},
		{name: "code", err: errors.New("ratelimited")},
		{name: "snake code", err: errors.New("rate_limited")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			g, slept := newTestGateway(3)
			g.logger = zap.New(core)

			attempts := 0
			err := g.Do(context.Background(), "conversations.history", func(context.Context) error {
				attempts++
				return tt.err
			})

			if attempts != 1 {
				t.Errorf("attempts = %d, want 1", attempts)
			}
			if !clierr.IsRateLimited(err) {
				t.Errorf("Do() error = %v, want rate-limited APIError", err)
			}
			if len(*slept) != 1 || (*slept)[0] != DefaultCooldown {
				t.Errorf("slept = %v, want one %v cooldown", *slept, DefaultCooldown)
			}
			if logs.FilterMessage("rate limited, cooling down").Len() != 1 {
				t.Error("expected one rate limit warning")
			}
		})
	}
}

func TestGateway_ConcurrencyBound(t *testing.T) {
	const limit = 3
	g, _ := newTestGateway(limit)

	var inFlight, peak int32
	release := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do(context.Background(), "test", func(context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				<-release
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}

	// Let the gate fill before releasing everything.
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&inFlight) < limit && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()

	if peak != limit {
		t.Errorf("peak in-flight = %d, want %d", peak, limit)
	}
}

func TestGateway_CancelledWhileWaiting(t *testing.T) {
	g, _ := newTestGateway(1)
	block := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = g.Do(context.Background(), "holder", func(context.Context) error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := g.Do(ctx, "waiter", func(context.Context) error {
		called = true
		return nil
	})
	close(block)

	if called {
		t.Error("fn should not run when the gate cannot be entered")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestGateway_HTTP429(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	api := NewEndpoint("xoxb-test").WithBaseURL(srv.URL).API()
	g, slept := newTestGateway(1)

	_, err := Call(context.Background(), g, "users.info", func(ctx context.Context) (*slackapi.User, error) {
		return api.GetUserInfoContext(ctx, "U1")
	})

	if !clierr.IsRateLimited(err) {
		t.Fatalf("error = %v, want rate-limited", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
	if len(*slept) != 1 {
		t.Errorf("slept = %v, want one cooldown", *slept)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepContext() = %v, want context.Canceled", err)
	}
	if err := sleepContext(context.Background(), 0); err != nil {
		t.Errorf("sleepContext(0) = %v", err)
	}
}
