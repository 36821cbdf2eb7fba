package slack

import (
	"context"
	"errors"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/chrisedwards/slack-cli/internal/clierr"
)

const (
	// DefaultConcurrency is the number of API calls allowed in flight at once.
	DefaultConcurrency = 3

	// DefaultCooldown is how long a rate-limited call waits before returning.
	DefaultCooldown = 5 * time.Second
)

// Gateway admits at most a fixed number of simultaneous API calls and
// applies a single cooldown when the server rate-limits one of them.
// It never retries; the caller decides what to do with the returned error.
type Gateway struct {
	sem      *semaphore.Weighted
	cooldown time.Duration
	sleep    func(context.Context, time.Duration) error
	logger   *zap.Logger
}

// NewGateway creates a Gateway. Non-positive values select the defaults.
func NewGateway(concurrency int, cooldown time.Duration, logger *zap.Logger) *Gateway {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if cooldown < 0 {
		cooldown = DefaultCooldown
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		sem:      semaphore.NewWeighted(int64(concurrency)),
		cooldown: cooldown,
		sleep:    sleepContext,
		logger:   logger,
	}
}

// Do runs fn once inside the concurrency gate. Failures are returned as
// *clierr.APIError; rate-limited failures are returned after the cooldown.
func (g *Gateway) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return &clierr.APIError{Op: op, Err: err}
	}
	err := fn(ctx)
	g.sem.Release(1)

	if err == nil {
		return nil
	}
	if !isRateLimitError(err) {
		return &clierr.APIError{Op: op, Err: err}
	}

	g.logger.Warn("rate limited, cooling down",
		zap.String("op", op),
		zap.Duration("cooldown", g.cooldown),
	)
	if serr := g.sleep(ctx, g.cooldown); serr != nil {
		g.logger.Debug("cooldown interrupted", zap.String("op", op), zap.Error(serr))
	}
	return &clierr.APIError{Op: op, RateLimited: true, Err: err}
}

// Call is Do for calls that produce a value.
func Call[T any](ctx context.Context, g *Gateway, op string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := g.Do(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

func isRateLimitError(err error) bool {
	var rl *slackapi.RateLimitedError
	if errors.As(err, &rl) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "ratelimited") ||
		strings.Contains(msg, "rate_limited")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
