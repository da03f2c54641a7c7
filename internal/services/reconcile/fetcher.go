package reconcile

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bobmcallan/stocknews/internal/common"
	"github.com/bobmcallan/stocknews/internal/interfaces"
	"github.com/bobmcallan/stocknews/internal/models"
)

// Policy is the single converged retry policy for upstream fetches:
// delay = base * 2^(attempt-1) + uniform(0, jitter), bounded by MaxAttempts,
// with a per-attempt timeout.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
	Timeout     time.Duration
}

// DefaultPolicy returns the deployment-default retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		Jitter:      500 * time.Millisecond,
		Timeout:     30 * time.Second,
	}
}

// expJitterBackOff implements backoff.BackOff with the policy's exact delay
// formula (the library's built-in randomization is multiplicative, not the
// additive uniform jitter used here).
type expJitterBackOff struct {
	base    time.Duration
	jitter  time.Duration
	attempt int
}

func (b *expJitterBackOff) NextBackOff() time.Duration {
	delay := b.base << b.attempt
	b.attempt++
	if b.jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(b.jitter)))
	}
	return delay
}

func (b *expJitterBackOff) Reset() {
	b.attempt = 0
}

// Fetcher performs a single-shot bounded-retry fetch against the upstream
// price provider.
type Fetcher struct {
	client interfaces.PriceClient
	policy Policy
	logger *common.Logger
}

// NewFetcher creates an upstream fetcher with the given retry policy.
func NewFetcher(client interfaces.PriceClient, policy Policy, logger *common.Logger) *Fetcher {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Fetcher{client: client, policy: policy, logger: logger}
}

// Fetch retrieves the provider's series for the symbol. The response may
// cover a superset or subset of the range the caller needs. Rate-limited
// responses and unknown symbols stop the retry budget immediately; every
// other failure (including a per-attempt timeout) retries with backoff until
// the budget is exhausted.
func (f *Fetcher) Fetch(ctx context.Context, symbol string, period models.Period) ([]models.PricePoint, error) {
	if f.client == nil {
		return nil, fmt.Errorf("fetch %s: no price client configured: %w", symbol, models.ErrUpstreamUnavailable)
	}

	var points []models.PricePoint
	attempt := 0

	operation := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, f.policy.Timeout)
		defer cancel()

		// Metadata probe. Index-style symbols have no company metadata
		// upstream; the historical call is attempted regardless.
		if !models.IsIndexSymbol(symbol) {
			if _, err := f.client.GetOverview(attemptCtx, symbol); err != nil {
				if errors.Is(err, models.ErrSymbolNotFound) {
					return backoff.Permanent(err)
				}
				if models.IsRateLimited(err) {
					return backoff.Permanent(err)
				}
				return err
			}
		}

		result, err := f.client.GetDailySeries(attemptCtx, symbol, period)
		if err != nil {
			if errors.Is(err, models.ErrSymbolNotFound) {
				return backoff.Permanent(err)
			}
			if models.IsRateLimited(err) {
				// Burning the remaining budget on a rate-limited provider
				// only digs the hole deeper; stop and let the caller fall
				// back to cache or fail.
				return backoff.Permanent(err)
			}
			f.logger.Warn().
				Err(err).
				Str("symbol", symbol).
				Int("attempt", attempt).
				Msg("Upstream fetch attempt failed")
			return err
		}

		points = result
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			&expJitterBackOff{base: f.policy.BaseDelay, jitter: f.policy.Jitter},
			uint64(f.policy.MaxAttempts-1),
		),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	return points, nil
}
