package routing

import (
	"context"
	"log/slog"
	"time"

	"tripweaver/internal/types"
	"tripweaver/internal/usage"
)

// Gate decides whether the paid hosted backend may still be used this
// billing cycle. Usage is recorded after a successful call, never before, so
// a failed call does not consume quota.
type Gate struct {
	store         usage.Store
	ceiling       int64
	keyConfigured bool
	now           func() time.Time
	logger        *slog.Logger
}

func NewGate(logger *slog.Logger, store usage.Store, ceiling int64, keyConfigured bool) *Gate {
	return &Gate{
		store:         store,
		ceiling:       ceiling,
		keyConfigured: keyConfigured,
		now:           time.Now,
		logger:        logger.With("component", "quota-gate"),
	}
}

// AllowHosted reports whether the hosted provider has a configured credential
// and remaining quota for the current month. A counter-store failure counts
// as exhausted: the fallback chain always has a keyless engine to land on.
func (g *Gate) AllowHosted(ctx context.Context) bool {
	if !g.keyConfigured || g.ceiling <= 0 {
		return false
	}

	month := usage.MonthKey(g.now())
	count, err := g.store.Get(ctx, month, types.ProviderValhallaHosted)
	if err != nil {
		g.logger.Warn("usage counter unavailable, treating quota as exhausted", "error", err)
		return false
	}
	if count >= g.ceiling {
		g.logger.Info("hosted provider quota exhausted for month",
			"month", month,
			"count", count,
			"ceiling", g.ceiling,
		)
		return false
	}
	return true
}

// RecordUse increments the month's counter for a provider after a successful
// call. Failures are logged, not surfaced; quota accounting must never fail
// a served route.
func (g *Gate) RecordUse(ctx context.Context, provider types.Provider) {
	month := usage.MonthKey(g.now())
	if err := g.store.Increment(ctx, month, provider); err != nil {
		g.logger.Warn("failed to record provider usage",
			"month", month,
			"provider", string(provider),
			"error", err,
		)
	}
}
