// Package ordernum produces unique human-readable order numbers.
package ordernum

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Strategy selects the order number format.
type Strategy string

const (
	// StrategyRandom produces PVA-{yyyyMMdd}-{6-digit random}, retrying on
	// collision until a free number is found or attempts run out.
	StrategyRandom Strategy = "random"

	// StrategySequence produces PVA{yyyyMMdd}{NNNN} from the same-day order
	// count.
	StrategySequence Strategy = "sequence"
)

// maxRandomAttempts bounds the collision retry loop for the random strategy.
const maxRandomAttempts = 5

// Store is the order lookup surface the generator needs.
type Store interface {
	// NumberExists reports whether an order already uses the number.
	NumberExists(ctx context.Context, number string) (bool, error)

	// CountCreatedSince counts orders created at or after the given time.
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// Generator produces order numbers using a configured strategy.
type Generator struct {
	store    Store
	strategy Strategy
	logger   zerolog.Logger

	// Injected for deterministic tests.
	now  func() time.Time
	intn func(n int) int
}

// NewGenerator creates an order number generator. Unknown strategies fall
// back to the random strategy.
func NewGenerator(store Store, strategy Strategy, logger zerolog.Logger) *Generator {
	if strategy != StrategySequence {
		strategy = StrategyRandom
	}

	return &Generator{
		store:    store,
		strategy: strategy,
		logger:   logger.With().Str("component", "ordernum").Logger(),
		now:      time.Now,
		intn:     rand.Intn,
	}
}

// Generate produces a new order number that no existing order uses.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	switch g.strategy {
	case StrategySequence:
		return g.generateSequence(ctx)
	default:
		return g.generateRandom(ctx)
	}
}

// generateRandom draws random suffixes until the candidate is free. The
// bounded loop replaces the single blind retry of earlier storefront
// versions, which could hand out a colliding number.
func (g *Generator) generateRandom(ctx context.Context) (string, error) {
	date := g.now().UTC().Format("20060102")

	for attempt := 0; attempt < maxRandomAttempts; attempt++ {
		suffix := 100000 + g.intn(900000)
		candidate := fmt.Sprintf("PVA-%s-%06d", date, suffix)

		exists, err := g.store.NumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check order number: %w", err)
		}
		if !exists {
			return candidate, nil
		}

		g.logger.Warn().
			Str("order_number", candidate).
			Int("attempt", attempt+1).
			Msg("order number collision, retrying")
	}

	return "", fmt.Errorf("failed to generate unique order number after %d attempts", maxRandomAttempts)
}

// generateSequence derives the number from the count of orders placed today.
func (g *Generator) generateSequence(ctx context.Context) (string, error) {
	now := g.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, err := g.store.CountCreatedSince(ctx, dayStart)
	if err != nil {
		return "", fmt.Errorf("failed to count today's orders: %w", err)
	}

	return fmt.Sprintf("PVA%s%04d", now.Format("20060102"), count+1), nil
}
