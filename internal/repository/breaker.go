package repository

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"search-analytics-service/internal/model"
)

// BreakerConfig controls when the breaker opens and how long it stays open.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
}

type breakerSource struct {
	source AnalyticsSource
	cb     *gobreaker.CircuitBreaker[model.AnalyticsPayload]
}

// NewBreakerSource guards source with a circuit breaker. Once the breaker
// opens, fetches fail fast with gobreaker.ErrOpenState until Timeout passes.
func NewBreakerSource(source AnalyticsSource, cfg BreakerConfig, log *zap.Logger) AnalyticsSource {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// Cancelled fetches do not count as failures.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("analytics source breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &breakerSource{
		source: source,
		cb:     gobreaker.NewCircuitBreaker[model.AnalyticsPayload](settings),
	}
}

func (b *breakerSource) FetchAnalytics(ctx context.Context, params model.QueryParams) (model.AnalyticsPayload, error) {
	return b.cb.Execute(func() (model.AnalyticsPayload, error) {
		return b.source.FetchAnalytics(ctx, params)
	})
}
