package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"hermannm.dev/wrap"

	"search-analytics-service/internal/metrics"
	"search-analytics-service/internal/model"
	"search-analytics-service/internal/repository"
)

// AnalyticsService is the data-source boundary: it validates query params,
// fetches from the configured source and applies the query filter.
type AnalyticsService interface {
	FetchAnalytics(ctx context.Context, params model.QueryParams) (model.AnalyticsPayload, error)
}

// DefaultMaxRangeDays admits any single calendar year, leap years included.
const DefaultMaxRangeDays = 366

type analyticsService struct {
	source       repository.AnalyticsSource
	sourceName   string
	maxRangeDays int
	log          *zap.Logger
	now          func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService over source. sourceName
// labels latency metrics; maxRangeDays caps the span of a single request.
func NewAnalyticsService(source repository.AnalyticsSource, sourceName string, maxRangeDays int, log *zap.Logger) AnalyticsService {
	return &analyticsService{
		source:       source,
		sourceName:   sourceName,
		maxRangeDays: maxRangeDays,
		log:          log,
		now:          time.Now,
	}
}

func (s *analyticsService) FetchAnalytics(ctx context.Context, params model.QueryParams) (model.AnalyticsPayload, error) {
	if err := ValidateParams(params, s.maxRangeDays); err != nil {
		return model.AnalyticsPayload{}, wrap.Error(err, "analytics fetch failed")
	}

	started := s.now()
	payload, err := s.source.FetchAnalytics(ctx, params)
	elapsed := s.now().Sub(started)

	if err != nil {
		metrics.FetchDuration.WithLabelValues(s.sourceName, metrics.OutcomeFailure).Observe(elapsed.Seconds())
		return model.AnalyticsPayload{}, wrap.Error(err, "analytics fetch failed")
	}
	metrics.FetchDuration.WithLabelValues(s.sourceName, metrics.OutcomeSuccess).Observe(elapsed.Seconds())

	payload.TopQueries = FilterQueries(payload.TopQueries, params.QueryFilter)

	s.log.Debug("analytics fetched",
		zap.String("start", params.StartDate),
		zap.String("end", params.EndDate),
		zap.String("filter", params.QueryFilter),
		zap.Int("queries", len(payload.TopQueries)),
		zap.Int("days", len(payload.TimeSeries)),
		zap.Duration("elapsed", elapsed),
	)
	return payload, nil
}

// ValidateParams checks both dates are YYYY-MM-DD, start <= end and the
// range spans at most maxDays days. A non-positive maxDays disables the cap.
func ValidateParams(params model.QueryParams, maxDays int) error {
	start, err := model.ParseDate(params.StartDate)
	if err != nil {
		return &ValidationError{Message: "start date: " + err.Error()}
	}
	end, err := model.ParseDate(params.EndDate)
	if err != nil {
		return &ValidationError{Message: "end date: " + err.Error()}
	}
	if start.After(end) {
		return &ValidationError{Message: "start date must not be after end date"}
	}
	if maxDays > 0 && model.DaysBetween(start, end)+1 > maxDays {
		return &ValidationError{Message: fmt.Sprintf("date range must not exceed %d days", maxDays)}
	}
	return nil
}

// FilterQueries keeps records whose query contains filter, ignoring case.
// An empty filter returns records unchanged.
func FilterQueries(records []model.QueryRecord, filter string) []model.QueryRecord {
	if filter == "" {
		return records
	}

	needle := strings.ToLower(filter)
	filtered := make([]model.QueryRecord, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Query), needle) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
