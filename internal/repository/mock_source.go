package repository

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"search-analytics-service/internal/model"
)

// mockQueries is the fixed top-queries set served by the mock source.
var mockQueries = []model.QueryRecord{
	{Query: "react typescript tutorial", Clicks: 1250, Impressions: 15420, CTR: 8.1, Position: 2.3},
	{Query: "graphql best practices", Clicks: 980, Impressions: 12350, CTR: 7.9, Position: 3.1},
	{Query: "tailwind css components", Clicks: 875, Impressions: 11200, CTR: 7.8, Position: 2.8},
	{Query: "node.js authentication", Clicks: 720, Impressions: 9800, CTR: 7.3, Position: 3.5},
	{Query: "javascript array methods", Clicks: 650, Impressions: 8900, CTR: 7.3, Position: 2.9},
	{Query: "react testing library", Clicks: 580, Impressions: 8100, CTR: 7.2, Position: 3.2},
	{Query: "mongodb aggregation", Clicks: 520, Impressions: 7500, CTR: 6.9, Position: 3.8},
	{Query: "css grid layout", Clicks: 480, Impressions: 7200, CTR: 6.7, Position: 4.1},
	{Query: "vue.js composition api", Clicks: 420, Impressions: 6800, CTR: 6.2, Position: 4.5},
	{Query: "docker container tutorial", Clicks: 380, Impressions: 6200, CTR: 6.1, Position: 4.8},
	{Query: "python machine learning", Clicks: 350, Impressions: 5800, CTR: 6.0, Position: 5.2},
	{Query: "aws lambda functions", Clicks: 320, Impressions: 5400, CTR: 5.9, Position: 5.5},
	{Query: "redux toolkit guide", Clicks: 280, Impressions: 4900, CTR: 5.7, Position: 6.1},
	{Query: "nextjs server components", Clicks: 250, Impressions: 4500, CTR: 5.6, Position: 6.8},
	{Query: "typescript interfaces", Clicks: 220, Impressions: 4100, CTR: 5.4, Position: 7.2},
	{Query: "express.js middleware", Clicks: 180, Impressions: 3600, CTR: 5.0, Position: 7.8},
	{Query: "react native navigation", Clicks: 150, Impressions: 3200, CTR: 4.7, Position: 8.5},
	{Query: "svelte vs react", Clicks: 120, Impressions: 2800, CTR: 4.3, Position: 9.2},
	{Query: "webpack configuration", Clicks: 100, Impressions: 2400, CTR: 4.2, Position: 9.8},
	{Query: "graphql mutations", Clicks: 80, Impressions: 2000, CTR: 4.0, Position: 10.5},
}

const (
	mockMinClicks      = 50
	mockClicksSpan     = 200
	mockMinImpressions = 200
	mockImpressionSpan = 800
)

type mockSource struct {
	latency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockSource returns an AnalyticsSource that serves fixed queries and a
// random daily series after a simulated latency.
func NewMockSource(latency time.Duration, seed int64) AnalyticsSource {
	return &mockSource{
		latency: latency,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (m *mockSource) FetchAnalytics(ctx context.Context, params model.QueryParams) (model.AnalyticsPayload, error) {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return model.AnalyticsPayload{}, ctx.Err()
		case <-timer.C:
		}
	}

	start, err := model.ParseDate(params.StartDate)
	if err != nil {
		return model.AnalyticsPayload{}, err
	}
	end, err := model.ParseDate(params.EndDate)
	if err != nil {
		return model.AnalyticsPayload{}, err
	}

	queries := make([]model.QueryRecord, len(mockQueries))
	copy(queries, mockQueries)

	return model.AnalyticsPayload{
		TopQueries: queries,
		TimeSeries: m.generateTimeSeries(start, end),
	}, nil
}

func (m *mockSource) generateTimeSeries(start, end time.Time) []model.TimeSeriesPoint {
	dates := model.DateRange(start, end)
	points := make([]model.TimeSeriesPoint, 0, len(dates))

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, date := range dates {
		points = append(points, model.TimeSeriesPoint{
			Date:        date,
			Clicks:      int64(m.rng.Intn(mockClicksSpan) + mockMinClicks),
			Impressions: int64(m.rng.Intn(mockImpressionSpan) + mockMinImpressions),
		})
	}
	return points
}
