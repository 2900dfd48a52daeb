package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"search-analytics-service/internal/model"
)

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{}, Summarize([]model.QueryRecord{}))
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]model.QueryRecord{
		{Query: "a", Clicks: 100, Impressions: 1000, CTR: 10, Position: 2},
		{Query: "b", Clicks: 50, Impressions: 2500, CTR: 2, Position: 5},
	})

	assert.Equal(t, int64(150), summary.Clicks)
	assert.Equal(t, int64(3500), summary.Impressions)
	assert.InDelta(t, 6.0, summary.CTR, 1e-9)
	assert.InDelta(t, 3.5, summary.Position, 1e-9)
}

func TestMetricCards(t *testing.T) {
	cards := MetricCards(Summary{Clicks: 1250, Impressions: 15420, CTR: 8.14, Position: 2.35})

	assert.Equal(t, []MetricCard{
		{Title: "Total Clicks", Value: "1,250", Color: "blue"},
		{Title: "Total Impressions", Value: "15,420", Color: "emerald"},
		{Title: "Average CTR", Value: "8.1%", Color: "purple"},
		{Title: "Average Position", Value: "2.4", Color: "orange"},
	}, cards)
}

func TestMetricCards_EmptySummaryHasNoNaN(t *testing.T) {
	cards := MetricCards(Summarize(nil))
	assert.Equal(t, "0.0%", cards[2].Value)
	assert.Equal(t, "0.0", cards[3].Value)
}
