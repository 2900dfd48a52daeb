package dashboard

import "search-analytics-service/internal/model"

// Summary aggregates a record set. The means are 0 for an empty set.
type Summary struct {
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

func Summarize(records []model.QueryRecord) Summary {
	var summary Summary
	if len(records) == 0 {
		return summary
	}

	var ctrSum, positionSum float64
	for _, record := range records {
		summary.Clicks += record.Clicks
		summary.Impressions += record.Impressions
		ctrSum += record.CTR
		positionSum += record.Position
	}
	n := float64(len(records))
	summary.CTR = ctrSum / n
	summary.Position = positionSum / n
	return summary
}

// MetricCard is one summary tile.
type MetricCard struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Color string `json:"color"`
}

func MetricCards(summary Summary) []MetricCard {
	return []MetricCard{
		{Title: "Total Clicks", Value: FormatCount(summary.Clicks), Color: "blue"},
		{Title: "Total Impressions", Value: FormatCount(summary.Impressions), Color: "emerald"},
		{Title: "Average CTR", Value: FormatPercent(summary.CTR), Color: "purple"},
		{Title: "Average Position", Value: FormatPosition(summary.Position), Color: "orange"},
	}
}
