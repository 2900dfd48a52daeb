package model

// QueryRecord is one search query's aggregate performance over a date range.
type QueryRecord struct {
	Query       string  `json:"query"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// TimeSeriesPoint is one day's aggregate activity.
type TimeSeriesPoint struct {
	Date        string `json:"date"`
	Clicks      int64  `json:"clicks"`
	Impressions int64  `json:"impressions"`
}

// AnalyticsPayload is the result of one fetch. It is never mutated after
// construction; consumers that need a different order copy it first.
type AnalyticsPayload struct {
	TopQueries []QueryRecord     `json:"topQueries"`
	TimeSeries []TimeSeriesPoint `json:"timeSeries"`
}

// QueryParams selects the payload to fetch. Any change starts a new fetch.
type QueryParams struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	QueryFilter string `json:"queryFilter"`
}

// FindQuery returns the record whose query text equals query.
func (p AnalyticsPayload) FindQuery(query string) (QueryRecord, bool) {
	for _, record := range p.TopQueries {
		if record.Query == query {
			return record, true
		}
	}
	return QueryRecord{}, false
}
