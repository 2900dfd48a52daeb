package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"search-analytics-service/internal/model"
)

// AnalyticsSource produces the analytics payload for a set of query params.
type AnalyticsSource interface {
	FetchAnalytics(ctx context.Context, params model.QueryParams) (model.AnalyticsPayload, error)
}

// SearchEventRepository defines database operations for search events.
type SearchEventRepository interface {
	AnalyticsSource

	// Create inserts a single event.
	Create(ctx context.Context, event model.SearchEvent) error

	// CreateBatch inserts multiple events in one ClickHouse batch.
	CreateBatch(ctx context.Context, events []model.SearchEvent) error
}

type searchEventRepository struct {
	conn  clickhouse.Conn
	limit int
}

// NewSearchEventRepository creates a SearchEventRepository backed by ClickHouse.
// limit caps the number of top queries returned per fetch.
func NewSearchEventRepository(conn clickhouse.Conn, limit int) SearchEventRepository {
	return &searchEventRepository{conn: conn, limit: limit}
}

const insertEventQuery = `INSERT INTO search_events (event_id, query, user_id, position, clicked, ts)`

const insertEventValues = ` VALUES (?, ?, ?, ?, ?, ?)`

const topQueriesQuery = `
	SELECT
		query,
		countIf(clicked = 1) AS clicks,
		count() AS impressions,
		if(impressions = 0, 0, round(clicks * 100 / impressions, 1)) AS ctr,
		round(avg(position), 1) AS position
	FROM search_events
	WHERE ts >= ? AND ts < ? AND (? = '' OR positionCaseInsensitiveUTF8(query, ?) > 0)
	GROUP BY query
	ORDER BY clicks DESC, query ASC
	LIMIT ?
`

const timeSeriesQuery = `
	SELECT
		toDate(ts) AS day,
		countIf(clicked = 1) AS clicks,
		count() AS impressions
	FROM search_events
	WHERE ts >= ? AND ts < ? AND (? = '' OR positionCaseInsensitiveUTF8(query, ?) > 0)
	GROUP BY day
	ORDER BY day
`

type topQueryRow struct {
	Query       string  `ch:"query"`
	Clicks      uint64  `ch:"clicks"`
	Impressions uint64  `ch:"impressions"`
	CTR         float64 `ch:"ctr"`
	Position    float64 `ch:"position"`
}

type timeSeriesRow struct {
	Day         time.Time `ch:"day"`
	Clicks      uint64    `ch:"clicks"`
	Impressions uint64    `ch:"impressions"`
}

func (r *searchEventRepository) Create(ctx context.Context, event model.SearchEvent) error {
	return r.conn.Exec(ctx, insertEventQuery+insertEventValues,
		event.ID,
		event.Query,
		event.UserID,
		event.Position,
		boolToUInt8(event.Clicked),
		event.Timestamp,
	)
}

func (r *searchEventRepository) CreateBatch(ctx context.Context, events []model.SearchEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertEventQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, event := range events {
		if err := batch.Append(
			event.ID,
			event.Query,
			event.UserID,
			event.Position,
			boolToUInt8(event.Clicked),
			event.Timestamp,
		); err != nil {
			return fmt.Errorf("append batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// FetchAnalytics aggregates impressions into top queries and a daily series.
// The series is zero-filled so it holds exactly one point per day.
func (r *searchEventRepository) FetchAnalytics(ctx context.Context, params model.QueryParams) (model.AnalyticsPayload, error) {
	start, err := model.ParseDate(params.StartDate)
	if err != nil {
		return model.AnalyticsPayload{}, err
	}
	end, err := model.ParseDate(params.EndDate)
	if err != nil {
		return model.AnalyticsPayload{}, err
	}
	until := end.AddDate(0, 0, 1)

	var queries []topQueryRow
	if err := r.conn.Select(ctx, &queries, topQueriesQuery,
		start, until, params.QueryFilter, params.QueryFilter, r.limit,
	); err != nil {
		return model.AnalyticsPayload{}, fmt.Errorf("select top queries: %w", err)
	}

	var days []timeSeriesRow
	if err := r.conn.Select(ctx, &days, timeSeriesQuery,
		start, until, params.QueryFilter, params.QueryFilter,
	); err != nil {
		return model.AnalyticsPayload{}, fmt.Errorf("select time series: %w", err)
	}

	payload := model.AnalyticsPayload{
		TopQueries: make([]model.QueryRecord, 0, len(queries)),
		TimeSeries: fillTimeSeries(start, end, days),
	}
	for _, row := range queries {
		payload.TopQueries = append(payload.TopQueries, model.QueryRecord{
			Query:       row.Query,
			Clicks:      int64(row.Clicks),
			Impressions: int64(row.Impressions),
			CTR:         row.CTR,
			Position:    row.Position,
		})
	}
	return payload, nil
}

// fillTimeSeries emits one point per day in [start, end], using zero for days
// with no rows.
func fillTimeSeries(start, end time.Time, rows []timeSeriesRow) []model.TimeSeriesPoint {
	byDay := make(map[string]timeSeriesRow, len(rows))
	for _, row := range rows {
		byDay[model.FormatDate(row.Day)] = row
	}

	dates := model.DateRange(start, end)
	points := make([]model.TimeSeriesPoint, 0, len(dates))
	for _, date := range dates {
		row := byDay[date]
		points = append(points, model.TimeSeriesPoint{
			Date:        date,
			Clicks:      int64(row.Clicks),
			Impressions: int64(row.Impressions),
		})
	}
	return points
}

func boolToUInt8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
