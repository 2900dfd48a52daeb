package dashboard

import (
	"fmt"
	"math"
	"strings"

	"search-analytics-service/internal/model"
)

const (
	overviewChartSize  = 8
	pieLabelMaxRunes   = 20
	clicksLineColor    = "#3B82F6"
	impressionsColor   = "#10B981"
	chartWidth         = 600.0
	chartHeight        = 300.0
	chartPadding       = 40.0
	pieRadius          = 80.0
	pieCenterX         = 150.0
	pieCenterY         = 150.0
	fullCircleFraction = 0.9999
)

// Bar is one bar of the "Top Queries by Clicks" chart, already laid out in
// SVG user units.
type Bar struct {
	Query  string  `json:"query"`
	Clicks int64   `json:"clicks"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PieSlice is one wedge of the "Clicks Distribution" chart.
type PieSlice struct {
	Name    string `json:"name"`
	Value   int64  `json:"value"`
	Percent int    `json:"percent"`
	Color   string `json:"color"`
	Path    string `json:"path"`
}

type OverviewChartData struct {
	Bars   []Bar      `json:"bars"`
	Slices []PieSlice `json:"slices"`
}

// OverviewCharts projects the first eight records into a bar and a pie chart.
func OverviewCharts(records []model.QueryRecord) OverviewChartData {
	top := records
	if len(top) > overviewChartSize {
		top = top[:overviewChartSize]
	}

	var total, peak int64
	for _, record := range top {
		total += record.Clicks
		if record.Clicks > peak {
			peak = record.Clicks
		}
	}

	data := OverviewChartData{
		Bars:   make([]Bar, 0, len(top)),
		Slices: make([]PieSlice, 0, len(top)),
	}

	plotHeight := chartHeight - 2*chartPadding
	slot := 0.0
	if len(top) > 0 {
		slot = (chartWidth - 2*chartPadding) / float64(len(top))
	}

	angle := 0.0
	for i, record := range top {
		height := 0.0
		if peak > 0 {
			height = plotHeight * float64(record.Clicks) / float64(peak)
		}
		data.Bars = append(data.Bars, Bar{
			Query:  record.Query,
			Clicks: record.Clicks,
			X:      chartPadding + float64(i)*slot + slot*0.1,
			Y:      chartHeight - chartPadding - height,
			Width:  slot * 0.8,
			Height: height,
		})

		share := 0.0
		if total > 0 {
			share = float64(record.Clicks) / float64(total)
		}
		data.Slices = append(data.Slices, PieSlice{
			Name:    TruncateLabel(record.Query),
			Value:   record.Clicks,
			Percent: int(math.Round(share * 100)),
			Color:   fmt.Sprintf("hsl(%d, 70%%, 60%%)", i*45),
			Path:    arcPath(angle, share),
		})
		angle += share * 2 * math.Pi
	}
	return data
}

// TruncateLabel shortens names longer than twenty characters.
func TruncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= pieLabelMaxRunes {
		return name
	}
	return string(runes[:pieLabelMaxRunes]) + "..."
}

func arcPath(start, share float64) string {
	if share <= 0 {
		return ""
	}
	if share >= fullCircleFraction {
		share = fullCircleFraction
	}
	end := start + share*2*math.Pi

	x1 := pieCenterX + pieRadius*math.Sin(start)
	y1 := pieCenterY - pieRadius*math.Cos(start)
	x2 := pieCenterX + pieRadius*math.Sin(end)
	y2 := pieCenterY - pieRadius*math.Cos(end)

	largeArc := 0
	if share > 0.5 {
		largeArc = 1
	}
	return fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.0f %.0f 0 %d 1 %.2f %.2f Z",
		pieCenterX, pieCenterY, x1, y1, pieRadius, pieRadius, largeArc, x2, y2)
}

// LineSeries is one polyline of the detail chart.
type LineSeries struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points string  `json:"points"`
	Values []int64 `json:"values"`
}

type DetailChartData struct {
	Title  string       `json:"title"`
	Dates  []string     `json:"dates"`
	Series []LineSeries `json:"series"`
	Max    int64        `json:"max"`
}

// DetailChart plots the daily clicks and impressions for the selected query.
func DetailChart(series []model.TimeSeriesPoint, selected model.QueryRecord) DetailChartData {
	dates := make([]string, 0, len(series))
	clicks := make([]int64, 0, len(series))
	impressions := make([]int64, 0, len(series))

	var peak int64
	for _, point := range series {
		dates = append(dates, point.Date)
		clicks = append(clicks, point.Clicks)
		impressions = append(impressions, point.Impressions)
		if point.Clicks > peak {
			peak = point.Clicks
		}
		if point.Impressions > peak {
			peak = point.Impressions
		}
	}

	return DetailChartData{
		Title: fmt.Sprintf("Performance for \"%s\"", selected.Query),
		Dates: dates,
		Max:   peak,
		Series: []LineSeries{
			{Name: "clicks", Color: clicksLineColor, Values: clicks, Points: polyline(clicks, peak)},
			{Name: "impressions", Color: impressionsColor, Values: impressions, Points: polyline(impressions, peak)},
		},
	}
}

func polyline(values []int64, peak int64) string {
	if len(values) == 0 {
		return ""
	}

	plotWidth := chartWidth - 2*chartPadding
	plotHeight := chartHeight - 2*chartPadding
	step := 0.0
	if len(values) > 1 {
		step = plotWidth / float64(len(values)-1)
	}

	var b strings.Builder
	for i, v := range values {
		y := chartHeight - chartPadding
		if peak > 0 {
			y -= plotHeight * float64(v) / float64(peak)
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", chartPadding+float64(i)*step, y)
	}
	return b.String()
}
