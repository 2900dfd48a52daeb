package dashboard

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"search-analytics-service/internal/model"
)

const noDataCSV = "No data available"

var ErrNoRecords = errors.New("no records to export")

var csvHeader = []string{"query", "clicks", "impressions", "ctr", "position"}

// ExportCSV renders records with a header row. Fields containing a comma or a
// double quote are quoted with inner quotes doubled.
func ExportCSV(records []model.QueryRecord) ([]byte, error) {
	if len(records) == 0 {
		return []byte(noDataCSV), nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.Query,
			strconv.FormatInt(record.Clicks, 10),
			strconv.FormatInt(record.Impressions, 10),
			strconv.FormatFloat(record.CTR, 'f', -1, 64),
			strconv.FormatFloat(record.Position, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %q: %w", record.Query, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ExportFileName is the download name for a date range.
func ExportFileName(startDate, endDate string) string {
	return fmt.Sprintf("search-analytics-%s-to-%s.csv", startDate, endDate)
}
