package dashboard

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"search-analytics-service/internal/model"
)

var displayLanguage = language.English

// SortableTable holds the table's display order. It never owns the records
// it renders.
type SortableTable struct {
	mu        sync.Mutex
	field     model.SortField
	direction model.SortDirection
	collator  *collate.Collator
}

// TableRow is one rendered row.
type TableRow struct {
	Record      model.QueryRecord
	Selected    bool
	Clicks      string
	Impressions string
	CTR         string
	Position    string
}

// TableColumn is one header cell.
type TableColumn struct {
	Field     model.SortField
	Label     string
	Indicator string
	Active    bool
}

var columnLabels = map[model.SortField]string{
	model.SortFieldQuery:       "Query",
	model.SortFieldClicks:      "Clicks",
	model.SortFieldImpressions: "Impressions",
	model.SortFieldCTR:         "CTR",
	model.SortFieldPosition:    "Position",
}

func NewSortableTable() *SortableTable {
	return &SortableTable{
		field:     model.SortFieldClicks,
		direction: model.SortDescending,
		collator:  collate.New(displayLanguage),
	}
}

// ToggleSort handles a header click: the active column flips direction,
// any other column becomes active in descending order.
func (t *SortableTable) ToggleSort(field model.SortField) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if field == t.field {
		t.direction = t.direction.Flip()
		return
	}
	t.field = field
	t.direction = model.SortDescending
}

func (t *SortableTable) SortState() (model.SortField, model.SortDirection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.field, t.direction
}

// Sort returns a sorted copy of records. Equal records keep their input order.
func (t *SortableTable) Sort(records []model.QueryRecord) []model.QueryRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.QueryRecord) int {
		c := t.compare(a, b)
		if t.direction == model.SortDescending {
			return -c
		}
		return c
	})
	return sorted
}

func (t *SortableTable) compare(a, b model.QueryRecord) int {
	switch t.field {
	case model.SortFieldQuery:
		return t.collator.CompareString(a.Query, b.Query)
	case model.SortFieldImpressions:
		return cmp.Compare(a.Impressions, b.Impressions)
	case model.SortFieldCTR:
		return cmp.Compare(a.CTR, b.CTR)
	case model.SortFieldPosition:
		return cmp.Compare(a.Position, b.Position)
	default:
		return cmp.Compare(a.Clicks, b.Clicks)
	}
}

// Rows sorts records and marks the one whose query text matches selected.
func (t *SortableTable) Rows(records []model.QueryRecord, selected *model.QueryRecord) []TableRow {
	sorted := t.Sort(records)

	rows := make([]TableRow, 0, len(sorted))
	for _, record := range sorted {
		rows = append(rows, TableRow{
			Record:      record,
			Selected:    selected != nil && selected.Query == record.Query,
			Clicks:      FormatCount(record.Clicks),
			Impressions: FormatCount(record.Impressions),
			CTR:         FormatPercent(record.CTR),
			Position:    FormatPosition(record.Position),
		})
	}
	return rows
}

// Columns describes the header cells in display order.
func (t *SortableTable) Columns() []TableColumn {
	active, _ := t.SortState()
	columns := make([]TableColumn, 0, len(model.SortFields))
	for _, field := range model.SortFields {
		columns = append(columns, TableColumn{
			Field:     field,
			Label:     columnLabels[field],
			Indicator: t.SortIndicator(field),
			Active:    active == field,
		})
	}
	return columns
}

// SortIndicator is the arrow shown next to a column header.
func (t *SortableTable) SortIndicator(field model.SortField) string {
	active, direction := t.SortState()
	switch {
	case active != field:
		return "↕"
	case direction == model.SortAscending:
		return "↑"
	default:
		return "↓"
	}
}

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return message.NewPrinter(displayLanguage).Sprintf("%d", n)
}

func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func FormatPosition(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
