package dashboard

import (
	"strconv"

	"hermannm.dev/enumnames"

	"search-analytics-service/internal/model"
)

type TabKind int8

const (
	TabOverview TabKind = iota + 1
	TabTable
	TabDetails
)

var tabNames = enumnames.NewMap(map[TabKind]string{
	TabOverview: "overview",
	TabTable:    "table",
	TabDetails:  "details",
})

var tabLabels = map[TabKind]string{
	TabOverview: "Overview",
	TabTable:    "Query Table",
	TabDetails:  "Query Details",
}

// Tabs lists the tabs in navigation order.
var Tabs = []TabKind{TabOverview, TabTable, TabDetails}

func (kind TabKind) String() string {
	return tabNames.GetNameOrFallback(kind, "INVALID_TAB")
}

func (kind TabKind) Label() string {
	return tabLabels[kind]
}

func (kind TabKind) IsValid() bool {
	_, ok := tabLabels[kind]
	return ok
}

func (kind TabKind) MarshalJSON() ([]byte, error) {
	return tabNames.MarshalToNameJSON(kind)
}

func (kind *TabKind) UnmarshalJSON(bytes []byte) error {
	return tabNames.UnmarshalFromNameJSON(bytes, kind)
}

// ParseTab maps a tab name such as "details" to its TabKind.
func ParseTab(name string) (TabKind, bool) {
	var kind TabKind
	if err := kind.UnmarshalJSON([]byte(strconv.Quote(name))); err != nil {
		return 0, false
	}
	return kind, kind.IsValid()
}

// TabContent is what the active tab renders. Exactly one of the concrete
// types below is returned for each tab.
type TabContent interface {
	Kind() TabKind
}

type OverviewContent struct {
	Charts OverviewChartData `json:"charts"`
}

type TableContent struct {
	Filter  string        `json:"filter"`
	Columns []TableColumn `json:"columns"`
	Rows    []TableRow    `json:"rows"`
}

// DetailsContent is the details tab with a selected query.
type DetailsContent struct {
	Selected model.QueryRecord `json:"selected"`
	Chart    DetailChartData   `json:"chart"`
}

// EmptyDetailsContent is the details tab before any query is selected.
type EmptyDetailsContent struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ReturnTab   TabKind `json:"returnTab"`
}

func (OverviewContent) Kind() TabKind     { return TabOverview }
func (TableContent) Kind() TabKind        { return TabTable }
func (DetailsContent) Kind() TabKind      { return TabDetails }
func (EmptyDetailsContent) Kind() TabKind { return TabDetails }

func emptyDetails() EmptyDetailsContent {
	return EmptyDetailsContent{
		Title:       "No Query Selected",
		Description: "Select a query from the table to view detailed performance metrics.",
		ReturnTab:   TabTable,
	}
}
