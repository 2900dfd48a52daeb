package dashboard

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"hermannm.dev/wrap"

	"search-analytics-service/internal/metrics"
	"search-analytics-service/internal/model"
	"search-analytics-service/internal/service"
)

// Loader is the part of service.AnalyticsLoader the dashboard drives.
type Loader interface {
	Load(params model.QueryParams) uint64
	Reload() uint64
	State() service.LoaderState
}

var ErrUnknownQuery = errors.New("query not found in current results")

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-shot message shown on the next render only.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Dashboard owns the top-level session state: query params, selection and
// active tab. Data flows in from the loader; user actions flow in through
// the methods below.
type Dashboard struct {
	loader       Loader
	table        *SortableTable
	filter       *SearchFilter
	maxRangeDays int
	log          *zap.Logger

	// dispatchMu orders params updates and their Load calls identically.
	dispatchMu sync.Mutex

	mu       sync.Mutex
	params   model.QueryParams
	selected *model.QueryRecord
	tab      TabKind
	notice   *Notice
}

// Settings tunes a Dashboard. A zero MaxRangeDays leaves ranges uncapped.
type Settings struct {
	Debounce     time.Duration
	MaxRangeDays int
}

func New(loader Loader, params model.QueryParams, settings Settings, log *zap.Logger) *Dashboard {
	d := &Dashboard{
		loader:       loader,
		table:        NewSortableTable(),
		maxRangeDays: settings.MaxRangeDays,
		log:          log,
		params:       params,
		tab:          TabOverview,
	}
	d.filter = NewSearchFilter(params.QueryFilter, settings.Debounce, d.applyFilter)
	return d
}

// Start issues the first fetch.
func (d *Dashboard) Start() {
	d.dispatchMu.Lock()
	defer d.dispatchMu.Unlock()
	d.loader.Load(d.Params())
}

// Close stops the pending filter notification, if any.
func (d *Dashboard) Close() {
	d.filter.Stop()
}

func (d *Dashboard) Params() model.QueryParams {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params
}

func (d *Dashboard) ActiveTab() TabKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tab
}

func (d *Dashboard) Selected() (model.QueryRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		return model.QueryRecord{}, false
	}
	return *d.selected, true
}

// SelectQuery selects the row with the given query text and opens the
// details tab. Only settled results for the current params are selectable.
func (d *Dashboard) SelectQuery(query string) error {
	d.dispatchMu.Lock()
	defer d.dispatchMu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	state := d.loader.State()
	if state.Data == nil || state.Loading || state.Params != d.params {
		return ErrUnknownQuery
	}
	record, ok := state.Data.FindQuery(query)
	if !ok {
		return ErrUnknownQuery
	}

	d.selected = &record
	d.tab = TabDetails
	return nil
}

// SetDateRange applies a new range, drops the selection and refetches.
// The active tab is kept.
func (d *Dashboard) SetDateRange(start, end string) error {
	return d.updateRange(func(p *model.QueryParams) {
		p.StartDate = start
		p.EndDate = end
	})
}

func (d *Dashboard) SetStartDate(start string) error {
	return d.updateRange(func(p *model.QueryParams) { p.StartDate = start })
}

func (d *Dashboard) SetEndDate(end string) error {
	return d.updateRange(func(p *model.QueryParams) { p.EndDate = end })
}

func (d *Dashboard) updateRange(apply func(*model.QueryParams)) error {
	d.dispatchMu.Lock()
	defer d.dispatchMu.Unlock()

	d.mu.Lock()
	params := d.params
	apply(&params)
	if err := service.ValidateParams(params, d.maxRangeDays); err != nil {
		d.notice = &Notice{Kind: NoticeError, Message: "Invalid date range: " + err.Error()}
		d.mu.Unlock()
		return err
	}
	d.params = params
	d.selected = nil
	d.mu.Unlock()

	d.loader.Load(params)
	return nil
}

// SetTab switches tabs without touching the selection.
func (d *Dashboard) SetTab(kind TabKind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tab = kind
}

// FilterInput forwards a keystroke to the debounced filter box.
func (d *Dashboard) FilterInput(value string) {
	d.filter.Input(value)
}

func (d *Dashboard) applyFilter(value string) {
	d.dispatchMu.Lock()
	defer d.dispatchMu.Unlock()

	d.mu.Lock()
	d.params.QueryFilter = value
	params := d.params
	d.mu.Unlock()

	d.filter.Sync(value)
	d.log.Debug("query filter changed", zap.String("filter", value))
	d.loader.Load(params)
}

func (d *Dashboard) ToggleSort(field model.SortField) {
	d.table.ToggleSort(field)
}

// Retry refetches the current params.
func (d *Dashboard) Retry() {
	d.dispatchMu.Lock()
	defer d.dispatchMu.Unlock()
	d.loader.Reload()
}

// Export renders the current top queries as CSV and records the outcome as
// a notice. It never touches loader state.
func (d *Dashboard) Export() ([]byte, string, error) {
	state := d.loader.State()
	params := d.Params()

	var records []model.QueryRecord
	if state.Data != nil {
		records = state.Data.TopQueries
	}

	content, err := exportRecords(records)
	if err != nil {
		metrics.CSVExportsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		d.setNotice(NoticeError, "Error downloading CSV: "+err.Error())
		d.log.Warn("csv export failed", zap.Error(err))
		return nil, "", err
	}

	metrics.CSVExportsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	d.setNotice(NoticeSuccess, "CSV downloaded successfully!")
	return content, ExportFileName(params.StartDate, params.EndDate), nil
}

func exportRecords(records []model.QueryRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	content, err := ExportCSV(records)
	if err != nil {
		return nil, wrap.Error(err, "csv export")
	}
	return content, nil
}

func (d *Dashboard) setNotice(kind NoticeKind, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notice = &Notice{Kind: kind, Message: message}
}
