package dashboard

import "search-analytics-service/internal/model"

// TabView is one navigation button.
type TabView struct {
	Kind   TabKind `json:"kind"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// ViewModel is everything one render needs. When Loading is set only the
// loading indicator is shown; when Error is set only the error panel is.
type ViewModel struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`

	Params     model.QueryParams `json:"params"`
	Filter     string            `json:"filter"`
	HasData    bool              `json:"hasData"`
	Cards      []MetricCard      `json:"cards,omitempty"`
	Summary    Summary           `json:"summary"`
	Tabs       []TabView         `json:"tabs"`
	ActiveTab  TabKind           `json:"activeTab"`
	Content    TabContent        `json:"content,omitempty"`
	CanExport  bool              `json:"canExport"`
	ExportName string            `json:"exportName"`
	Notice     *Notice           `json:"notice,omitempty"`
}

// View builds the current view model. A pending notice is consumed.
func (d *Dashboard) View() ViewModel {
	state := d.loader.State()

	d.mu.Lock()
	params := d.params
	tab := d.tab
	var selected *model.QueryRecord
	if d.selected != nil {
		record := *d.selected
		selected = &record
	}
	notice := d.notice
	d.notice = nil
	d.mu.Unlock()

	vm := ViewModel{Params: params, Notice: notice}
	if state.Loading {
		vm.Loading = true
		return vm
	}
	if state.Error != "" {
		vm.Error = state.Error
		return vm
	}

	vm.Filter = d.filter.Value()
	vm.ActiveTab = tab
	vm.ExportName = ExportFileName(params.StartDate, params.EndDate)
	for _, kind := range Tabs {
		vm.Tabs = append(vm.Tabs, TabView{Kind: kind, Label: kind.Label(), Active: kind == tab})
	}

	if state.Data == nil {
		return vm
	}
	data := state.Data

	vm.HasData = true
	vm.CanExport = len(data.TopQueries) > 0
	vm.Summary = Summarize(data.TopQueries)
	vm.Cards = MetricCards(vm.Summary)

	switch tab {
	case TabTable:
		vm.Content = TableContent{
			Filter:  vm.Filter,
			Columns: d.table.Columns(),
			Rows:    d.table.Rows(data.TopQueries, selected),
		}
	case TabDetails:
		if selected == nil {
			vm.Content = emptyDetails()
		} else {
			vm.Content = DetailsContent{
				Selected: *selected,
				Chart:    DetailChart(data.TimeSeries, *selected),
			}
		}
	default:
		vm.Content = OverviewContent{Charts: OverviewCharts(data.TopQueries)}
	}
	return vm
}

// Overview returns the overview content, or nil when another tab is active.
func (vm ViewModel) Overview() *OverviewContent {
	if c, ok := vm.Content.(OverviewContent); ok {
		return &c
	}
	return nil
}

func (vm ViewModel) Table() *TableContent {
	if c, ok := vm.Content.(TableContent); ok {
		return &c
	}
	return nil
}

func (vm ViewModel) Details() *DetailsContent {
	if c, ok := vm.Content.(DetailsContent); ok {
		return &c
	}
	return nil
}

func (vm ViewModel) EmptyDetails() *EmptyDetailsContent {
	if c, ok := vm.Content.(EmptyDetailsContent); ok {
		return &c
	}
	return nil
}
