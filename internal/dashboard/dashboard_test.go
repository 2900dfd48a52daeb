package dashboard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"search-analytics-service/internal/model"
	"search-analytics-service/internal/service"
)

// stubLoader records loads and serves whatever state the test sets.
type stubLoader struct {
	mu      sync.Mutex
	state   service.LoaderState
	loads   []model.QueryParams
	reloads int
}

func (l *stubLoader) Load(params model.QueryParams) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads = append(l.loads, params)
	l.state.Params = params
	return uint64(len(l.loads))
}

func (l *stubLoader) Reload() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reloads++
	return uint64(len(l.loads) + l.reloads)
}

func (l *stubLoader) State() service.LoaderState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *stubLoader) set(state service.LoaderState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = state
}

func (l *stubLoader) loaded() []model.QueryParams {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.QueryParams(nil), l.loads...)
}

// gatedLoader holds its first Load until gate is closed.
type gatedLoader struct {
	stubLoader
	once    sync.Once
	entered chan struct{}
	gate    chan struct{}
}

func newGatedLoader(state service.LoaderState) *gatedLoader {
	return &gatedLoader{
		stubLoader: stubLoader{state: state},
		entered:    make(chan struct{}),
		gate:       make(chan struct{}),
	}
}

func (l *gatedLoader) Load(params model.QueryParams) uint64 {
	first := false
	l.once.Do(func() { first = true })
	if first {
		close(l.entered)
		<-l.gate
	}
	return l.stubLoader.Load(params)
}

var initialParams = model.QueryParams{StartDate: "2024-01-01", EndDate: "2024-01-31"}

var dashboardPayload = &model.AnalyticsPayload{
	TopQueries: []model.QueryRecord{
		{Query: "react typescript tutorial", Clicks: 1250, Impressions: 15420, CTR: 8.1, Position: 2.3},
		{Query: "graphql best practices", Clicks: 980, Impressions: 12350, CTR: 7.9, Position: 3.1},
		{Query: "css grid layout", Clicks: 480, Impressions: 7200, CTR: 6.7, Position: 4.1},
	},
	TimeSeries: []model.TimeSeriesPoint{
		{Date: "2024-01-01", Clicks: 100, Impressions: 400},
		{Date: "2024-01-02", Clicks: 150, Impressions: 500},
	},
}

type DashboardTestSuite struct {
	suite.Suite

	loader    *stubLoader
	dashboard *Dashboard
}

func TestDashboardSuite(t *testing.T) {
	suite.Run(t, new(DashboardTestSuite))
}

func (s *DashboardTestSuite) SetupTest() {
	s.loader = &stubLoader{state: service.LoaderState{Data: dashboardPayload, Params: initialParams}}
	s.dashboard = New(s.loader, initialParams, Settings{Debounce: testDebounce, MaxRangeDays: service.DefaultMaxRangeDays}, zap.NewNop())
}

func (s *DashboardTestSuite) TearDownTest() {
	s.dashboard.Close()
}

func (s *DashboardTestSuite) TestStartLoadsInitialParams() {
	s.dashboard.Start()
	s.Equal([]model.QueryParams{{StartDate: "2024-01-01", EndDate: "2024-01-31"}}, s.loader.loaded())
	s.Equal(TabOverview, s.dashboard.ActiveTab())
}

func (s *DashboardTestSuite) TestView_LoadingShowsOnlyIndicator() {
	s.loader.set(service.LoaderState{Loading: true, Data: dashboardPayload})

	vm := s.dashboard.View()
	s.True(vm.Loading)
	s.Nil(vm.Content)
	s.Empty(vm.Cards)
	s.Empty(vm.Tabs)
}

func (s *DashboardTestSuite) TestView_ErrorShowsOnlyErrorPanel() {
	s.loader.set(service.LoaderState{Error: "analytics fetch failed: boom", Data: dashboardPayload})

	vm := s.dashboard.View()
	s.False(vm.Loading)
	s.Equal("analytics fetch failed: boom", vm.Error)
	s.Nil(vm.Content)
	s.Empty(vm.Cards)
}

func (s *DashboardTestSuite) TestView_OverviewRendersCharts() {
	vm := s.dashboard.View()

	s.True(vm.HasData)
	s.True(vm.CanExport)
	s.Len(vm.Cards, 4)
	s.Equal(int64(2710), vm.Summary.Clicks)
	s.Len(vm.Tabs, 3)
	s.True(vm.Tabs[0].Active)

	content, ok := vm.Content.(OverviewContent)
	s.Require().True(ok)
	s.Len(content.Charts.Bars, 3)
}

func (s *DashboardTestSuite) TestSelectQuery_OpensDetailsAndHighlightsRow() {
	s.Require().NoError(s.dashboard.SelectQuery("graphql best practices"))
	s.Equal(TabDetails, s.dashboard.ActiveTab())

	details, ok := s.dashboard.View().Content.(DetailsContent)
	s.Require().True(ok)
	s.Equal("graphql best practices", details.Selected.Query)
	s.Equal(`Performance for "graphql best practices"`, details.Chart.Title)

	s.dashboard.SetTab(TabTable)
	table, ok := s.dashboard.View().Content.(TableContent)
	s.Require().True(ok)
	for _, row := range table.Rows {
		s.Equal(row.Record.Query == "graphql best practices", row.Selected, row.Record.Query)
	}
}

func (s *DashboardTestSuite) TestSelectQuery_Unknown() {
	s.ErrorIs(s.dashboard.SelectQuery("rust"), ErrUnknownQuery)
	s.Equal(TabOverview, s.dashboard.ActiveTab())

	s.loader.set(service.LoaderState{Loading: true})
	s.ErrorIs(s.dashboard.SelectQuery("graphql best practices"), ErrUnknownQuery)
}

func (s *DashboardTestSuite) TestSelectQuery_RejectsResultsForOtherParams() {
	s.Require().NoError(s.dashboard.SetDateRange("2024-02-01", "2024-02-29"))

	s.loader.set(service.LoaderState{Data: dashboardPayload, Params: initialParams})
	s.ErrorIs(s.dashboard.SelectQuery("css grid layout"), ErrUnknownQuery)

	s.loader.set(service.LoaderState{Data: dashboardPayload, Params: s.dashboard.Params(), Loading: true})
	s.ErrorIs(s.dashboard.SelectQuery("css grid layout"), ErrUnknownQuery)

	_, selected := s.dashboard.Selected()
	s.False(selected)
	s.Equal(TabOverview, s.dashboard.ActiveTab())

	s.loader.set(service.LoaderState{Data: dashboardPayload, Params: s.dashboard.Params()})
	s.NoError(s.dashboard.SelectQuery("css grid layout"))
}

func (s *DashboardTestSuite) TestDateRangeChangeClearsSelectionKeepsTab() {
	s.Require().NoError(s.dashboard.SelectQuery("css grid layout"))

	s.Require().NoError(s.dashboard.SetDateRange("2024-02-01", "2024-02-29"))

	_, selected := s.dashboard.Selected()
	s.False(selected)
	s.Equal(TabDetails, s.dashboard.ActiveTab())
	s.Equal([]model.QueryParams{{StartDate: "2024-02-01", EndDate: "2024-02-29"}}, s.loader.loaded())

	empty, ok := s.dashboard.View().Content.(EmptyDetailsContent)
	s.Require().True(ok)
	s.Equal("No Query Selected", empty.Title)
	s.Equal(TabTable, empty.ReturnTab)
}

func (s *DashboardTestSuite) TestSingleDateChangesKeepOtherBound() {
	s.Require().NoError(s.dashboard.SetStartDate("2024-01-10"))
	s.Require().NoError(s.dashboard.SetEndDate("2024-01-20"))

	s.Equal([]model.QueryParams{
		{StartDate: "2024-01-10", EndDate: "2024-01-31"},
		{StartDate: "2024-01-10", EndDate: "2024-01-20"},
	}, s.loader.loaded())
}

func (s *DashboardTestSuite) TestInvalidDateRangeRejected() {
	s.Require().NoError(s.dashboard.SelectQuery("css grid layout"))

	err := s.dashboard.SetDateRange("2024-02-10", "2024-02-01")
	var validationErr *service.ValidationError
	s.ErrorAs(err, &validationErr)

	s.Empty(s.loader.loaded())
	_, selected := s.dashboard.Selected()
	s.True(selected, "rejected range keeps selection")
	s.Equal("2024-01-01", s.dashboard.Params().StartDate)

	vm := s.dashboard.View()
	s.Require().NotNil(vm.Notice)
	s.Equal(NoticeError, vm.Notice.Kind)
}

func (s *DashboardTestSuite) TestDateRangeSpanIsCapped() {
	err := s.dashboard.SetDateRange("0001-01-01", "9999-12-31")
	s.ErrorContains(err, "must not exceed 366 days")
	s.Empty(s.loader.loaded())
	s.Equal(initialParams, s.dashboard.Params())

	s.NoError(s.dashboard.SetDateRange("2024-01-01", "2024-12-31"))
}

func (s *DashboardTestSuite) TestSetTabKeepsSelection() {
	s.Require().NoError(s.dashboard.SelectQuery("css grid layout"))

	s.dashboard.SetTab(TabOverview)
	record, ok := s.dashboard.Selected()
	s.True(ok)
	s.Equal("css grid layout", record.Query)
	s.Empty(s.loader.loaded())
}

func (s *DashboardTestSuite) TestFilterInputIsDebouncedIntoOneLoad() {
	s.dashboard.FilterInput("g")
	s.dashboard.FilterInput("gr")
	s.dashboard.FilterInput("graph")

	s.Equal("graph", s.dashboard.View().Filter)
	s.Eventually(func() bool { return len(s.loader.loaded()) == 1 }, time.Second, time.Millisecond)
	s.Never(func() bool { return len(s.loader.loaded()) > 1 }, 5*testDebounce, testDebounce)

	s.Equal("graph", s.loader.loaded()[0].QueryFilter)
	s.Equal("graph", s.dashboard.Params().QueryFilter)
}

func (s *DashboardTestSuite) TestLoadsFollowParamsOrderAcrossGoroutines() {
	loader := newGatedLoader(service.LoaderState{Data: dashboardPayload, Params: initialParams})
	board := New(loader, initialParams, Settings{Debounce: testDebounce}, zap.NewNop())
	defer board.Close()

	done := make(chan error, 1)
	go func() { done <- board.SetDateRange("2024-03-01", "2024-03-31") }()
	<-loader.entered

	board.FilterInput("react")
	s.Never(func() bool { return len(loader.loaded()) > 0 }, 5*testDebounce, testDebounce,
		"filter load must wait for the date range load")

	close(loader.gate)
	s.Require().NoError(<-done)
	s.Eventually(func() bool { return len(loader.loaded()) == 2 }, time.Second, time.Millisecond)

	loads := loader.loaded()
	want := model.QueryParams{StartDate: "2024-03-01", EndDate: "2024-03-31", QueryFilter: "react"}
	s.Equal(want, board.Params())
	s.Equal(want, loads[len(loads)-1])
	s.Equal(model.QueryParams{StartDate: "2024-03-01", EndDate: "2024-03-31"}, loads[0])
}

func (s *DashboardTestSuite) TestToggleSortReflectedInTable() {
	s.dashboard.SetTab(TabTable)
	s.dashboard.ToggleSort(model.SortFieldQuery)

	table, ok := s.dashboard.View().Content.(TableContent)
	s.Require().True(ok)
	s.Equal("react typescript tutorial", table.Rows[0].Record.Query)
	s.Equal("↓", table.Columns[0].Indicator)
}

func (s *DashboardTestSuite) TestRetryReloads() {
	s.dashboard.Retry()
	s.Equal(1, s.loader.reloads)
}

func (s *DashboardTestSuite) TestExportSuccessNoticeShownOnce() {
	content, name, err := s.dashboard.Export()
	s.Require().NoError(err)
	s.Equal("search-analytics-2024-01-01-to-2024-01-31.csv", name)
	s.Contains(string(content), "graphql best practices,980,12350,7.9,3.1")

	vm := s.dashboard.View()
	s.Require().NotNil(vm.Notice)
	s.Equal(Notice{Kind: NoticeSuccess, Message: "CSV downloaded successfully!"}, *vm.Notice)
	s.Nil(s.dashboard.View().Notice)
}

func (s *DashboardTestSuite) TestExportWithoutRecordsFails() {
	s.loader.set(service.LoaderState{Data: &model.AnalyticsPayload{}})

	_, _, err := s.dashboard.Export()
	s.ErrorIs(err, ErrNoRecords)

	vm := s.dashboard.View()
	s.False(vm.CanExport)
	s.Require().NotNil(vm.Notice)
	s.Equal("Error downloading CSV: no records to export", vm.Notice.Message)
}
