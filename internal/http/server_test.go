package http

import (
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"search-analytics-service/internal/config"
	"search-analytics-service/internal/controller"
	"search-analytics-service/internal/dashboard"
	"search-analytics-service/internal/model"
	"search-analytics-service/internal/routes"
	"search-analytics-service/internal/service"
	"search-analytics-service/internal/testdata/mockloader"
	mockservice "search-analytics-service/internal/testdata/mockservice"
	"search-analytics-service/internal/view"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type ServerTestSuite struct {
	suite.Suite
	server    *Server
	analytics *mockservice.AnalyticsService
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) newServer(events controller.EventController) {
	s.analytics = &mockservice.AnalyticsService{}
	loader := &mockloader.Loader{}
	loader.On("State").Return(service.LoaderState{Loading: true})

	renderer, err := view.NewRenderer()
	s.Require().NoError(err)
	board := dashboard.New(loader, model.QueryParams{StartDate: "2024-01-01", EndDate: "2024-01-31"}, dashboard.Settings{}, zap.NewNop())

	s.server = NewServer(&config.Config{}, routes.Controllers{
		Analytics: controller.NewAnalyticsController(s.analytics),
		Dashboard: controller.NewDashboardController(board, renderer, zap.NewNop()),
		Events:    events,
	})
}

func (s *ServerTestSuite) do(method, target string) *nethttp.Response {
	resp, err := s.server.App().Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(s.T(), err)
	return resp
}

func (s *ServerTestSuite) TestHealth() {
	s.newServer(nil)

	resp := s.do(nethttp.MethodGet, "/health")
	require.Equal(s.T(), nethttp.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.JSONEq(s.T(), `{"status":"ok"}`, string(body))
}

func (s *ServerTestSuite) TestMetricsExposed() {
	s.newServer(nil)

	resp := s.do(nethttp.MethodGet, "/metrics")
	require.Equal(s.T(), nethttp.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Contains(s.T(), string(body), "go_goroutines")
}

func (s *ServerTestSuite) TestRootRedirectsToDashboard() {
	s.newServer(nil)

	resp := s.do(nethttp.MethodGet, "/")
	require.Equal(s.T(), nethttp.StatusFound, resp.StatusCode)
	require.Equal(s.T(), "/dashboard", resp.Header.Get("Location"))

	resp = s.do(nethttp.MethodGet, "/dashboard")
	require.Equal(s.T(), nethttp.StatusOK, resp.StatusCode)
}

func (s *ServerTestSuite) TestAnalyticsAPIUsesJSONErrors() {
	s.newServer(nil)
	s.analytics.On("FetchAnalytics", mock.Anything, mock.Anything).
		Return(model.AnalyticsPayload{}, &service.ValidationError{Message: "start date must not be after end date"})

	resp := s.do(nethttp.MethodGet, "/api/analytics?start=2024-02-01&end=2024-01-01")
	require.Equal(s.T(), nethttp.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.JSONEq(s.T(), `{"error":"start date must not be after end date"}`, string(body))
}

func (s *ServerTestSuite) TestEventsRouteOnlyWhenEnabled() {
	s.newServer(nil)
	require.Equal(s.T(), nethttp.StatusNotFound, s.do(nethttp.MethodPost, "/events").StatusCode)

	s.newServer(controller.NewEventController(&mockservice.EventService{}))
	require.Equal(s.T(), nethttp.StatusBadRequest, s.do(nethttp.MethodPost, "/events").StatusCode)
}
