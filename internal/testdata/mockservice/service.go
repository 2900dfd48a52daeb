package mockservice

import (
	"context"

	"search-analytics-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventService struct {
	mock.Mock
}

func (m *EventService) BuildEvent(req model.SearchEventRequest) (model.SearchEvent, error) {
	args := m.Called(req)
	return args.Get(0).(model.SearchEvent), args.Error(1)
}

func (m *EventService) ProcessEvent(ctx context.Context, event model.SearchEvent) (model.EventResult, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(model.EventResult), args.Error(1)
}

type AnalyticsService struct {
	mock.Mock
}

func (m *AnalyticsService) FetchAnalytics(ctx context.Context, params model.QueryParams) (model.AnalyticsPayload, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.AnalyticsPayload), args.Error(1)
}
