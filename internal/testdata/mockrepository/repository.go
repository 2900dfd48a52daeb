package mockrepository

import (
	"context"

	"search-analytics-service/internal/model"
	"search-analytics-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.SearchEventRepository = &Repository{}

func (m *Repository) Create(ctx context.Context, event model.SearchEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *Repository) CreateBatch(ctx context.Context, events []model.SearchEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *Repository) FetchAnalytics(ctx context.Context, params model.QueryParams) (model.AnalyticsPayload, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.AnalyticsPayload), args.Error(1)
}
