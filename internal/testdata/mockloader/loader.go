package mockloader

import (
	"search-analytics-service/internal/model"
	"search-analytics-service/internal/service"

	"github.com/stretchr/testify/mock"
)

type Loader struct {
	mock.Mock
}

func (m *Loader) Load(params model.QueryParams) uint64 {
	args := m.Called(params)
	return args.Get(0).(uint64)
}

func (m *Loader) Reload() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *Loader) State() service.LoaderState {
	args := m.Called()
	return args.Get(0).(service.LoaderState)
}
