package mockworker

import (
	"search-analytics-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(event model.SearchEvent) {
	m.Called(event)
}

func (m *Worker) Shutdown() {
	m.Called()
}
