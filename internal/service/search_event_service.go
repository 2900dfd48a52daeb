package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"search-analytics-service/internal/model"
)

// searchEventService validates search impressions and hands them to the batch worker.
type searchEventService struct {
	worker          BatchEventWorker
	now             func() time.Time
	newID           func() string
	futureTolerance time.Duration
}

type EventService interface {
	BuildEvent(req model.SearchEventRequest) (model.SearchEvent, error)
	ProcessEvent(ctx context.Context, event model.SearchEvent) (model.EventResult, error)
}

// NewEventService constructs an EventService.
func NewEventService(worker BatchEventWorker, futureTolerance time.Duration) EventService {
	return &searchEventService{
		worker:          worker,
		now:             time.Now,
		newID:           func() string { return uuid.NewString() },
		futureTolerance: futureTolerance,
	}
}

// BuildEvent validates and constructs a SearchEvent from an incoming request.
func (s *searchEventService) BuildEvent(req model.SearchEventRequest) (model.SearchEvent, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return model.SearchEvent{}, &ValidationError{Message: "query is required"}
	}

	if req.UserID == "" {
		return model.SearchEvent{}, &ValidationError{Message: "user_id is required"}
	}

	if req.Position <= 0 {
		return model.SearchEvent{}, &ValidationError{Message: "position must be positive"}
	}

	if req.Timestamp == 0 {
		return model.SearchEvent{}, &ValidationError{Message: "timestamp is required"}
	}

	ts := time.Unix(req.Timestamp, 0).UTC()
	if s.futureTolerance > 0 {
		if err := ValidateTimestamp(ts, s.now(), s.futureTolerance); err != nil {
			return model.SearchEvent{}, &ValidationError{Message: err.Error()}
		}
	}

	id := ""
	if req.ID != nil {
		id = strings.TrimSpace(*req.ID)
	}
	if id == "" {
		id = s.newID()
	}

	return model.SearchEvent{
		ID:        id,
		Query:     query,
		UserID:    req.UserID,
		Position:  req.Position,
		Clicked:   req.Clicked,
		Timestamp: ts,
	}, nil
}

// ProcessEvent queues a single event for batched insertion.
func (s *searchEventService) ProcessEvent(ctx context.Context, event model.SearchEvent) (model.EventResult, error) {
	if err := ctx.Err(); err != nil {
		return model.EventResult{}, err
	}
	s.worker.Enqueue(event)
	return model.EventResult{ID: event.ID, Status: "accepted"}, nil
}

// ValidateTimestamp ensures timestamps are not too far in the future.
func ValidateTimestamp(ts time.Time, now time.Time, tolerance time.Duration) error {
	if tolerance <= 0 {
		return nil
	}
	if ts.After(now.Add(tolerance)) {
		return errors.New("timestamp cannot be in the future")
	}
	return nil
}
