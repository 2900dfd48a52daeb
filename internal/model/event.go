package model

import (
	"time"
)

// SearchEventRequest represents an incoming search impression payload.
type SearchEventRequest struct {
	ID        *string `json:"id"`
	Query     string  `json:"query"`
	UserID    string  `json:"user_id"`
	Position  float64 `json:"position"`
	Clicked   bool    `json:"clicked"`
	Timestamp int64   `json:"timestamp"`
}

// SearchEvent is one impression of a query's result, persisted in ClickHouse.
// Clicked marks impressions that led to a click.
type SearchEvent struct {
	ID        string
	Query     string
	UserID    string
	Position  float64
	Clicked   bool
	Timestamp time.Time
}

// EventResult is returned once an event has been accepted for ingestion.
type EventResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
