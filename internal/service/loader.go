package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"search-analytics-service/internal/metrics"
	"search-analytics-service/internal/model"
)

// LoaderState is a snapshot of the loader. Data is shared with other
// snapshots and must be treated as read-only.
type LoaderState struct {
	Data    *model.AnalyticsPayload
	Loading bool
	Error   string
	Params  model.QueryParams
	Seq     uint64
}

// AnalyticsLoader owns the analytics payload for the dashboard. Every Load
// starts a new fetch cycle; a result is applied only while its cycle is the
// latest one, so a slow fetch can never overwrite state for newer params.
type AnalyticsLoader struct {
	fetcher AnalyticsService
	timeout time.Duration
	log     *zap.Logger

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	state    LoaderState
	onChange func(LoaderState)

	wg sync.WaitGroup
}

// NewAnalyticsLoader creates a loader in its initial loading state.
func NewAnalyticsLoader(fetcher AnalyticsService, timeout time.Duration, log *zap.Logger) *AnalyticsLoader {
	return &AnalyticsLoader{
		fetcher: fetcher,
		timeout: timeout,
		log:     log,
		state:   LoaderState{Loading: true},
	}
}

// OnChange registers fn to run after each state transition. fn runs outside
// the loader's lock.
func (l *AnalyticsLoader) OnChange(fn func(LoaderState)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Load starts a fetch cycle for params and returns its sequence number.
// The previous payload stays visible until the new one arrives.
func (l *AnalyticsLoader) Load(params model.QueryParams) uint64 {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}

	l.seq++
	seq := l.seq

	ctx := context.Background()
	var cancel context.CancelFunc
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	l.cancel = cancel

	l.state.Loading = true
	l.state.Error = ""
	l.state.Params = params
	l.state.Seq = seq
	snapshot, notify := l.state, l.onChange

	l.wg.Add(1)
	l.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}

	go l.run(ctx, cancel, seq, params)
	return seq
}

// Reload re-runs the fetch for the current params.
func (l *AnalyticsLoader) Reload() uint64 {
	return l.Load(l.State().Params)
}

// State returns the current snapshot.
func (l *AnalyticsLoader) State() LoaderState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Wait blocks until every started fetch has finished.
func (l *AnalyticsLoader) Wait() {
	l.wg.Wait()
}

// Close cancels the in-flight fetch and waits for it to return.
func (l *AnalyticsLoader) Close() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	l.mu.Unlock()

	l.wg.Wait()
}

func (l *AnalyticsLoader) run(ctx context.Context, cancel context.CancelFunc, seq uint64, params model.QueryParams) {
	defer l.wg.Done()
	defer cancel()

	payload, err := l.fetcher.FetchAnalytics(ctx, params)

	l.mu.Lock()
	if seq != l.seq {
		l.mu.Unlock()
		metrics.StaleResultsTotal.Inc()
		l.log.Debug("discarding stale analytics result", zap.Uint64("seq", seq), zap.Error(err))
		return
	}

	l.state.Loading = false
	if err != nil {
		l.state.Error = err.Error()
		l.log.Error("search analytics fetch failed", zap.Uint64("seq", seq), zap.Error(err))
	} else {
		l.state.Data = &payload
		l.state.Error = ""
	}
	l.cancel = nil
	snapshot, notify := l.state, l.onChange
	l.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}
