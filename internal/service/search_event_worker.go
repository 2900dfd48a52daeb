package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"search-analytics-service/internal/metrics"
	"search-analytics-service/internal/model"
	"search-analytics-service/internal/repository"
)

type batchEventWorker struct {
	repo          repository.SearchEventRepository
	eventQueue    chan model.SearchEvent
	batchSize     int
	flushInterval time.Duration
	log           *zap.Logger
	wg            sync.WaitGroup
}

type BatchEventWorker interface {
	Enqueue(event model.SearchEvent)
	Shutdown()
}

// NewBatchEventWorker starts a worker that writes events in batches of
// batchSize, or every interval, whichever comes first.
func NewBatchEventWorker(repo repository.SearchEventRepository, bufferSize int, batchSize int, interval time.Duration, log *zap.Logger) *batchEventWorker {
	worker := &batchEventWorker{
		repo:          repo,
		eventQueue:    make(chan model.SearchEvent, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
		log:           log,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue blocks when the buffer is full.
func (w *batchEventWorker) Enqueue(event model.SearchEvent) {
	w.eventQueue <- event
}

// Shutdown stops accepting events and flushes what is queued.
func (w *batchEventWorker) Shutdown() {
	w.log.Info("shutting down event worker, draining queue")
	close(w.eventQueue)
	w.wg.Wait()
	w.log.Info("event worker stopped")
}

func (w *batchEventWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.SearchEvent
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.eventQueue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, event)

			if len(batch) >= w.batchSize {
				w.log.Debug("batch size reached", zap.Int("batch", len(batch)), zap.Int("queued", len(w.eventQueue)))
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.log.Debug("flush interval elapsed", zap.Int("batch", len(batch)), zap.Int("queued", len(w.eventQueue)))
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *batchEventWorker) bulkInsert(events []model.SearchEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, events); err != nil {
		metrics.EventsIngestedTotal.WithLabelValues(metrics.OutcomeFailure).Add(float64(len(events)))
		w.log.Error("bulk insert failed", zap.Int("events", len(events)), zap.Error(err))
		return
	}

	metrics.EventsIngestedTotal.WithLabelValues(metrics.OutcomeSuccess).Add(float64(len(events)))
	w.log.Info("events flushed", zap.Int("events", len(events)))
}
