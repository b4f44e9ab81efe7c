package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/entity"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/geocode"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/logger"
	"github.com/BHOGESH4I9/Live-Location-Tracker/internal/usecase"
)

// Worker resolves queued geocode tasks in the background and writes the
// addresses back to the live location store.
type Worker struct {
	Queue      usecase.QueueRepository
	Live       usecase.LiveLocationRepository
	Geocoder   usecase.Geocoder
	QueueName  string
	MaxRetries int
}

// New creates a new worker.
func New(q usecase.QueueRepository, live usecase.LiveLocationRepository, gc usecase.Geocoder) *Worker {
	return &Worker{
		Queue:      q,
		Live:       live,
		Geocoder:   gc,
		QueueName:  usecase.GeocodeQueueName,
		MaxRetries: 3,
	}
}

// Start runs the task loop until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	logger.Sugar.Info("Starting geocode worker...")
	for {
		select {
		case <-ctx.Done():
			logger.Sugar.Info("Geocode worker stopped")
			return
		default:
			// Dequeue blocks until a task arrives; a cancelled context
			// surfaces as an error from the Redis client.
			payloadJSON, err := w.Queue.Dequeue(ctx, w.QueueName)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Sugar.Warnw("worker dequeue error", "err", err)
				time.Sleep(1 * time.Second)
				continue
			}

			go w.processTask(ctx, payloadJSON)
		}
	}
}

// processTask resolves one geocode task with retries. After the retries are
// exhausted the fallback address is stored so the user is never left without
// display text.
func (w *Worker) processTask(ctx context.Context, data string) {
	var task entity.GeocodeTask
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		logger.Sugar.Warnw("dropping malformed geocode task", "payload", data, "err", err)
		return
	}

	for i := 0; i < w.MaxRetries; i++ {
		address, err := w.Geocoder.ReverseGeocode(ctx, task.Latitude, task.Longitude)
		if err == nil {
			if err := w.Live.UpdateAddress(ctx, task.UserID, address); err != nil {
				logger.Sugar.Warnw("failed to store resolved address", "user_id", task.UserID, "err", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		logger.Sugar.Warnw("geocode attempt failed",
			"user_id", task.UserID, "attempt", i+1, "max", w.MaxRetries, "err", err)
		if i+1 < w.MaxRetries {
			time.Sleep(time.Duration(2*i+1) * time.Second) // linear backoff: 1s, 3s, 5s
		}
	}

	logger.Sugar.Warnw("giving up on geocode task, storing fallback", "user_id", task.UserID)
	if err := w.Live.UpdateAddress(ctx, task.UserID, geocode.FallbackAddress); err != nil {
		logger.Sugar.Warnw("failed to store fallback address", "user_id", task.UserID, "err", err)
	}
}
