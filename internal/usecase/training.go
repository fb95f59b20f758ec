package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"AdPulse/internal/domain/models"
	domrepo "AdPulse/internal/domain/repository"
	domsvc "AdPulse/internal/domain/service"
	"AdPulse/pkg/logger"
	"AdPulse/pkg/queue"
)

// JobTrainModel is the queue message type for background training.
const JobTrainModel = "train_model"

// EventModelTrained is published after a successful training run.
const EventModelTrained = "model.trained"

// ErrQueueDisabled is returned by Enqueue when no queue is configured.
var ErrQueueDisabled = errors.New("training queue is not configured")

// TrainQueue is the subset of the job queue training needs.
type TrainQueue interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) (string, error)
	Status(ctx context.Context, id string) (queue.Status, error)
}

// TrainPayload is the body of a train_model job.
type TrainPayload struct {
	RequestedAt time.Time `json:"requested_at"`
	Reason      string    `json:"reason,omitempty"`
}

// TrainingUseCase retrains the model on the current history.
type TrainingUseCase struct {
	predictor domsvc.Predictor
	history   *ForecastUseCase
	stats     *StatsCache
	events    domrepo.EventPublisher
	queue     TrainQueue
	metrics   domrepo.Metrics
	log       *logger.Logger
}

// NewTrainingUseCase wires training. events and q may be nil.
func NewTrainingUseCase(predictor domsvc.Predictor, history *ForecastUseCase, stats *StatsCache, events domrepo.EventPublisher, q TrainQueue, metrics domrepo.Metrics, log *logger.Logger) *TrainingUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TrainingUseCase{predictor: predictor, history: history, stats: stats, events: events, queue: q, metrics: metrics, log: log}
}

// Train sends the current history to the training endpoint.
func (uc *TrainingUseCase) Train(ctx context.Context) (models.TrainResult, error) {
	start := time.Now()
	history, err := uc.history.History(ctx)
	if err != nil {
		uc.metrics.RecordError(ErrorKind(err))
		return models.TrainResult{}, err
	}
	res, err := uc.predictor.Train(ctx, history)
	if err != nil {
		uc.metrics.RecordError(ErrorKind(err))
		uc.log.Error("model training failed", logger.Error(err))
		return models.TrainResult{}, err
	}
	uc.metrics.RecordLatency("train", time.Since(start).Seconds())

	if uc.stats != nil {
		if err := uc.stats.Invalidate(ctx); err != nil {
			uc.log.Warn("stats cache invalidate failed", logger.Error(err))
		}
	}
	if uc.events != nil {
		if err := uc.events.PublishEvent(ctx, EventModelTrained, res); err != nil {
			uc.log.Warn("publish training event failed", logger.Error(err))
		}
	}
	uc.log.Info("model trained",
		logger.String("status", res.Status),
		logger.Int("data_points", res.DataPoints),
		logger.Int("records_sent", len(history)))
	return res, nil
}

// Enqueue schedules a background training run and returns the job id.
func (uc *TrainingUseCase) Enqueue(ctx context.Context, reason string) (string, error) {
	if uc.queue == nil {
		return "", ErrQueueDisabled
	}
	id, err := uc.queue.Enqueue(ctx, JobTrainModel, TrainPayload{RequestedAt: time.Now().UTC(), Reason: reason})
	if err != nil {
		return "", fmt.Errorf("enqueue training: %w", err)
	}
	return id, nil
}

// Status reports a queued training run.
func (uc *TrainingUseCase) Status(ctx context.Context, id string) (queue.Status, error) {
	if uc.queue == nil {
		return queue.Status{}, ErrQueueDisabled
	}
	return uc.queue.Status(ctx, id)
}

// Job is the queue handler running Train.
func (uc *TrainingUseCase) Job() queue.Job {
	return queue.JobFunc{
		JobType: JobTrainModel,
		Fn: func(ctx context.Context, payload json.RawMessage) error {
			p, err := queue.ParsePayload[TrainPayload](payload)
			if err != nil {
				return err
			}
			uc.log.Info("running queued training",
				logger.String("reason", p.Reason),
				logger.Any("requested_at", p.RequestedAt))
			_, err = uc.Train(ctx)
			return err
		},
	}
}
