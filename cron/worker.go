package cron

import (
	"context"
	"fmt"
	"time"

	"salonify/config"
	"salonify/models"
	"salonify/services/tasks"
	"salonify/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Deliverer sends a rendered confirmation. notification.NotificationService satisfies it.
type Deliverer interface {
	Deliver(ctx context.Context, payload models.ConfirmationPayload) error
}

// QueueRedisOpt is the asynq connection for the queue DB, shared by the client and the server.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux routes task types to their handlers.
func NewMux(notifSvc Deliverer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendConfirmation, handleConfirmationTask(notifSvc))
	return mux
}

// InitConfirmationWorker starts the asynq worker in the background. The caller owns Shutdown.
func InitConfirmationWorker(notifSvc Deliverer) *asynq.Server {
	logger := utils.GetLogger()
	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Error("task failed",
					zap.String("type", task.Type()),
					zap.Int("retry", retried),
					zap.Int("max_retry", maxRetry),
					zap.Error(err),
				)
			}),
		},
	)
	mux := NewMux(notifSvc)

	// Start async worker with retry logic
	go func() {
		logger.Info("Starting confirmation worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("Failed to start worker", zap.Int("attempt", attempts), zap.Int("max_attempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Max worker start attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleConfirmationTask(notifSvc Deliverer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseConfirmationTask(task)
		if err != nil {
			utils.GetLogger().Error("Invalid confirmation payload", zap.Error(err))
			return fmt.Errorf("handleConfirmationTask: %w: %w", err, asynq.SkipRetry)
		}
		if p.Reservation.ID == "" {
			return fmt.Errorf("handleConfirmationTask: payload without reservation: %w", asynq.SkipRetry)
		}
		return notifSvc.Deliver(ctx, p)
	}
}
