package notification

import (
	"context"
	"errors"
	"fmt"

	"salonify/models"
	"salonify/services/tasks"
	"salonify/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationService announces confirmed bookings.
type NotificationService interface {
	// NotifyConfirmed queues the confirmation. It never blocks on delivery.
	NotifyConfirmed(ctx context.Context, payload models.ConfirmationPayload) error
	// Deliver renders and sends synchronously. The worker calls it for each task.
	Deliver(ctx context.Context, payload models.ConfirmationPayload) error
}

// Enqueuer is the part of *asynq.Client the notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	queue  Enqueuer
	mailer Mailer
}

func NewDefaultNotificationService(queue Enqueuer, mailer Mailer) (*DefaultNotificationService, error) {
	if queue == nil || mailer == nil {
		return nil, fmt.Errorf("notification service initialization error: queue or mailer is nil")
	}
	return &DefaultNotificationService{queue: queue, mailer: mailer}, nil
}

func (s *DefaultNotificationService) NotifyConfirmed(ctx context.Context, payload models.ConfirmationPayload) error {
	task, opts, err := tasks.NewConfirmationTask(payload)
	if err != nil {
		return fmt.Errorf("NotifyConfirmed: build task: %w", err)
	}
	info, err := s.queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		utils.GetLogger().Debug("confirmation already queued", zap.String("reservation_id", payload.Reservation.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("NotifyConfirmed: enqueue: %w", err)
	}
	utils.GetLogger().Info("confirmation queued",
		zap.String("reservation_id", payload.Reservation.ID),
		zap.String("task_id", info.ID),
	)
	return nil
}

func (s *DefaultNotificationService) Deliver(ctx context.Context, payload models.ConfirmationPayload) error {
	msg, err := Render(payload)
	if err != nil {
		// A payload that cannot render will never succeed, so do not retry it.
		return fmt.Errorf("Deliver: %w: %w", err, asynq.SkipRetry)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("Deliver: %w", err)
	}
	utils.GetLogger().Info("confirmation sent",
		zap.String("reservation_id", payload.Reservation.ID),
		zap.String("to", msg.To),
	)
	return nil
}
