package tasks

import (
	"encoding/json"
	"time"

	"salonify/models"

	"github.com/hibiken/asynq"
)

const TypeSendConfirmation = "confirmation:send"

// ConfirmationMaxRetry bounds redelivery of a confirmation email.
const ConfirmationMaxRetry = 5

func NewConfirmationTask(payload models.ConfirmationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendConfirmation, b)
	opts := []asynq.Option{
		asynq.MaxRetry(ConfirmationMaxRetry),
		asynq.Timeout(30 * time.Second),
		// One confirmation per reservation even if reconciliation is retried.
		asynq.TaskID("confirmation:" + payload.Reservation.ID),
	}

	return task, opts, nil
}

// ParseConfirmationTask decodes a task built by NewConfirmationTask.
func ParseConfirmationTask(task *asynq.Task) (models.ConfirmationPayload, error) {
	var p models.ConfirmationPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
