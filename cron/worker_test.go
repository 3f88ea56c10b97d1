package cron

import (
	"context"
	"errors"
	"testing"

	"salonify/models"
	"salonify/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeliverer struct {
	got []models.ConfirmationPayload
	err error
}

func (d *recordingDeliverer) Deliver(_ context.Context, p models.ConfirmationPayload) error {
	d.got = append(d.got, p)
	return d.err
}

func confirmationTask(t *testing.T, reservationID string) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewConfirmationTask(models.ConfirmationPayload{
		Reservation: models.Reservation{ID: reservationID},
		Client:      models.User{Email: "ada@example.com"},
	})
	require.NoError(t, err)
	return task
}

func TestHandleConfirmationTask_Delivers(t *testing.T) {
	d := &recordingDeliverer{}
	err := handleConfirmationTask(d)(context.Background(), confirmationTask(t, "res-1"))

	require.NoError(t, err)
	require.Len(t, d.got, 1)
	assert.Equal(t, "res-1", d.got[0].Reservation.ID)
}

func TestHandleConfirmationTask_DeliveryErrorIsReturned(t *testing.T) {
	d := &recordingDeliverer{err: errors.New("smtp down")}
	err := handleConfirmationTask(d)(context.Background(), confirmationTask(t, "res-1"))

	assert.EqualError(t, err, "smtp down")
}

func TestHandleConfirmationTask_BadPayloadSkipsRetry(t *testing.T) {
	d := &recordingDeliverer{}
	h := handleConfirmationTask(d)

	err := h(context.Background(), asynq.NewTask(tasks.TypeSendConfirmation, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h(context.Background(), confirmationTask(t, ""))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, d.got)
}

func TestNewMux_RoutesConfirmationTasks(t *testing.T) {
	d := &recordingDeliverer{}
	mux := NewMux(d)

	require.NoError(t, mux.ProcessTask(context.Background(), confirmationTask(t, "res-7")))
	require.Len(t, d.got, 1)

	// Unregistered types are rejected by the mux.
	assert.Error(t, mux.ProcessTask(context.Background(), asynq.NewTask("unknown:type", nil)))
}
