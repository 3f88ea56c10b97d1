package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_NoBrokersIsNop(t *testing.T) {
	p, err := NewPublisher(nil, "salonify.events")
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), Event{Type: ReservationCreated, Key: "res-1"}))
	assert.NoError(t, p.Close())
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "topic")
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "salonify.events")
	require.NoError(t, err)
	assert.Equal(t, "salonify.events", p.writer.Topic)
	assert.NoError(t, p.Close())
}
