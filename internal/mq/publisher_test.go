package mq

import (
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublishing(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	msg, err := newPublishing(map[string]any{"reservation_id": 7, "court_number": 2}, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, now, msg.Timestamp)
	assert.JSONEq(t, `{"reservation_id":7,"court_number":2}`, string(msg.Body))

	_, err = uuid.Parse(msg.MessageId)
	assert.NoError(t, err)

	other, err := newPublishing(nil, now)
	require.NoError(t, err)
	assert.NotEqual(t, msg.MessageId, other.MessageId)
}

func TestNewPublishingRejectsUnencodable(t *testing.T) {
	_, err := newPublishing(make(chan int), time.Now())
	assert.Error(t, err)
}
