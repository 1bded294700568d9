package notification

import (
	"context"
	"testing"

	"github.com/clube/backend/internal/domain/collection"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewLogSender(zap.New(core))
	sender.PreviewLen = 5

	err := sender.Send(context.Background(), collection.Message{
		TenantID:   uuid.New(),
		DispatchID: uuid.New(),
		Channel:    collection.ChannelSMS,
		Recipient:  "+5511999990000",
		Body:       "Olá, João!",
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "SMS", fields["channel"])
	assert.Equal(t, "+5511999990000", fields["recipient"])
	assert.Equal(t, "Olá, …", fields["body"])
}

func TestLogSender_RequiresRecipient(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewLogSender(zap.New(core))

	err := sender.Send(context.Background(), collection.Message{Channel: collection.ChannelEmail})

	assert.Error(t, err)
	assert.Zero(t, logs.Len())
}
