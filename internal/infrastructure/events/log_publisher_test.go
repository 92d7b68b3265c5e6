package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"agrirent/internal/domain/service"
)

func TestLogPublisherWritesStructuredEntry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pub := NewLogPublisher(zap.New(core))

	err := pub.Publish(context.Background(), service.Event{
		Type:       service.EventRentalSigned,
		Key:        "rental-1",
		Payload:    map[string]string{"by": "farmer"},
		OccurredAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, service.EventRentalSigned, fields["type"])
	assert.Equal(t, "rental-1", fields["key"])
	assert.NoError(t, pub.Close())
}
