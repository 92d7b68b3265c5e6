package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/domain/service"
)

func TestNotifyQueuesEnvelope(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	client := &Client{UserID: "farmer-1", Send: make(chan []byte, 1)}
	m.Register <- client
	require.Eventually(t, func() bool { return m.IsOnline("farmer-1") }, time.Second, 10*time.Millisecond)

	m.Notify("farmer-1", service.NotifyPaymentReminder, map[string]int{"paymentIndex": 2})

	select {
	case raw := <-client.Send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, service.NotifyPaymentReminder, msg.Type)
		assert.NotEmpty(t, msg.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no message queued")
	}

	// offline users are skipped silently
	m.Notify("nobody", service.NotifyNewMessage, nil)
}

func TestHandleIncomingPing(t *testing.T) {
	reply := handleIncoming([]byte(`{"type":"ping"}`))
	require.NotNil(t, reply)
	assert.Contains(t, string(reply), `"pong"`)

	assert.Nil(t, handleIncoming([]byte(`{"type":"typing"}`)))
	assert.Nil(t, handleIncoming([]byte(`not json`)))
}
