package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrirent/internal/domain/service"
)

func completionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var body struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body.Messages)
		assert.Equal(t, "system", body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]interface{}{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteReturnsContent(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "  Rotate your crops.  ")
	c := NewOpenAIClient("key", srv.URL+"/v1", "")

	out, err := c.Complete(context.Background(), "system", []service.ChatTurn{{Role: "user", Content: "tips?"}})
	require.NoError(t, err)
	assert.Equal(t, "Rotate your crops.", out)
}

func TestCompleteFailures(t *testing.T) {
	srv := completionServer(t, http.StatusInternalServerError, "")
	c := NewOpenAIClient("key", srv.URL+"/v1", "")
	_, err := c.Complete(context.Background(), "system", nil)
	assert.Error(t, err)

	empty := completionServer(t, http.StatusOK, "   ")
	c = NewOpenAIClient("key", empty.URL+"/v1", "")
	_, err = c.Complete(context.Background(), "system", nil)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
