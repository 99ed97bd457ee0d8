package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertychat/internal/common/config"
	"propertychat/internal/common/logger"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.GenAIConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "gemini-2.5-flash",
		Timeout:     5000,
		Temperature: 0.7,
	}, logger.NewNoOpLogger())
}

func completionBody(content string) string {
	body := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func TestClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemini-2.5-flash", req["model"])

		messages := req["messages"].([]interface{})
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
		assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`{"intent":"general_chat"}`)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	got, err := client.Complete(context.Background(), "classify this", "hi")
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"general_chat"}`, got)
}

func TestClient_Complete_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrCompletionFailed)
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrCompletionFailed)
}

func TestClient_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(completionBody("too late")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, "sys", "user")
	assert.ErrorIs(t, err, ErrCompletionTimeout)
}

func TestClient_Complete_MalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrCompletionFailed)
}
