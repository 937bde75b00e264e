package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL,
		Model:   "llava:7b",
		Timeout: 5 * time.Second,
	}, zaptest.NewLogger(t))
}

func TestClient_Generate(t *testing.T) {
	t.Run("ImageAttachment_ShouldSendBase64Images", func(t *testing.T) {
		var got GenerateRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/generate", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"model":"llava:7b","response":"[\"leche\"]","done":true}`))
		})

		text, err := client.Generate(context.Background(), "nevera", outbound.Attachment{MIMEType: "image/png", Data: []byte("png")})

		require.NoError(t, err)
		assert.Equal(t, `["leche"]`, text)
		assert.False(t, got.Stream)
		assert.Equal(t, []string{"cG5n"}, got.Images)
	})

	t.Run("AudioAttachment_ShouldBeRejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request must not be sent")
		})

		_, err := client.Generate(context.Background(), "x", outbound.Attachment{MIMEType: "audio/wav"})

		assert.Error(t, err)
	})

	t.Run("IncompleteResponse_ShouldFail", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"response":"[","done":false}`))
		})

		_, err := client.Generate(context.Background(), "x")

		assert.Error(t, err)
	})
}

func TestClient_HealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	})

	assert.NoError(t, client.HealthCheck(context.Background()))
}
