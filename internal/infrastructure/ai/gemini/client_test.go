package gemini

import (
	"context"
	"encoding/base64"
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
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, zaptest.NewLogger(t))
}

func TestClient_Generate(t *testing.T) {
	t.Run("TextAndImage_ShouldSendInlineDataAndJoinParts", func(t *testing.T) {
		var got generateRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[\"arroz\","},{"text":"\"pollo\"]"}]},"finishReason":"STOP"}]}`))
		})

		text, err := client.Generate(context.Background(), "lista", outbound.Attachment{MIMEType: "image/png", Data: []byte{1, 2, 3}})

		require.NoError(t, err)
		assert.Equal(t, `["arroz","pollo"]`, text)
		require.Len(t, got.Contents, 1)
		require.Len(t, got.Contents[0].Parts, 2)
		assert.Equal(t, "lista", got.Contents[0].Parts[0].Text)
		assert.Equal(t, "image/png", got.Contents[0].Parts[1].InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), got.Contents[0].Parts[1].InlineData.Data)
	})

	t.Run("BlockedPrompt_ShouldFail", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
		})

		_, err := client.Generate(context.Background(), "x")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "SAFETY")
	})

	t.Run("APIError_ShouldSurfaceStatus", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"bad key","status":"PERMISSION_DENIED"}}`))
		})

		_, err := client.Generate(context.Background(), "x")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "PERMISSION_DENIED")
	})

	t.Run("MissingKey_ShouldFailWithoutRequest", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
		client.config.APIKey = ""

		_, err := client.Generate(context.Background(), "x")

		require.Error(t, err)
		assert.False(t, called)
	})
}

func TestClient_HealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	})

	assert.NoError(t, client.HealthCheck(context.Background()))
	assert.Equal(t, "gemini", client.Name())
}
