package deepgram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind_server/config"
)

func testConfig(baseURL string) *config.DeepgramConfig {
	return &config.DeepgramConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "nova-2",
		Language:       "en",
		TimeoutSeconds: 5,
	}
}

func TestTranscribe_ExtractsTopAlternative(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "audio/webm", r.Header.Get("Content-Type"))
		assert.Equal(t, "nova-2", r.URL.Query().Get("model"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": {"channels": [{"alternatives": [{
				"transcript": "hello world",
				"confidence": 0.98,
				"words": [
					{"word": "hello", "confidence": 0.99},
					{"word": "world", "confidence": 0.97}
				]
			}]}]}
		}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	result, err := client.Transcribe(context.Background(), []byte("fake-audio"), "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.Text)
	require.Len(t, result.Words, 2)
	assert.Equal(t, "hello", result.Words[0].Word)
}

func TestTranscribe_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {"channels": []}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	result, err := client.Transcribe(context.Background(), []byte("fake-audio"), "audio/mpeg")
	require.NoError(t, err)
	assert.Empty(t, result.Text)
}

func TestTranscribe_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.Transcribe(context.Background(), []byte("fake-audio"), "audio/mpeg")
	assert.Error(t, err)
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewClient(testConfig("http://localhost")).Configured())

	cfg := testConfig("http://localhost")
	cfg.APIKey = ""
	assert.False(t, NewClient(cfg).Configured())
}
