package dictapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Lookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/entries/en/hello", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"word": "hello",
				"phonetic": "/həˈləʊ/",
				"phonetics": [
					{"text": "/həˈləʊ/", "audio": "https://example.com/hello.mp3"}
				],
				"meanings": [
					{
						"partOfSpeech": "noun",
						"definitions": [{"definition": "a greeting"}]
					},
					{
						"partOfSpeech": "verb",
						"definitions": [{"definition": "to say hello"}]
					},
					{
						"partOfSpeech": "interjection",
						"definitions": [{"definition": "used as a greeting"}]
					}
				]
			}
		]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	entry, err := client.Lookup(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", entry.Word)
	assert.Equal(t, "/həˈləʊ/", entry.Phonetic)
	assert.Equal(t, "https://example.com/hello.mp3", entry.AudioURL)
	// 最多取前两条释义
	require.Len(t, entry.Meanings, 2)
	assert.Equal(t, "noun", entry.Meanings[0].PartOfSpeech)
	assert.Equal(t, "a greeting", entry.Meanings[0].Definition)
}

func TestClient_Lookup_PhoneticFromPhonetics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"word": "cat",
				"phonetic": "",
				"phonetics": [
					{"text": "", "audio": ""},
					{"text": "/kæt/", "audio": ""}
				],
				"meanings": []
			}
		]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	entry, err := client.Lookup(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "/kæt/", entry.Phonetic)
}

func TestClient_Lookup_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	_, err := client.Lookup(context.Background(), "qwertyuiop")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Lookup_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	_, err := client.Lookup(context.Background(), "hello")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClient_Lookup_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	entry, err := client.Lookup(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, "nothing", entry.Word)
	assert.Empty(t, entry.Phonetic)
}
