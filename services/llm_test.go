package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iscoolgpt/models"
)

func TestLLMServiceGenerate(t *testing.T) {
	var got OllamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"IsCoolGPT: Newton's second law.\nStudent: and the third?","done":true}`))
	}))
	defer srv.Close()

	llm := NewLLMService(srv.URL+"/", "llama3")
	assert.Equal(t, models.ProviderLocal, llm.Name())
	assert.Equal(t, "llama3", llm.Model())

	answer, err := llm.Generate(context.Background(), Prompt{System: "be nice", User: "F = ma?"})
	require.NoError(t, err)
	assert.Equal(t, "Newton's second law.", answer)

	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "be nice", got.System)
	assert.Equal(t, "Student: F = ma?\nIsCoolGPT: ", got.Prompt)
	assert.False(t, got.Stream)
}

func TestLLMServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"error":"model 'missing' not found"}`))
	}))
	defer srv.Close()

	llm := NewLLMService(srv.URL, "missing")
	_, err := llm.Generate(context.Background(), Prompt{User: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model 'missing' not found")
	assert.False(t, llm.Available(context.Background()))

	llm = NewLLMService("http://127.0.0.1:1", "")
	assert.Equal(t, "tinyllama:latest", llm.Model())
	_, err = llm.Generate(context.Background(), Prompt{User: "hi"})
	require.Error(t, err)
}

func TestLLMServiceAvailableModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest"},{"name":"nomic-embed-text:latest"}]}`))
	}))
	defer srv.Close()

	llm := NewLLMService(srv.URL, "llama3")
	assert.True(t, llm.Available(context.Background()))

	names, err := llm.AvailableModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3:latest", "nomic-embed-text:latest"}, names)
}

func TestCleanLLMResponse(t *testing.T) {
	assert.Equal(t, "Hello", cleanLLMResponse("  Assistant: Hello  "))
	assert.Equal(t, "Line one\nLine two", cleanLLMResponse("Line one\nLine two\nStudent: more"))
}
