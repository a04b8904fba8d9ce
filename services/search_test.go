package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iscoolgpt/models"
)

func TestSearchServiceSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brave-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "latest mars mission", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"Mars 2030","url":"https://example.org/mars","description":"Crewed mission planned","page_age":"2025-01-01"},
			{"title":"Rovers","url":"https://example.org/rovers","description":"Rover news"}
		]}}`))
	}))
	defer srv.Close()

	search := NewSearchService(models.SearchConfig{APIKey: "brave-key", BaseURL: srv.URL})
	require.True(t, search.IsEnabled())

	resp, err := search.Search(context.Background(), "  latest mars mission ", 2)
	require.NoError(t, err)
	assert.Equal(t, "latest mars mission", resp.Query)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "2025-01-01", resp.Results[0].Published)

	refs, err := search.SearchForContext(context.Background(), "latest mars mission", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"[Search Result 1] Mars 2030 - Crewed mission planned (Source: https://example.org/mars)",
		"[Search Result 2] Rovers - Rover news (Source: https://example.org/rovers)",
	}, refs)
}

func TestSearchServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad token"))
	}))
	defer srv.Close()

	search := NewSearchService(models.SearchConfig{APIKey: "wrong", BaseURL: srv.URL})
	_, err := search.Search(context.Background(), "news", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = search.Search(context.Background(), "   ", 0)
	require.Error(t, err)

	disabled := NewSearchService(models.SearchConfig{})
	assert.False(t, disabled.IsEnabled())
	_, err = disabled.Search(context.Background(), "news", 0)
	require.Error(t, err)
}

func TestShouldSearch(t *testing.T) {
	search := NewSearchService(models.SearchConfig{APIKey: "key"})
	assert.True(t, search.ShouldSearch("What is the latest news on fusion?"))
	assert.True(t, search.ShouldSearch("Qual a notícia de hoje?"))
	assert.False(t, search.ShouldSearch("Explain the Pythagorean theorem"))

	assert.False(t, NewSearchService(models.SearchConfig{}).ShouldSearch("latest news"))

	var none *SearchService
	assert.False(t, none.ShouldSearch("latest news"))
}
