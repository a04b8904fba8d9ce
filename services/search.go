package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"iscoolgpt/models"
)

const defaultBraveSearchURL = "https://api.search.brave.com/res/v1/web/search"

// SearchResponse represents the full search response
type SearchResponse struct {
	Query   string                `json:"query"`
	Results []models.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// BraveSearchResponse represents the API response from Brave Search
type BraveSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Published   string `json:"page_age"`
		} `json:"results"`
	} `json:"web"`
}

// SearchService handles web search operations
type SearchService struct {
	cfg  models.SearchConfig
	http *resty.Client
}

// NewSearchService creates a new search service instance
func NewSearchService(cfg models.SearchConfig) *SearchService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBraveSearchURL
	}
	if cfg.MaxResults <= 0 || cfg.MaxResults > 10 {
		cfg.MaxResults = 3
	}

	return &SearchService{
		cfg: cfg,
		http: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "IsCoolGPT/1.0"),
	}
}

// IsEnabled checks if the search service is properly configured
func (s *SearchService) IsEnabled() bool {
	return s != nil && s.cfg.APIKey != ""
}

// Search performs a web search using Brave Search API
func (s *SearchService) Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
	if !s.IsEnabled() {
		return nil, errors.New("search service not enabled - missing BRAVE_SEARCH_API_KEY")
	}

	cleanQuery := strings.TrimSpace(query)
	if cleanQuery == "" {
		return nil, errors.New("search query cannot be empty")
	}
	if maxResults <= 0 || maxResults > 10 {
		maxResults = s.cfg.MaxResults
	}

	var braveResp BraveSearchResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("X-Subscription-Token", s.cfg.APIKey).
		SetQueryParams(map[string]string{
			"q":                cleanQuery,
			"count":            strconv.Itoa(maxResults),
			"offset":           "0",
			"text_decorations": "false",
		}).
		SetResult(&braveResp).
		Get(s.cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search API error %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	searchResp := &SearchResponse{
		Query:   cleanQuery,
		Results: make([]models.SearchResult, 0, len(braveResp.Web.Results)),
	}
	for _, result := range braveResp.Web.Results {
		searchResp.Results = append(searchResp.Results, models.SearchResult{
			Title:       result.Title,
			URL:         result.URL,
			Description: result.Description,
			Published:   result.Published,
		})
	}
	searchResp.Count = len(searchResp.Results)

	return searchResp, nil
}

// SearchForContext performs a search and formats results as reference lines
func (s *SearchService) SearchForContext(ctx context.Context, query string, maxResults int) ([]string, error) {
	searchResp, err := s.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(searchResp.Results))
	for i, result := range searchResp.Results {
		refs = append(refs, fmt.Sprintf("[Search Result %d] %s - %s (Source: %s)",
			i+1, result.Title, result.Description, result.URL))
	}
	return refs, nil
}

// ShouldSearch determines if a question asks for current information that
// study notes are unlikely to hold
func (s *SearchService) ShouldSearch(message string) bool {
	if !s.IsEnabled() {
		return false
	}

	message = strings.ToLower(message)
	searchKeywords := []string{
		"latest", "recent", "current", "today", "news", "update",
		"this week", "this month", "this year", "currently",
		"atual", "hoje", "notícia", "recente",
	}
	for _, keyword := range searchKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}
