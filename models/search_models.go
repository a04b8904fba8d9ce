package models

// SearchResult represents a web search result
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Published   string `json:"published,omitempty"`
}

// SearchConfig represents search service configuration
type SearchConfig struct {
	APIKey     string `json:"-"`
	BaseURL    string `json:"base_url"`
	MaxResults int    `json:"max_results"`
}
