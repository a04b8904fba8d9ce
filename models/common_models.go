package models

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// APIInfo is returned by GET /api
type APIInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Metadata represents generic metadata
type Metadata map[string]interface{}
