// Package views holds the HTML templates served by the API.
package views

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Index renders the landing page at GET /
var Index = template.Must(template.ParseFS(files, "index.html"))

// IndexData is the data rendered by Index
type IndexData struct {
	Version   string
	Provider  string
	Model     string
	Subjects  []string
	Endpoints []Endpoint
}

// Endpoint documents one API route on the landing page
type Endpoint struct {
	Method      string
	Path        string
	Description string
}
