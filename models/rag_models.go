package models

// NoteDocument is a chunk of study material stored in the notes collection
type NoteDocument struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Source   string   `json:"source"`
	Subject  string   `json:"subject,omitempty"`
	Metadata Metadata `json:"metadata"`
	Score    float64  `json:"score,omitempty"` // Similarity score
}

// NotesConfig represents study notes retrieval configuration
type NotesConfig struct {
	DataPath       string `json:"data_path"`
	CollectionName string `json:"collection_name"`
	ChunkSize      int    `json:"chunk_size"`
	MaxResults     int    `json:"max_results"`
}

// NotesQueryRequest is the body of POST /api/v1/notes/query
type NotesQueryRequest struct {
	Query   string `json:"query"`
	Subject string `json:"subject,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// NotesQueryResponse lists the note chunks closest to a query
type NotesQueryResponse struct {
	Query     string         `json:"query"`
	Documents []NoteDocument `json:"documents"`
	Total     int            `json:"total"`
}
