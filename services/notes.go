package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/philippgille/chromem-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"iscoolgpt/models"
)

const (
	defaultNotesCollection = "iscoolgpt-notes"
	defaultChunkSize       = 500
	defaultNotesResults    = 3
	subjectMetadataKey     = "subject"
)

var (
	sentenceRegex = regexp.MustCompile(`[.!?]+\s+`)
	accentFolder  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NotesService indexes study notes from disk into an in-memory chromem-go
// collection and retrieves the chunks closest to a question. Notes live
// under DataPath; the first directory level names the subject.
type NotesService struct {
	cfg   models.NotesConfig
	embed chromem.EmbeddingFunc

	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
}

type NotesOption func(*NotesService)

// WithEmbeddingFunc replaces the embedding backend
func WithEmbeddingFunc(embed chromem.EmbeddingFunc) NotesOption {
	return func(n *NotesService) {
		n.embed = embed
	}
}

// NewNotesService creates a notes service. Without an explicit embedding
// function chromem-go's default (OpenAI) is used.
func NewNotesService(cfg models.NotesConfig, opts ...NotesOption) *NotesService {
	if cfg.CollectionName == "" {
		cfg.CollectionName = defaultNotesCollection
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultNotesResults
	}

	n := &NotesService{cfg: cfg}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// DefaultEmbeddingFunc embeds with OpenAI when a key is configured and with
// the local Ollama server otherwise
func DefaultEmbeddingFunc(openAIKey, ollamaURL, ollamaModel string) chromem.EmbeddingFunc {
	if openAIKey != "" {
		return chromem.NewEmbeddingFuncOpenAI(openAIKey, chromem.EmbeddingModelOpenAI3Small)
	}
	return chromem.NewEmbeddingFuncOllama(ollamaModel, strings.TrimSuffix(ollamaURL, "/")+"/api")
}

// Index (re)builds the collection from the notes directory and returns the
// number of chunks stored. A missing directory disables retrieval without
// failing.
func (n *NotesService) Index(ctx context.Context) (int, error) {
	if n.cfg.DataPath == "" {
		return 0, nil
	}
	if _, err := os.Stat(n.cfg.DataPath); os.IsNotExist(err) {
		log.Warn().Str("path", n.cfg.DataPath).Msg("Notes directory does not exist, retrieval disabled")
		return 0, nil
	}

	docs, err := n.collectDocuments()
	if err != nil {
		return 0, err
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(n.cfg.CollectionName, nil, n.embed)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create collection")
	}
	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return 0, errors.Wrap(err, "failed to add notes to collection")
		}
	}

	n.mu.Lock()
	n.db = db
	n.collection = collection
	n.mu.Unlock()

	log.Info().
		Str("path", n.cfg.DataPath).
		Str("collection", n.cfg.CollectionName).
		Int("chunks", len(docs)).
		Msg("Indexed study notes")
	return len(docs), nil
}

func (n *NotesService) collectDocuments() ([]chromem.Document, error) {
	var docs []chromem.Document
	indexedAt := time.Now().UTC().Format(time.RFC3339)

	err := filepath.WalkDir(n.cfg.DataPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != n.cfg.DataPath {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedNoteType(ext) {
			log.Debug().Str("path", path).Msg("Skipping unsupported file type")
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read note")
			return nil
		}

		rel, err := filepath.Rel(n.cfg.DataPath, path)
		if err != nil {
			return err
		}
		subject := subjectFromPath(rel)

		chunks := chunkText(string(content), n.cfg.ChunkSize)
		for i, chunk := range chunks {
			docs = append(docs, chromem.Document{
				ID:      fmt.Sprintf("%s#%d", filepath.ToSlash(rel), i),
				Content: chunk,
				Metadata: map[string]string{
					"file_name":        d.Name(),
					"file_path":        filepath.ToSlash(rel),
					subjectMetadataKey: subject,
					"chunk_index":      strconv.Itoa(i),
					"total_chunks":     strconv.Itoa(len(chunks)),
					"indexed_at":       indexedAt,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk notes directory")
	}
	return docs, nil
}

// Query returns up to limit chunks most similar to query. A non-empty
// subject restricts the search to notes filed under that subject.
func (n *NotesService) Query(ctx context.Context, query, subject string, limit int) ([]models.NoteDocument, error) {
	n.mu.RLock()
	collection := n.collection
	n.mu.RUnlock()

	if collection == nil || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = n.cfg.MaxResults
	}
	if count := collection.Count(); count < limit {
		limit = count
	}
	if limit == 0 {
		return nil, nil
	}

	var where map[string]string
	if subject = normalizeSubject(subject); subject != "" {
		where = map[string]string{subjectMetadataKey: subject}
	}

	results, err := collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query notes")
	}

	documents := make([]models.NoteDocument, 0, len(results))
	for _, result := range results {
		metadata := make(models.Metadata, len(result.Metadata))
		for k, v := range result.Metadata {
			metadata[k] = v
		}
		documents = append(documents, models.NoteDocument{
			ID:       result.ID,
			Content:  result.Content,
			Source:   result.Metadata["file_path"],
			Subject:  result.Metadata[subjectMetadataKey],
			Metadata: metadata,
			Score:    float64(result.Similarity),
		})
	}
	return documents, nil
}

// Enabled reports whether at least one note has been indexed
func (n *NotesService) Enabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.collection != nil && n.collection.Count() > 0
}

// ContextFor formats the notes relevant to a question as reference lines
func (n *NotesService) ContextFor(ctx context.Context, query, subject string) []string {
	docs, err := n.Query(ctx, query, subject, 0)
	if err != nil {
		log.Warn().Err(err).Msg("Notes lookup failed")
		return nil
	}

	var refs []string
	for _, doc := range docs {
		refs = append(refs, fmt.Sprintf("[Notes: %s] %s", doc.Source, doc.Content))
	}
	return refs
}

func isSupportedNoteType(ext string) bool {
	switch ext {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// subjectFromPath maps "fisica/leis.md" to "fisica". Files directly under
// the notes root have no subject.
func subjectFromPath(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return normalizeSubject(parts[0])
}

// normalizeSubject folds case and accents so "Matemática" matches a
// "matematica" directory
func normalizeSubject(subject string) string {
	folded, _, err := transform.String(accentFolder, strings.TrimSpace(subject))
	if err != nil {
		folded = strings.TrimSpace(subject)
	}
	return strings.ToLower(folded)
}

// chunkText splits text into chunks of at most maxChunkSize bytes on sentence
// boundaries. A single sentence longer than the limit forms its own chunk.
func chunkText(text string, maxChunkSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxChunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, sentence := range splitIntoSentences(text) {
		if current.Len()+len(sentence) > maxChunkSize && current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
		current.WriteString(" ")
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

func splitIntoSentences(text string) []string {
	var result []string
	last := 0
	for _, loc := range sentenceRegex.FindAllStringIndex(text, -1) {
		if sentence := strings.TrimSpace(text[last:loc[1]]); sentence != "" {
			result = append(result, sentence)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		result = append(result, tail)
	}
	return result
}
