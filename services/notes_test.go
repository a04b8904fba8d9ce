package services

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iscoolgpt/models"
)

var embeddingVocabulary = []string{"derivative", "integral", "photosynthesis", "cell", "revolution", "war"}

// keywordEmbedding counts vocabulary words so similarity is predictable
func keywordEmbedding(_ context.Context, text string) ([]float32, error) {
	text = strings.ToLower(text)
	vec := make([]float32, len(embeddingVocabulary)+1)
	vec[len(embeddingVocabulary)] = 0.01
	for i, word := range embeddingVocabulary {
		vec[i] = float32(strings.Count(text, word))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func writeNotes(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"matematica/calculo.md":  "A derivative measures the rate of change. An integral accumulates area.",
		"biologia/celulas.txt":   "Photosynthesis happens in the plant cell. The cell is the unit of life.",
		"historia/revolucao.md":  "The French revolution started in 1789.",
		"readme.md":              "General notes about the war.",
		".hidden/secret.md":      "derivative secrets",
		"matematica/diagram.png": "not text",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestNotesIndexAndQuery(t *testing.T) {
	ctx := context.Background()
	notes := NewNotesService(models.NotesConfig{DataPath: writeNotes(t)}, WithEmbeddingFunc(keywordEmbedding))
	assert.False(t, notes.Enabled())

	count, err := notes.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.True(t, notes.Enabled())

	docs, err := notes.Query(ctx, "what is a derivative?", "", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "matematica/calculo.md", docs[0].Source)
	assert.Equal(t, "matematica", docs[0].Subject)
	assert.Equal(t, "calculo.md", docs[0].Metadata["file_name"])
	assert.Greater(t, docs[0].Score, 0.5)

	docs, err = notes.Query(ctx, "photosynthesis in the cell", "", 10)
	require.NoError(t, err)
	require.Len(t, docs, 4)
	assert.Equal(t, "biologia/celulas.txt", docs[0].Source)
}

func TestNotesQueryBySubject(t *testing.T) {
	ctx := context.Background()
	notes := NewNotesService(models.NotesConfig{DataPath: writeNotes(t)}, WithEmbeddingFunc(keywordEmbedding))
	_, err := notes.Index(ctx)
	require.NoError(t, err)

	docs, err := notes.Query(ctx, "photosynthesis", " Matematica ", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "matematica/calculo.md", docs[0].Source)

	docs, err = notes.Query(ctx, "derivative", "Matemática", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "matematica", docs[0].Subject)

	refs := notes.ContextFor(ctx, "cell biology", "biologia")
	require.Len(t, refs, 1)
	assert.True(t, strings.HasPrefix(refs[0], "[Notes: biologia/celulas.txt] Photosynthesis"))
}

func TestNotesMissingDirectory(t *testing.T) {
	ctx := context.Background()
	notes := NewNotesService(models.NotesConfig{DataPath: filepath.Join(t.TempDir(), "nope")}, WithEmbeddingFunc(keywordEmbedding))

	count, err := notes.Index(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.False(t, notes.Enabled())

	docs, err := notes.Query(ctx, "derivative", "", 3)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, notes.ContextFor(ctx, "derivative", ""))
}

func TestNotesEmptyDirectory(t *testing.T) {
	ctx := context.Background()
	notes := NewNotesService(models.NotesConfig{DataPath: t.TempDir()}, WithEmbeddingFunc(keywordEmbedding))

	count, err := notes.Index(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.False(t, notes.Enabled())

	docs, err := notes.Query(ctx, "derivative", "", 3)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestChunkText(t *testing.T) {
	assert.Nil(t, chunkText("   ", 10))
	assert.Equal(t, []string{"short text"}, chunkText(" short text ", 100))

	chunks := chunkText("First sentence here. Second sentence here. Third one.", 30)
	assert.Equal(t, []string{"First sentence here.", "Second sentence here.", "Third one."}, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 30)
	}
}

func TestSubjectFromPath(t *testing.T) {
	assert.Equal(t, "fisica", subjectFromPath("Fisica/leis.md"))
	assert.Equal(t, "fisica", subjectFromPath(filepath.Join("fisica", "mecanica", "leis.md")))
	assert.Equal(t, "", subjectFromPath("readme.md"))
	assert.Equal(t, "historia", subjectFromPath("História/revolucao.md"))
}
