package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iscoolgpt/models"
)

func TestBuildSystemPrompt(t *testing.T) {
	plain := BuildSystemPrompt("", nil)
	assert.Contains(t, plain, "IsCoolGPT")
	assert.NotContains(t, plain, "Current focus")
	assert.NotContains(t, plain, "Reference material")

	focused := BuildSystemPrompt("  Física ", nil)
	assert.True(t, strings.HasSuffix(focused, "\n\nCurrent focus: Física"))

	withRefs := BuildSystemPrompt("", []string{"[Notes: a.md] one", "[Search Result 1] two"})
	assert.Contains(t, withRefs, "- [Notes: a.md] one\n")
	assert.Contains(t, withRefs, "- [Search Result 1] two\n")
}

func TestBuildUserPrompt(t *testing.T) {
	assert.Equal(t, "What is a vector?", BuildUserPrompt("What is a vector?", ""))
	assert.Equal(t, "What is a vector?", BuildUserPrompt("What is a vector?", "   "))
	assert.Equal(t,
		"Context: chapter 3\n\nQuestion: What is a vector?",
		BuildUserPrompt("What is a vector?", " chapter 3 "))
}

func TestTutorAnswer(t *testing.T) {
	provider := &stubProvider{name: models.ProviderChatGPT, available: true, answer: "A quantity with direction."}
	tutor := NewTutor(provider)

	resp, err := tutor.Answer(context.Background(), models.ChatRequest{
		Message: "What is a vector?",
		Subject: "Física",
		Context: "chapter 3",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Response)
	assert.Equal(t, "A quantity with direction.", *resp.Response)
	assert.Equal(t, "chatgpt-model", resp.Model)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0].System, "Current focus: Física")
	assert.Equal(t, "Context: chapter 3\n\nQuestion: What is a vector?", provider.prompts[0].User)
}

func TestTutorAnswerProviderError(t *testing.T) {
	provider := &stubProvider{name: models.ProviderLocal, err: errors.New("connection refused")}
	tutor := NewTutor(provider)

	resp, err := tutor.Answer(context.Background(), models.ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "local provider")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTutorAnswerWithNotes(t *testing.T) {
	notes := NewNotesService(models.NotesConfig{DataPath: writeNotes(t)}, WithEmbeddingFunc(keywordEmbedding))
	_, err := notes.Index(context.Background())
	require.NoError(t, err)

	provider := &stubProvider{name: models.ProviderDummy, answer: "ok"}
	tutor := NewTutor(provider, WithNotes(notes), WithSearch(nil))

	_, err = tutor.Answer(context.Background(), models.ChatRequest{Message: "explain the derivative", Subject: "Matematica"})
	require.NoError(t, err)
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0].System, "Reference material")
	assert.Contains(t, provider.prompts[0].System, "[Notes: matematica/calculo.md]")
}

func TestDummyProvider(t *testing.T) {
	p := DummyProvider{}
	assert.True(t, p.Available(context.Background()))
	assert.Equal(t, models.ProviderDummy, p.Name())

	answer, err := p.Generate(context.Background(), Prompt{User: "Context: x\n\nQuestion: Why is the sky blue?"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(answer, "Your question was: Why is the sky blue?"))
}
