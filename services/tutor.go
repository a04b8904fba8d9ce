package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"iscoolgpt/models"
)

const systemPromptBase = `You are an intelligent educational assistant called IsCoolGPT,
specialized in helping students with their academic subjects.
Your goal is to give clear, didactic and accurate explanations.

Guidelines:
- Be patient and encouraging
- Use clear and accessible language
- Give practical examples when possible
- Encourage active learning
- If you don't know something, be honest about it`

// Tutor answers student questions with one provider, enriching the system
// prompt with study notes and web search results when those are configured.
type Tutor struct {
	provider Provider
	notes    *NotesService
	search   *SearchService
}

type TutorOption func(*Tutor)

func WithNotes(notes *NotesService) TutorOption {
	return func(t *Tutor) {
		t.notes = notes
	}
}

func WithSearch(search *SearchService) TutorOption {
	return func(t *Tutor) {
		t.search = search
	}
}

func NewTutor(provider Provider, opts ...TutorOption) *Tutor {
	t := &Tutor{provider: provider}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Provider returns the provider answering requests
func (t *Tutor) Provider() Provider {
	return t.provider
}

// Answer produces the tutor's reply to one chat request. Provider errors are
// returned as is; the caller decides how to surface them.
func (t *Tutor) Answer(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	refs := t.references(ctx, req)
	prompt := Prompt{
		System: BuildSystemPrompt(req.Subject, refs),
		User:   BuildUserPrompt(req.Message, req.Context),
	}

	log.Debug().
		Str("provider", string(t.provider.Name())).
		Str("subject", req.Subject).
		Int("references", len(refs)).
		Msg("Generating answer")

	answer, err := t.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, errors.Wrapf(err, "%s provider", t.provider.Name())
	}

	return &models.ChatResponse{Response: &answer, Model: t.provider.Model()}, nil
}

func (t *Tutor) references(ctx context.Context, req models.ChatRequest) []string {
	var refs []string
	if t.notes != nil && t.notes.Enabled() {
		refs = append(refs, t.notes.ContextFor(ctx, req.Message, req.Subject)...)
	}
	if t.search.ShouldSearch(req.Message) {
		results, err := t.search.SearchForContext(ctx, req.Message, 0)
		if err != nil {
			log.Warn().Err(err).Msg("Search failed")
		} else {
			refs = append(refs, results...)
		}
	}
	return refs
}

// BuildSystemPrompt returns the tutoring guidelines, the current subject when
// one is selected and any reference material found for the question.
func BuildSystemPrompt(subject string, refs []string) string {
	var b strings.Builder
	b.WriteString(systemPromptBase)

	if subject = strings.TrimSpace(subject); subject != "" {
		b.WriteString("\n\nCurrent focus: ")
		b.WriteString(subject)
	}

	if len(refs) > 0 {
		b.WriteString("\n\nReference material (use it when relevant):\n")
		for _, ref := range refs {
			b.WriteString("- ")
			b.WriteString(ref)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// BuildUserPrompt prefixes the question with the student's context, if any
func BuildUserPrompt(message, context string) string {
	if context = strings.TrimSpace(context); context != "" {
		return "Context: " + context + "\n\nQuestion: " + message
	}
	return message
}

// DummyProvider answers offline so the API can run without any model
type DummyProvider struct{}

func (DummyProvider) Name() models.LLMProvider { return models.ProviderDummy }

func (DummyProvider) Model() string { return "dummy" }

func (DummyProvider) Available(context.Context) bool { return true }

func (DummyProvider) Generate(_ context.Context, prompt Prompt) (string, error) {
	question := prompt.User
	if idx := strings.LastIndex(question, "Question: "); idx >= 0 {
		question = question[idx+len("Question: "):]
	}
	return "IsCoolGPT is running without a language model, so I can't answer yet. " +
		"Your question was: " + strings.TrimSpace(question), nil
}
