package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iscoolgpt/models"
	"iscoolgpt/session"
)

type fakeAPI struct {
	mu       sync.Mutex
	requests []models.ChatRequest
	subjects []string
}

func (f *fakeAPI) Subjects(context.Context, string) ([]string, error) {
	return f.subjects, nil
}

func (f *fakeAPI) Chat(_ context.Context, _ string, req models.ChatRequest) (*models.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	answer := "answer to " + req.Message
	return &models.ChatResponse{Response: &answer, Model: "dummy"}, nil
}

type capture struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *capture) send(msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func newTestModel(api *fakeAPI) (Model, *capture) {
	view := NewProgramView()
	c := &capture{}
	view.attach(c.send)
	sess := session.NewSession(api, view, session.WithBaseURL("http://api.test"))
	return NewModel(context.Background(), sess, WithLocation(time.UTC)), c
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestInitialView(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})
	out := m.View()
	assert.Contains(t, out, session.TranscriptPlaceholder)
	assert.Contains(t, out, SendLabel)
	assert.Contains(t, out, session.PlaceholderSubjectLabel)
	assert.Equal(t, "http://api.test", m.apiURL.Value())
}

func TestLoadingTogglesButton(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})

	m, cmd := update(t, m, loadingMsg{loading: true})
	assert.NotNil(t, cmd)
	assert.Equal(t, SendingLabel, m.buttonLabel())
	assert.Contains(t, m.View(), SendingLabel)

	m, _ = update(t, m, loadingMsg{loading: false})
	assert.Equal(t, SendLabel, m.buttonLabel())
}

func TestConversationRendering(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})
	stamp := time.Date(2024, 5, 1, 14, 5, 0, 0, time.UTC)

	m, _ = update(t, m, conversationMsg{messages: []models.Message{
		{Role: models.RoleUser, Content: "What is pi?", Timestamp: stamp},
		{Role: models.RoleAssistant, Content: "About 3.14.\x1b[2J", Timestamp: stamp},
	}})

	out := m.renderTranscript()
	assert.Contains(t, out, session.UserLabel)
	assert.Contains(t, out, session.AssistantLabel)
	assert.Contains(t, out, "14:05")
	assert.Contains(t, out, "What is pi?")
	assert.Contains(t, out, "About 3.14.")
	assert.NotContains(t, out, "\x1b[2J")
	assert.NotContains(t, out, session.TranscriptPlaceholder)

	m, _ = update(t, m, conversationMsg{messages: nil})
	assert.Contains(t, m.renderTranscript(), session.TranscriptPlaceholder)
}

func TestSubjectSelection(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})
	m, _ = update(t, m, subjectsMsg{options: session.SubjectOptions([]string{"Física", "Química"})})
	assert.Equal(t, "", m.Input().Subject)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, fieldSubject, m.focus)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "Física", m.Input().Subject)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "Química", m.Input().Subject)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "Física", m.Input().Subject)

	// a fresh catalog drops the selection
	m, _ = update(t, m, subjectsMsg{options: session.SubjectOptions([]string{"Biologia"})})
	assert.Equal(t, "", m.Input().Subject)
}

func TestResetForm(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})
	m, _ = update(t, m, subjectsMsg{options: session.SubjectOptions([]string{"Física"})})
	m.subjectIdx = 1
	m = typeText(t, m, "question")
	m.context.SetValue("chapter 1")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldURL, m.focus)

	m, _ = update(t, m, resetFormMsg{})
	assert.Equal(t, session.Input{}, m.Input())
	assert.Equal(t, fieldMessage, m.focus)
	assert.True(t, m.message.Focused())
}

func TestNotificationExpires(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})

	m, cmd := update(t, m, notifyMsg{notification: session.Notification{Level: session.LevelError, Text: "boom"}})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "boom")
	first := m.noticeID

	m, _ = update(t, m, notifyMsg{notification: session.Notification{Level: session.LevelSuccess, Text: "fine"}})
	m, _ = update(t, m, clearNoticeMsg{id: first})
	assert.Contains(t, m.View(), "fine")

	m, _ = update(t, m, clearNoticeMsg{id: m.noticeID})
	assert.Nil(t, m.notice)
}

func TestEnterSubmits(t *testing.T) {
	api := &fakeAPI{}
	m, c := newTestModel(api)
	m, _ = update(t, m, subjectsMsg{options: session.SubjectOptions([]string{"Física"})})
	m.subjectIdx = 1
	m.context.SetValue("homework")
	m = typeText(t, m, "Why is the sky blue?")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	require.Len(t, api.requests, 1)
	assert.Equal(t, models.ChatRequest{Message: "Why is the sky blue?", Subject: "Física", Context: "homework"}, api.requests[0])

	var kinds []string
	for _, msg := range c.msgs {
		switch msg := msg.(type) {
		case conversationMsg:
			kinds = append(kinds, "conversation")
		case loadingMsg:
			if msg.loading {
				kinds = append(kinds, "loading")
			} else {
				kinds = append(kinds, "loaded")
			}
		case notifyMsg:
			kinds = append(kinds, "notify")
		case resetFormMsg:
			kinds = append(kinds, "reset")
		}
	}
	assert.Equal(t, []string{"conversation", "loading", "conversation", "notify", "loaded", "reset"}, kinds)
}

func TestEnterOnURLReloadsSubjects(t *testing.T) {
	api := &fakeAPI{subjects: []string{"Astronomia"}}
	m, c := newTestModel(api)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldURL, m.focus)
	m.apiURL.SetValue("http://other.test/")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, "http://other.test", m.sess.BaseURL())
	require.NotEmpty(t, c.msgs)
	last, ok := c.msgs[len(c.msgs)-1].(notifyMsg)
	require.True(t, ok)
	assert.Equal(t, session.NoticeSubjectsUpdated, last.notification.Text)

	var options []session.SubjectOption
	for _, msg := range c.msgs {
		if s, ok := msg.(subjectsMsg); ok {
			options = s.options
		}
	}
	assert.Equal(t, session.SubjectOptions([]string{"Astronomia"}), options)
}

func TestClearedURLRejectsSubmission(t *testing.T) {
	api := &fakeAPI{}
	m, c := newTestModel(api)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldURL, m.focus)
	m.apiURL.SetValue("")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, fieldMessage, m.focus)
	assert.NotNil(t, cmd)
	assert.Equal(t, "", m.sess.BaseURL())

	m = typeText(t, m, "hi")
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	assert.Empty(t, api.requests)
	assert.Empty(t, m.sess.Messages())
	var notices []string
	for _, msg := range c.msgs {
		if n, ok := msg.(notifyMsg); ok {
			notices = append(notices, n.notification.Text)
		}
	}
	assert.Equal(t, []string{session.NoticeMissingBaseURL}, notices)
}

func TestSubmitReadsURLField(t *testing.T) {
	api := &fakeAPI{}
	m, _ := newTestModel(api)
	// edited without leaving the field through the form
	m.apiURL.SetValue("http://new.test/")
	m = typeText(t, m, "hi")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, "http://new.test", m.sess.BaseURL())
	require.Len(t, api.requests, 1)
}

func TestUnchangedURLDoesNotReload(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldURL, m.focus)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "http://api.test", m.sess.BaseURL())
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 96, m.viewport.Width)
	assert.Equal(t, 40-formHeight-4, m.viewport.Height)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
