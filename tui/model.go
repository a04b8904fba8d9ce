// Package tui is the terminal chat window: a bubbletea front end driving a
// session.Session.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"iscoolgpt/client"
	"iscoolgpt/models"
	"iscoolgpt/session"
)

const (
	SendLabel    = "Send"
	SendingLabel = "Sending..."

	noticeTTL  = 4 * time.Second
	formHeight = 9
)

type field int

const (
	fieldURL field = iota
	fieldSubject
	fieldContext
	fieldMessage
	fieldCount
)

// Model is the chat window
type Model struct {
	ctx  context.Context
	sess *session.Session
	loc  *time.Location

	apiURL  textinput.Model
	context textinput.Model
	message textinput.Model

	subjects   []session.SubjectOption
	subjectIdx int
	focus      field

	viewport viewport.Model
	spinner  spinner.Model
	messages []models.Message
	loading  bool

	notice   *session.Notification
	noticeID int

	width  int
	height int
}

type Option func(*Model)

// WithLocation sets the time zone of transcript stamps
func WithLocation(loc *time.Location) Option {
	return func(m *Model) {
		m.loc = loc
	}
}

func NewModel(ctx context.Context, sess *session.Session, opts ...Option) Model {
	apiURL := textinput.New()
	apiURL.Placeholder = "http://localhost:8000"
	apiURL.SetValue(sess.BaseURL())

	ctxInput := textinput.New()
	ctxInput.Placeholder = "Optional: what you are studying right now"

	message := textinput.New()
	message.Placeholder = "Type your question"
	message.CharLimit = 2000
	message.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		sess:     sess,
		apiURL:   apiURL,
		context:  ctxInput,
		message:  message,
		subjects: session.SubjectOptions(nil),
		focus:    fieldMessage,
		viewport: viewport.New(80, 10),
		spinner:  sp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.viewport.SetContent(m.renderTranscript())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadSubjectsCmd(false))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-formHeight-4, 3)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case conversationMsg:
		m.messages = msg.messages
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case subjectsMsg:
		m.subjects = msg.options
		m.subjectIdx = 0
		return m, nil

	case notifyMsg:
		n := msg.notification
		m.notice = &n
		m.noticeID++
		id := m.noticeID
		return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{id: id} })

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = nil
		}
		return m, nil

	case loadingMsg:
		m.loading = msg.loading
		if m.loading {
			return m, m.spinner.Tick
		}
		return m, nil

	case resetFormMsg:
		m.message.Reset()
		m.context.Reset()
		m.subjectIdx = 0
		cmd := m.setFocus(fieldMessage)
		return m, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		cmd := m.setFocus((m.focus + 1) % fieldCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case "ctrl+l":
		return m, m.clearCmd()
	case "ctrl+r":
		return m, m.loadSubjectsCmd(true)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "enter":
		if m.focus == fieldURL {
			return m, m.changeURLCmd()
		}
		return m, m.submitCmd()
	}

	if m.focus == fieldSubject {
		switch msg.String() {
		case "left", "h":
			if m.subjectIdx > 0 {
				m.subjectIdx--
			}
		case "right", "l", " ":
			if m.subjectIdx < len(m.subjects)-1 {
				m.subjectIdx++
			}
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// setFocus moves the focus. Leaving an edited URL field applies the new URL
// and reloads the subjects, like pressing enter in it.
func (m *Model) setFocus(f field) tea.Cmd {
	var reload tea.Cmd
	if m.focus == fieldURL && f != fieldURL && client.NormalizeBaseURL(m.apiURL.Value()) != m.sess.BaseURL() {
		m.sess.SetBaseURL(m.apiURL.Value())
		reload = m.loadSubjectsCmd(true)
	}

	m.focus = f
	m.apiURL.Blur()
	m.context.Blur()
	m.message.Blur()

	var focus tea.Cmd
	switch f {
	case fieldURL:
		focus = m.apiURL.Focus()
	case fieldContext:
		focus = m.context.Focus()
	case fieldMessage:
		focus = m.message.Focus()
	}
	return tea.Batch(focus, reload)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldURL:
		m.apiURL, cmd = m.apiURL.Update(msg)
	case fieldContext:
		m.context, cmd = m.context.Update(msg)
	case fieldMessage:
		m.message, cmd = m.message.Update(msg)
	}
	return m, cmd
}

func (m Model) selectedSubject() string {
	if m.subjectIdx < 0 || m.subjectIdx >= len(m.subjects) {
		return ""
	}
	return m.subjects[m.subjectIdx].Value
}

// Input is the form content a submission would send
func (m Model) Input() session.Input {
	return session.Input{
		Message: m.message.Value(),
		Subject: m.selectedSubject(),
		Context: m.context.Value(),
	}
}

// Session calls run as commands: they call back into the view, which
// blocks on the event loop.
func (m Model) submitCmd() tea.Cmd {
	in := m.Input()
	raw := m.apiURL.Value()
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		// the URL field is read at submission time
		sess.SetBaseURL(raw)
		_ = sess.Submit(ctx, in)
		return nil
	}
}

func (m Model) changeURLCmd() tea.Cmd {
	raw := m.apiURL.Value()
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		sess.SetBaseURL(raw)
		sess.LoadSubjects(ctx, true)
		return nil
	}
}

func (m Model) loadSubjectsCmd(notify bool) tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		sess.LoadSubjects(ctx, notify)
		return nil
	}
}

func (m Model) clearCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		sess.Clear()
		return nil
	}
}

func (m Model) renderTranscript() string {
	if len(m.messages) == 0 {
		return placeholderStyle.Render(session.TranscriptPlaceholder)
	}

	width := m.viewport.Width
	blocks := make([]string, 0, len(m.messages))
	for _, entry := range session.Transcript(m.messages, m.loc) {
		labelStyle := assistantLabelStyle
		if entry.Role == models.RoleUser {
			labelStyle = userLabelStyle
		}
		header := labelStyle.Render(entry.Label) + " " + timeStyle.Render("· "+entry.Time)
		body := lipgloss.NewStyle().Width(width).Render(entry.Body)
		blocks = append(blocks, header+"\n"+body)
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) buttonLabel() string {
	if m.loading {
		return SendingLabel
	}
	return SendLabel
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("IsCoolGPT"))
	b.WriteString("\n")
	b.WriteString(transcriptPane.Render(m.viewport.View()))
	b.WriteString("\n")

	b.WriteString(m.fieldLabel(fieldURL, "API URL") + m.apiURL.View() + "\n")
	b.WriteString(m.fieldLabel(fieldSubject, "Subject") + m.subjectView() + "\n")
	b.WriteString(m.fieldLabel(fieldContext, "Context") + m.context.View() + "\n")
	b.WriteString(m.fieldLabel(fieldMessage, "Question") + m.message.View() + "\n")

	button := buttonStyle.Render(m.buttonLabel())
	if m.loading {
		button = buttonLoadingStyle.Render(m.buttonLabel()) + " " + m.spinner.View()
	}
	b.WriteString(button)
	if m.notice != nil {
		b.WriteString("  ")
		b.WriteString(noticeStyles[m.notice.Level.String()].Render(m.notice.Text))
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("enter send • tab move • ←/→ subject • ctrl+l clear • ctrl+r reload subjects • pgup/pgdn scroll • esc quit"))
	return b.String()
}

func (m Model) fieldLabel(f field, label string) string {
	if m.focus == f {
		return focusedLabelStyle.Render(label)
	}
	return fieldLabelStyle.Render(label)
}

func (m Model) subjectView() string {
	label := session.PlaceholderSubjectLabel
	if m.subjectIdx >= 0 && m.subjectIdx < len(m.subjects) {
		label = m.subjects[m.subjectIdx].Label
	}
	if m.focus == fieldSubject {
		return "‹ " + label + " ›"
	}
	return label
}
