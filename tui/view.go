package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"iscoolgpt/models"
	"iscoolgpt/session"
)

type conversationMsg struct{ messages []models.Message }

type subjectsMsg struct{ options []session.SubjectOption }

type notifyMsg struct{ notification session.Notification }

type loadingMsg struct{ loading bool }

type resetFormMsg struct{}

type clearNoticeMsg struct{ id int }

// ProgramView forwards session updates into the bubbletea event loop. It
// must be attached to a running program; updates sent before that are
// dropped.
type ProgramView struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var _ session.View = (*ProgramView)(nil)

func NewProgramView() *ProgramView {
	return &ProgramView{}
}

// Attach routes updates to p
func (v *ProgramView) Attach(p *tea.Program) {
	v.attach(p.Send)
}

func (v *ProgramView) attach(send func(tea.Msg)) {
	v.mu.Lock()
	v.send = send
	v.mu.Unlock()
}

func (v *ProgramView) post(msg tea.Msg) {
	v.mu.Lock()
	send := v.send
	v.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (v *ProgramView) RenderConversation(messages []models.Message) {
	v.post(conversationMsg{messages: messages})
}

func (v *ProgramView) RenderSubjects(options []session.SubjectOption) {
	v.post(subjectsMsg{options: options})
}

func (v *ProgramView) Notify(n session.Notification) {
	v.post(notifyMsg{notification: n})
}

func (v *ProgramView) SetLoading(loading bool) {
	v.post(loadingMsg{loading: loading})
}

func (v *ProgramView) ResetForm() {
	v.post(resetFormMsg{})
}
