package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"iscoolgpt/session"
)

// Run shows the chat window until the user quits or ctx is cancelled. view
// must be the View sess was created with.
func Run(ctx context.Context, sess *session.Session, view *ProgramView, opts ...Option) error {
	p := tea.NewProgram(NewModel(ctx, sess, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	view.Attach(p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "chat window failed")
	}
	return nil
}
