package session

import "iscoolgpt/models"

// Level classifies a notification
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a transient, non-blocking message shown outside the transcript.
type Notification struct {
	Level Level
	Text  string
}

// SubjectOption is one entry of the subject selector. The placeholder entry has an empty Value.
type SubjectOption struct {
	Value string
	Label string
}

// View is the render target and input form a Session drives. Implementations
// are called from whatever goroutine runs the session operation and must not
// call back into the Session synchronously.
type View interface {
	// RenderConversation rebuilds the transcript from scratch.
	RenderConversation(messages []models.Message)
	// RenderSubjects rebuilds the subject selector. The previous selection is dropped.
	RenderSubjects(options []SubjectOption)
	Notify(n Notification)
	// SetLoading toggles the submit control between "Send" and "Sending...".
	SetLoading(loading bool)
	// ResetForm clears the inputs, selects the subject placeholder and focuses the message field.
	ResetForm()
}
