package session

import (
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"iscoolgpt/models"
)

const (
	UserLabel             = "You"
	AssistantLabel        = "IsCoolGPT"
	TranscriptPlaceholder = "Send a question to see IsCoolGPT's answer."
	timeLayout            = "15:04"
)

// Entry is one rendered transcript block.
type Entry struct {
	Role  models.Role
	Label string
	Time  string
	Body  string
}

// Transcript turns the log into display entries, oldest first. Bodies are
// literal text: terminal escape sequences and control characters coming
// from the API are removed. loc selects the time zone of the stamps; nil
// means local time.
func Transcript(messages []models.Message, loc *time.Location) []Entry {
	if loc == nil {
		loc = time.Local
	}
	entries := make([]Entry, 0, len(messages))
	for _, msg := range messages {
		label := AssistantLabel
		if msg.Role == models.RoleUser {
			label = UserLabel
		}
		entries = append(entries, Entry{
			Role:  msg.Role,
			Label: label,
			Time:  msg.Timestamp.In(loc).Format(timeLayout),
			Body:  Literal(msg.Content),
		})
	}
	return entries
}

// RenderTranscript renders the log as plain text. An empty log renders the placeholder.
func RenderTranscript(messages []models.Message, loc *time.Location) string {
	if len(messages) == 0 {
		return TranscriptPlaceholder
	}

	var b strings.Builder
	for i, entry := range Transcript(messages, loc) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(entry.Label)
		b.WriteString(" · ")
		b.WriteString(entry.Time)
		b.WriteString("\n")
		b.WriteString(entry.Body)
	}
	return b.String()
}

// Literal strips anything a terminal would interpret instead of print.
func Literal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
