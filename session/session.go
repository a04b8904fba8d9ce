// Package session holds the conversation state of one chat window and keeps
// it in sync with the IsCoolGPT API.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"iscoolgpt/client"
	"iscoolgpt/models"
)

// Rejections of Submit. Each one is reported to the view exactly once and
// leaves the conversation untouched.
var (
	ErrRequestPending = errors.New("a request is already in progress")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMissingBaseURL = errors.New("API base URL is empty")
)

// User facing texts.
const (
	NoticeRequestPending   = "A request is already in progress."
	NoticeEmptyMessage     = "Type a question before sending."
	NoticeMissingBaseURL   = "Enter the API URL."
	NoticeResponseReceived = "Response received!"
	NoticeRequestFailed    = "Failed to reach the API. Check the URL and try again."
	NoticeHistoryCleared   = "History cleared."
	NoticeSubjectsUpdated  = "Subjects refreshed from the API."
	NoticeSubjectsFallback = "Using the default subject list (could not reach the API)."

	NoResponsePlaceholder = "No response provided by the API."
	failurePrefix         = "Could not get a response from the API. Details: "
)

// API is the part of the HTTP client the session needs.
type API interface {
	Subjects(ctx context.Context, baseURL string) ([]string, error)
	Chat(ctx context.Context, baseURL string, req models.ChatRequest) (*models.ChatResponse, error)
}

var _ API = (*client.Client)(nil)

// Input is the content of the compose form at submission time.
type Input struct {
	Message string
	Subject string
	Context string
}

// Session owns one conversation log, the subject catalog and the pending
// flag. All methods are safe for concurrent use; the lock is never held
// across a network call or a view call.
type Session struct {
	api    API
	view   View
	clock  func() time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	baseURL  string
	messages []models.Message
	subjects []string
	pending  bool
	lastTime time.Time
}

type Option func(*Session)

func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

func WithBaseURL(baseURL string) Option {
	return func(s *Session) {
		s.baseURL = client.NormalizeBaseURL(baseURL)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func NewSession(api API, view View, opts ...Option) *Session {
	s := &Session{
		api:    api,
		view:   view,
		clock:  time.Now,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBaseURL stores the normalized base URL. Requests already in flight keep
// the URL they were sent to.
func (s *Session) SetBaseURL(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = client.NormalizeBaseURL(raw)
}

func (s *Session) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Messages returns a copy of the conversation log.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subjects returns a copy of the current catalog.
func (s *Session) Subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.subjects))
	copy(out, s.subjects)
	return out
}

// LoadSubjects replaces the catalog with the one served by the API, or with
// FallbackSubjects on any failure. It never fails; failures are notified.
func (s *Session) LoadSubjects(ctx context.Context, notify bool) {
	baseURL := s.BaseURL()
	s.view.RenderSubjects(loadingOptions())

	subjects, err := s.fetchSubjects(ctx, baseURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("base_url", baseURL).Msg("Could not load subjects, using fallback list")
		s.replaceSubjects(FallbackSubjects)
		s.view.Notify(Notification{Level: LevelError, Text: NoticeSubjectsFallback})
		return
	}
	if subjects == nil {
		subjects = FallbackSubjects
	}

	s.replaceSubjects(subjects)
	s.logger.Debug().Int("count", len(subjects)).Str("base_url", baseURL).Msg("Subjects loaded")
	if notify {
		s.view.Notify(Notification{Level: LevelSuccess, Text: NoticeSubjectsUpdated})
	}
}

func (s *Session) fetchSubjects(ctx context.Context, baseURL string) ([]string, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	return s.api.Subjects(ctx, baseURL)
}

func (s *Session) replaceSubjects(subjects []string) {
	catalog := make([]string, len(subjects))
	copy(catalog, subjects)

	s.mu.Lock()
	s.subjects = catalog
	s.mu.Unlock()

	s.view.RenderSubjects(SubjectOptions(catalog))
}

// Submit validates the input, appends the user turn, renders it, and only
// then sends it to the API. The answer, or a turn describing the failure, is
// appended when the request settles. Validation failures are returned;
// API failures are not, they live in the transcript.
func (s *Session) Submit(ctx context.Context, in Input) error {
	message := strings.TrimSpace(in.Message)

	s.mu.Lock()
	var rejection error
	var notice string
	switch {
	case s.pending:
		rejection, notice = ErrRequestPending, NoticeRequestPending
	case message == "":
		rejection, notice = ErrEmptyMessage, NoticeEmptyMessage
	case s.baseURL == "":
		rejection, notice = ErrMissingBaseURL, NoticeMissingBaseURL
	}
	if rejection != nil {
		s.mu.Unlock()
		s.view.Notify(Notification{Level: LevelError, Text: notice})
		return rejection
	}

	baseURL := s.baseURL
	s.pending = true
	s.appendLocked(models.RoleUser, message)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.view.RenderConversation(snapshot)
	s.view.SetLoading(true)
	defer s.settle()

	req := models.ChatRequest{
		Message: message,
		Subject: strings.TrimSpace(in.Subject),
		Context: strings.TrimSpace(in.Context),
	}

	resp, err := s.api.Chat(ctx, baseURL, req)
	if err != nil {
		s.logger.Error().Err(err).Str("base_url", baseURL).Msg("Chat request failed")
		s.appendAndRender(models.RoleAssistant, failurePrefix+failureDetail(err))
		s.view.Notify(Notification{Level: LevelError, Text: NoticeRequestFailed})
		return nil
	}

	content := NoResponsePlaceholder
	if resp.Response != nil {
		content = *resp.Response
	}
	s.appendAndRender(models.RoleAssistant, content)
	s.view.Notify(Notification{Level: LevelSuccess, Text: NoticeResponseReceived})
	return nil
}

// Clear empties the log. A request in flight is not cancelled and its
// answer lands in the cleared log.
func (s *Session) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()

	s.view.RenderConversation(nil)
	s.view.Notify(Notification{Level: LevelInfo, Text: NoticeHistoryCleared})
}

func (s *Session) settle() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()

	s.view.SetLoading(false)
	s.view.ResetForm()
}

func (s *Session) appendAndRender(role models.Role, content string) {
	s.mu.Lock()
	s.appendLocked(role, content)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.view.RenderConversation(snapshot)
}

// appendLocked stamps the message with the clock, clamped so timestamps
// never go backwards in insertion order.
func (s *Session) appendLocked(role models.Role, content string) {
	now := s.clock()
	if now.Before(s.lastTime) {
		now = s.lastTime
	}
	s.lastTime = now
	s.messages = append(s.messages, models.Message{Role: role, Content: content, Timestamp: now})
}

func (s *Session) snapshotLocked() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func failureDetail(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return errors.Cause(err).Error()
}
