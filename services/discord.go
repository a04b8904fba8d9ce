package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"iscoolgpt/models"
	"iscoolgpt/session"
)

const (
	defaultCommandPrefix = "!iscool "
	discordMessageLimit  = 2000
	discordChunkSize     = 1900
)

const discordHelp = "**IsCoolGPT** commands:\n" +
	"`%[1]sask <question>` ask a question (or just `%[1]s<question>`)\n" +
	"`%[1]ssubject <name|none>` set the subject for your next question\n" +
	"`%[1]scontext <text|none>` set extra context for your next question\n" +
	"`%[1]ssubjects` list the available subjects\n" +
	"`%[1]sclear` clear this channel's history\n" +
	"`%[1]shelp` show this message"

// discordSender is the part of *discordgo.Session the bot writes through
type discordSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// DiscordService hosts one conversation session per Discord channel and
// drives it with prefixed chat commands.
type DiscordService struct {
	dg         *discordgo.Session
	sender     discordSender
	api        session.API
	cfg        models.DiscordConfig
	chunkDelay time.Duration
	startTime  time.Time

	mu       sync.Mutex
	channels map[string]*discordChannel
}

type discordChannel struct {
	id      string
	session *session.Session
	view    *discordView
}

// NewDiscordService creates a new Discord front end talking to the API at
// cfg.APIBaseURL
func NewDiscordService(cfg models.DiscordConfig, api session.API) (*DiscordService, error) {
	if cfg.Token == "" {
		return nil, errors.New("Discord bot disabled: DISCORD_BOT_TOKEN not set")
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "error creating Discord session")
	}

	d := newDiscordService(cfg, api, dg)
	d.dg = dg

	dg.AddHandler(func(s *discordgo.Session, event *discordgo.Ready) {
		log.Info().Str("user", event.User.Username).Int("guilds", len(event.Guilds)).Msg("Bot is online")
	})
	dg.AddHandler(d.messageCreate)
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	return d, nil
}

func newDiscordService(cfg models.DiscordConfig, api session.API, sender discordSender) *DiscordService {
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = defaultCommandPrefix
	}
	return &DiscordService{
		sender:     sender,
		api:        api,
		cfg:        cfg,
		chunkDelay: 200 * time.Millisecond,
		startTime:  time.Now(),
		channels:   make(map[string]*discordChannel),
	}
}

// Start opens the gateway connection
func (d *DiscordService) Start() error {
	if err := d.dg.Open(); err != nil {
		return errors.Wrap(err, "error opening Discord connection")
	}
	log.Info().Str("prefix", d.cfg.CommandPrefix).Str("api", d.cfg.APIBaseURL).Msg("Discord bot started")
	return nil
}

// Stop closes the Discord bot connection
func (d *DiscordService) Stop() error {
	if d.dg != nil {
		return d.dg.Close()
	}
	return nil
}

func (d *DiscordService) Status() models.DiscordStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return models.DiscordStatus{
		Enabled:       d.dg != nil,
		CommandPrefix: d.cfg.CommandPrefix,
		Uptime:        time.Since(d.startTime).Round(time.Second).String(),
		Sessions:      len(d.channels),
	}
}

func (d *DiscordService) messageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	d.handle(context.Background(), m.Message)
}

func (d *DiscordService) handle(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return
	}

	cmd, arg, ok := parseCommand(m.Content, d.cfg.CommandPrefix)
	if !ok {
		return
	}

	ch := d.channel(m.ChannelID)
	log.Debug().
		Str("channel", m.ChannelID).
		Str("user", m.Author.Username).
		Str("command", cmd).
		Msg("Discord command")

	switch cmd {
	case "ask":
		if err := ch.session.Submit(ctx, ch.view.input(arg)); err != nil {
			log.Debug().Err(err).Str("channel", m.ChannelID).Msg("Question rejected")
		}
	case "subject":
		d.setSubject(ch, arg)
	case "context":
		if isNone(arg) {
			ch.view.setContext("")
			d.send(m.ChannelID, "Context cleared.")
			return
		}
		ch.view.setContext(arg)
		d.send(m.ChannelID, "Context set for your next question.")
	case "subjects":
		ch.view.announceSubjects()
		ch.session.LoadSubjects(ctx, false)
	case "clear":
		ch.session.Clear()
	default:
		d.send(m.ChannelID, fmt.Sprintf(discordHelp, d.cfg.CommandPrefix))
	}
}

func (d *DiscordService) setSubject(ch *discordChannel, arg string) {
	if isNone(arg) {
		ch.view.setSubject("")
		d.send(ch.id, "Subject cleared.")
		return
	}

	subject := arg
	for _, known := range ch.session.Subjects() {
		if strings.EqualFold(known, arg) {
			subject = known
			break
		}
	}
	ch.view.setSubject(subject)
	d.send(ch.id, fmt.Sprintf("Subject set to **%s** for your next question.", subject))
}

// channel returns the channel's session, creating it on first use
func (d *DiscordService) channel(channelID string) *discordChannel {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ch, ok := d.channels[channelID]; ok {
		return ch
	}

	sessionID := uuid.NewString()
	view := &discordView{channelID: channelID, bot: d}
	ch := &discordChannel{
		id:   channelID,
		view: view,
		session: session.NewSession(d.api, view,
			session.WithBaseURL(d.cfg.APIBaseURL),
			session.WithLogger(log.With().Str("channel", channelID).Str("session_id", sessionID).Logger()),
		),
	}
	d.channels[channelID] = ch
	log.Info().Str("channel", channelID).Str("session_id", sessionID).Msg("Started channel session")
	return ch
}

// send posts a message, splitting it under Discord's length limit
func (d *DiscordService) send(channelID, message string) {
	if message == "" {
		return
	}
	if len([]rune(message)) <= discordMessageLimit {
		if _, err := d.sender.ChannelMessageSend(channelID, message); err != nil {
			log.Error().Err(err).Str("channel", channelID).Msg("Error sending Discord message")
		}
		return
	}

	chunks := splitMessage(message, discordChunkSize)
	for i, chunk := range chunks {
		if i > 0 {
			chunk = "...continued:\n" + chunk
			time.Sleep(d.chunkDelay)
		}
		if i < len(chunks)-1 {
			chunk += "\n..."
		}
		if _, err := d.sender.ChannelMessageSend(channelID, chunk); err != nil {
			log.Error().Err(err).Str("channel", channelID).Int("chunk", i).Msg("Error sending Discord message chunk")
		}
	}
}

// parseCommand splits "<prefix><command> <argument>". Text after the prefix
// that is not a known command is a question.
func parseCommand(content, prefix string) (cmd, arg string, ok bool) {
	if prefix == "" {
		return "", "", false
	}
	if !strings.HasPrefix(content, prefix) {
		// the bare prefix without its trailing space
		if strings.TrimSpace(content) == strings.TrimSpace(prefix) {
			return "help", "", true
		}
		return "", "", false
	}

	rest := strings.TrimSpace(content[len(prefix):])
	if rest == "" {
		return "help", "", true
	}

	word, tail, _ := strings.Cut(rest, " ")
	switch w := strings.ToLower(word); w {
	case "ask", "subject", "context", "subjects", "clear", "help":
		return w, strings.TrimSpace(tail), true
	}
	return "ask", rest, true
}

func isNone(arg string) bool {
	arg = strings.ToLower(strings.TrimSpace(arg))
	return arg == "" || arg == "none"
}

// splitMessage splits a message into chunks of at most maxLength runes,
// preferring word boundaries
func splitMessage(message string, maxLength int) []string {
	runes := []rune(message)
	if len(runes) <= maxLength {
		return []string{message}
	}

	var chunks []string
	for len(runes) > maxLength {
		splitIndex := maxLength
		for i := maxLength; i > maxLength/2; i-- {
			if runes[i] == ' ' || runes[i] == '\n' {
				splitIndex = i
				break
			}
		}

		chunks = append(chunks, string(runes[:splitIndex]))
		runes = runes[splitIndex:]
		if len(runes) > 0 && (runes[0] == ' ' || runes[0] == '\n') {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// discordView renders a channel session into the channel. Only assistant
// turns are posted since the user's own message is already visible.
type discordView struct {
	channelID string
	bot       *DiscordService

	mu       sync.Mutex
	posted   int
	subject  string
	context  string
	announce bool
}

var _ session.View = (*discordView)(nil)

func (v *discordView) input(message string) session.Input {
	v.mu.Lock()
	defer v.mu.Unlock()
	return session.Input{Message: message, Subject: v.subject, Context: v.context}
}

func (v *discordView) setSubject(subject string) {
	v.mu.Lock()
	v.subject = subject
	v.mu.Unlock()
}

func (v *discordView) setContext(context string) {
	v.mu.Lock()
	v.context = context
	v.mu.Unlock()
}

func (v *discordView) announceSubjects() {
	v.mu.Lock()
	v.announce = true
	v.mu.Unlock()
}

func (v *discordView) RenderConversation(messages []models.Message) {
	v.mu.Lock()
	if len(messages) < v.posted {
		v.posted = 0
	}
	fresh := messages[v.posted:]
	v.posted = len(messages)
	v.mu.Unlock()

	for _, msg := range fresh {
		if msg.Role == models.RoleAssistant {
			v.bot.send(v.channelID, session.Literal(msg.Content))
		}
	}
}

func (v *discordView) RenderSubjects(options []session.SubjectOption) {
	var names []string
	for _, opt := range options {
		if opt.Value != "" {
			names = append(names, opt.Value)
		}
	}
	if len(names) == 0 {
		return
	}

	v.mu.Lock()
	announce := v.announce
	v.announce = false
	v.mu.Unlock()

	if announce {
		v.bot.send(v.channelID, "Subjects: "+strings.Join(names, ", "))
	}
}

func (v *discordView) Notify(n session.Notification) {
	switch n.Level {
	case session.LevelSuccess:
		return
	case session.LevelError:
		v.bot.send(v.channelID, "⚠️ "+n.Text)
	default:
		v.bot.send(v.channelID, n.Text)
	}
}

func (v *discordView) SetLoading(loading bool) {
	if !loading {
		return
	}
	if err := v.bot.sender.ChannelTyping(v.channelID); err != nil {
		log.Debug().Err(err).Str("channel", v.channelID).Msg("Typing indicator failed")
	}
}

// ResetForm drops the subject and context once a question has been answered
func (v *discordView) ResetForm() {
	v.mu.Lock()
	v.subject = ""
	v.context = ""
	v.mu.Unlock()
}
