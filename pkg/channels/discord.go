package channels

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/config"
	"github.com/superstream-live/streamrelay/pkg/logger"
)

const discordChannelName = "discord"

// DiscordChannel bridges Discord messages into relay inbound events.
// Attachments map onto the media kinds: GIFs become animations, other
// images become photos.
type DiscordChannel struct {
	*BaseChannel
	token   string
	session *discordgo.Session
}

func NewDiscordChannel(cfg config.DiscordConfig, eventBus *bus.EventBus) (*DiscordChannel, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("channels.discord.token is required")
	}

	return &DiscordChannel{
		BaseChannel: NewBaseChannel(discordChannelName, eventBus, cfg.AllowFrom),
		token:       token,
	}, nil
}

func (c *DiscordChannel) Start(_ context.Context) error {
	session, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return fmt.Errorf("initialize discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	session.AddHandler(c.onMessageCreate)

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	c.session = session
	c.SetRunning(true)
	logger.InfoC(discordChannelName, "Discord channel started")
	return nil
}

func (c *DiscordChannel) Stop(_ context.Context) error {
	c.SetRunning(false)
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *DiscordChannel) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	// Never relay our own outbound traffic back in.
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	authorID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		logger.WarnCF(discordChannelName, "Unparseable author ID", map[string]any{
			"author_id": m.Author.ID,
		})
		return
	}
	chatID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		logger.WarnCF(discordChannelName, "Unparseable channel ID", map[string]any{
			"channel_id": m.ChannelID,
		})
		return
	}

	firstName := m.Author.GlobalName
	if firstName == "" {
		firstName = m.Author.Username
	}

	base := bus.InboundEvent{
		ChatID:    chatID,
		Timestamp: time.Now().UnixMilli(),
		Author: bus.Author{
			ID:        authorID,
			FirstName: firstName,
			Username:  m.Author.Username,
			IsBot:     m.Author.Bot,
		},
		Metadata: map[string]string{"message_id": m.ID},
	}

	for _, att := range m.Attachments {
		kind, ok := attachmentKind(att.ContentType)
		if !ok {
			continue
		}

		ev := base
		ev.Kind = kind
		ev.Media = &bus.MediaRef{
			FileID:       att.ID,
			MimeType:     att.ContentType,
			EphemeralURL: att.URL,
		}
		c.HandleEvent(ev)
	}

	if m.Content != "" {
		ev := base
		ev.Kind = bus.EventText
		ev.Text = m.Content
		c.HandleEvent(ev)
	}
}

func attachmentKind(contentType string) (bus.EventKind, bool) {
	switch {
	case contentType == "image/gif":
		return bus.EventAnimation, true
	case strings.HasPrefix(contentType, "image/"):
		return bus.EventPhoto, true
	default:
		return "", false
	}
}
