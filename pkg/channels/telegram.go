package channels

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/config"
	"github.com/superstream-live/streamrelay/pkg/inline"
	"github.com/superstream-live/streamrelay/pkg/logger"
)

const telegramChannelName = "telegram"

var (
	grugPattern = regexp.MustCompile(`(?i)grug`)
	menuPattern = regexp.MustCompile(`(?i)menu`)
)

// movementReplies maps menu callback data to the reply sent into the chat.
var movementReplies = map[string]string{
	"move:forward": "Forward!",
	"move:left":    "Left!",
	"move:right":   "Right!",
	"move:back":    "Backwards!",
}

// TelegramChannel bridges Telegram updates into relay inbound events and
// answers inline queries from the reaction catalog.
type TelegramChannel struct {
	*BaseChannel
	token     string
	bot       *telego.Bot
	responder *inline.Responder
	cancel    context.CancelFunc
}

func NewTelegramChannel(cfg config.TelegramConfig, eventBus *bus.EventBus, responder *inline.Responder) (*TelegramChannel, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("channels.telegram.token is required")
	}

	return &TelegramChannel{
		BaseChannel: NewBaseChannel(telegramChannelName, eventBus, cfg.AllowFrom),
		token:       token,
		responder:   responder,
	}, nil
}

func (c *TelegramChannel) Start(ctx context.Context) error {
	bot, err := telego.NewBot(c.token)
	if err != nil {
		return fmt.Errorf("initialize telegram bot: %w", err)
	}
	c.bot = bot

	runCtx, cancel := context.WithCancel(ctx)
	updates, err := bot.UpdatesViaLongPolling(runCtx, nil)
	if err != nil {
		cancel()
		return fmt.Errorf("start long polling: %w", err)
	}

	c.cancel = cancel
	c.SetRunning(true)
	go c.updateLoop(runCtx, updates)

	logger.InfoC(telegramChannelName, "Telegram channel started")
	return nil
}

func (c *TelegramChannel) Stop(_ context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}
	c.SetRunning(false)
	return nil
}

func (c *TelegramChannel) updateLoop(ctx context.Context, updates <-chan telego.Update) {
	defer c.SetRunning(false)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			switch {
			case update.Message != nil:
				c.handleMessage(ctx, *update.Message)
			case update.InlineQuery != nil:
				c.handleInlineQuery(ctx, *update.InlineQuery)
			case update.ChosenInlineResult != nil:
				c.handleChosenResult(*update.ChosenInlineResult)
			case update.CallbackQuery != nil:
				c.handleCallback(ctx, *update.CallbackQuery)
			}
		}
	}
}

func (c *TelegramChannel) handleMessage(ctx context.Context, msg telego.Message) {
	if msg.From == nil {
		logger.DebugC(telegramChannelName, "Ignoring message without sender")
		return
	}

	author := bus.Author{
		ID:        msg.From.ID,
		FirstName: msg.From.FirstName,
		Username:  msg.From.Username,
		IsBot:     msg.From.IsBot,
	}
	base := bus.InboundEvent{
		ChatID:    msg.Chat.ID,
		Timestamp: time.Now().UnixMilli(),
		Author:    author,
		Metadata:  map[string]string{"message_id": strconv.Itoa(msg.MessageID)},
	}

	switch {
	case msg.Animation != nil:
		c.publishMedia(ctx, base, bus.EventAnimation, msg.Animation.FileID, msg.Animation.MimeType)

	case msg.Sticker != nil:
		// Stickers carry no MIME type; the normalizer fills the sentinel.
		c.publishMedia(ctx, base, bus.EventSticker, msg.Sticker.FileID, "")

	case len(msg.Photo) > 0:
		largest := msg.Photo[len(msg.Photo)-1]
		c.publishMedia(ctx, base, bus.EventPhoto, largest.FileID, "")

	case msg.Text != "":
		if grugPattern.MatchString(msg.Text) {
			c.reply(ctx, msg, "grug is out! hunting... :(")
			return
		}
		if menuPattern.MatchString(msg.Text) {
			c.sendMenu(ctx, msg.Chat.ID)
			return
		}

		base.Kind = bus.EventText
		base.Text = msg.Text
		c.HandleEvent(base)
	}
}

// publishMedia resolves the platform file path for the ephemeral download
// URL, then hands the event to the pipeline. A metadata failure still
// relays the event; the archiver will fail on the empty URL and the
// normalizer degrades to sentinel fields.
func (c *TelegramChannel) publishMedia(ctx context.Context, base bus.InboundEvent, kind bus.EventKind, fileID, mimeType string) {
	ephemeralURL := ""
	file, err := c.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		logger.WarnCF(telegramChannelName, "File metadata retrieval failed", map[string]any{
			"file_id": fileID,
			"error":   err.Error(),
		})
	} else {
		ephemeralURL = c.bot.FileDownloadURL(file.FilePath)
	}

	base.Kind = kind
	base.Media = &bus.MediaRef{
		FileID:       fileID,
		MimeType:     mimeType,
		EphemeralURL: ephemeralURL,
	}
	c.HandleEvent(base)
}

func (c *TelegramChannel) handleInlineQuery(ctx context.Context, q telego.InlineQuery) {
	candidates := c.responder.Respond(q.Query, q.From.FirstName)

	results := make([]telego.InlineQueryResult, 0, len(candidates))
	for _, cand := range candidates {
		results = append(results, &telego.InlineQueryResultArticle{
			Type:                telego.ResultTypeArticle,
			ID:                  cand.ID,
			Title:               cand.Title,
			InputMessageContent: &telego.InputTextMessageContent{MessageText: cand.MessageText},
		})
	}

	err := c.bot.AnswerInlineQuery(ctx, &telego.AnswerInlineQueryParams{
		InlineQueryID: q.ID,
		Results:       results,
	})
	if err != nil {
		logger.ErrorCF(telegramChannelName, "Failed to answer inline query", map[string]any{
			"query": q.Query,
			"error": err.Error(),
		})
	}
}

func (c *TelegramChannel) handleChosenResult(r telego.ChosenInlineResult) {
	c.HandleEvent(bus.InboundEvent{
		Kind:      bus.EventReactionChosen,
		Timestamp: time.Now().UnixMilli(),
		Author: bus.Author{
			ID:        r.From.ID,
			FirstName: r.From.FirstName,
			Username:  r.From.Username,
			IsBot:     r.From.IsBot,
		},
		ResultID: r.ResultID,
	})
}

func (c *TelegramChannel) handleCallback(ctx context.Context, q telego.CallbackQuery) {
	err := c.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: q.ID})
	if err != nil {
		logger.DebugCF(telegramChannelName, "Failed to answer callback query", map[string]any{
			"error": err.Error(),
		})
	}

	reply, ok := movementReplies[q.Data]
	if !ok || q.Message == nil {
		return
	}

	chat := q.Message.GetChat()
	if _, err := c.bot.SendMessage(ctx, tu.Message(tu.ID(chat.ID), reply)); err != nil {
		logger.ErrorCF(telegramChannelName, "Failed to send movement reply", map[string]any{
			"error": err.Error(),
		})
	}
}

func (c *TelegramChannel) reply(ctx context.Context, to telego.Message, text string) {
	params := tu.Message(tu.ID(to.Chat.ID), text).
		WithReplyParameters(&telego.ReplyParameters{MessageID: to.MessageID})
	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		logger.ErrorCF(telegramChannelName, "Failed to send reply", map[string]any{
			"chat_id": to.Chat.ID,
			"error":   err.Error(),
		})
	}
}

func (c *TelegramChannel) sendMenu(ctx context.Context, chatID int64) {
	keyboard := tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("^").WithCallbackData("move:forward")),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("<").WithCallbackData("move:left"),
			tu.InlineKeyboardButton(">").WithCallbackData("move:right"),
		),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton("v").WithCallbackData("move:back")),
	)

	params := tu.Message(tu.ID(chatID), "Check out this menu:").WithReplyMarkup(keyboard)
	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		logger.ErrorCF(telegramChannelName, "Failed to send menu", map[string]any{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}
