package channels

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/logger"
)

// Channel is one inbound chat-platform adapter. Adapters reduce platform
// updates to bus.InboundEvent and publish them; everything downstream is
// platform-agnostic.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool
	IsAllowed(senderID string) bool
}

type BaseChannel struct {
	bus       *bus.EventBus
	name      string
	allowList []string
	running   atomic.Bool
}

func NewBaseChannel(name string, eventBus *bus.EventBus, allowList []string) *BaseChannel {
	return &BaseChannel{
		bus:       eventBus,
		name:      name,
		allowList: allowList,
	}
}

func (c *BaseChannel) Name() string {
	return c.name
}

func (c *BaseChannel) IsRunning() bool {
	return c.running.Load()
}

func (c *BaseChannel) SetRunning(running bool) {
	c.running.Store(running)
}

// IsAllowed checks the sender against the configured allow list. An empty
// list admits everyone. Entries may be a plain ID, a username (with or
// without a leading "@"), or the compound "id|username" form.
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}

	idPart := senderID
	userPart := ""
	if idx := strings.Index(senderID, "|"); idx > 0 {
		idPart = senderID[:idx]
		userPart = senderID[idx+1:]
	}

	for _, allowed := range c.allowList {
		trimmed := strings.TrimPrefix(allowed, "@")
		allowedID := trimmed
		allowedUser := ""
		if idx := strings.Index(trimmed, "|"); idx > 0 {
			allowedID = trimmed[:idx]
			allowedUser = trimmed[idx+1:]
		}

		if senderID == allowed ||
			idPart == trimmed ||
			idPart == allowedID ||
			(allowedUser != "" && userPart == allowedUser) ||
			(userPart != "" && userPart == trimmed) {
			return true
		}
	}

	return false
}

// HandleEvent applies the allow list, stamps the event with the channel name
// and a scope key, and publishes it on the bus.
func (c *BaseChannel) HandleEvent(ev bus.InboundEvent) {
	senderID := formatSenderID(ev.Author)
	if !c.IsAllowed(senderID) {
		logger.DebugCF(c.name, "Dropping event from unauthorized sender",
			map[string]any{"sender_id": senderID})
		return
	}

	ev.Channel = c.name
	if ev.Scope == "" {
		ev.Scope = BuildEventScope(c.name, ev.ChatID, ev.Metadata["message_id"])
	}

	if err := c.bus.PublishInbound(context.TODO(), ev); err != nil {
		logger.ErrorCF(c.name, "Failed to publish inbound event",
			map[string]any{"error": err.Error()})
	}
}

// formatSenderID yields the compound "id|username" form the allow list
// understands, or the bare ID when the platform gave no username.
func formatSenderID(a bus.Author) string {
	if a.Username != "" {
		return strconv.FormatInt(a.ID, 10) + "|" + a.Username
	}
	return strconv.FormatInt(a.ID, 10)
}

// BuildEventScope constructs a scope key for event lifecycle tracking.
func BuildEventScope(channel string, chatID int64, messageID string) string {
	id := messageID
	if id == "" {
		id = uuid.New().String()
	}
	return channel + ":" + strconv.FormatInt(chatID, 10) + ":" + id
}
