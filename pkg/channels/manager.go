package channels

import (
	"context"
	"fmt"
	"sort"

	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/config"
	"github.com/superstream-live/streamrelay/pkg/inline"
	"github.com/superstream-live/streamrelay/pkg/logger"
)

// Manager owns the configured channel adapters.
type Manager struct {
	channels map[string]Channel
}

func NewManager(cfg *config.Config, eventBus *bus.EventBus, responder *inline.Responder) (*Manager, error) {
	m := &Manager{channels: make(map[string]Channel)}

	if cfg.Channels.Telegram.Enabled {
		ch, err := NewTelegramChannel(cfg.Channels.Telegram, eventBus, responder)
		if err != nil {
			return nil, fmt.Errorf("telegram channel: %w", err)
		}
		m.channels[ch.Name()] = ch
	}

	if cfg.Channels.Discord.Enabled {
		ch, err := NewDiscordChannel(cfg.Channels.Discord, eventBus)
		if err != nil {
			return nil, fmt.Errorf("discord channel: %w", err)
		}
		m.channels[ch.Name()] = ch
	}

	return m, nil
}

// StartAll starts every channel. A channel that fails to start is logged
// and skipped; the relay runs with whatever came up.
func (m *Manager) StartAll(ctx context.Context) error {
	var firstErr error
	for name, ch := range m.channels {
		if err := ch.Start(ctx); err != nil {
			logger.ErrorCF("channels", "Channel failed to start", map[string]any{
				"channel": name,
				"error":   err.Error(),
			})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *Manager) StopAll(ctx context.Context) {
	for name, ch := range m.channels {
		if err := ch.Stop(ctx); err != nil {
			logger.WarnCF("channels", "Channel failed to stop", map[string]any{
				"channel": name,
				"error":   err.Error(),
			})
		}
	}
}

// GetChannel returns a channel by name.
func (m *Manager) GetChannel(name string) (Channel, bool) {
	ch, ok := m.channels[name]
	return ch, ok
}

// EnabledChannels lists configured channel names, sorted for stable output.
func (m *Manager) EnabledChannels() []string {
	names := make([]string, 0, len(m.channels))
	for name := range m.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
