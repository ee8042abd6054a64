package messages

import (
	"context"

	"github.com/superstream-live/streamrelay/pkg/archive"
	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/identity"
	"github.com/superstream-live/streamrelay/pkg/logger"
)

// SentinelUsername replaces a username the platform did not supply.
const SentinelUsername = "unknown"

// Normalizer converts inbound chat events into canonical messages. It owns
// no state of its own: identity comes from the injected store, durable URLs
// from the injected archiver.
type Normalizer struct {
	store    *identity.Store
	archiver archive.Archiver
}

func NewNormalizer(store *identity.Store, archiver archive.Archiver) *Normalizer {
	if archiver == nil {
		archiver = archive.Disabled{}
	}
	return &Normalizer{store: store, archiver: archiver}
}

// Normalize builds the canonical message for ev. The second return value is
// false when the event kind is not relayable; unsupported kinds are skipped
// silently, they are not errors.
//
// Media events suspend on the archival call. Archival failure degrades the
// message to sentinel media fields instead of dropping it: the metadata
// still has value downstream even when the media reference is broken.
func (n *Normalizer) Normalize(ctx context.Context, ev bus.InboundEvent) (*Message, bool) {
	switch ev.Kind {
	case bus.EventText:
		msg := &Message{
			ID: ev.ChatID,
			Content: Content{
				ChatID: ev.ChatID,
				Type:   ContentText,
				Date:   ev.Timestamp,
				Text:   ev.Text,
			},
			Author: n.authorView(ev.Author),
		}
		return msg, true

	case bus.EventAnimation, bus.EventSticker, bus.EventPhoto:
		msg := &Message{
			ID: ev.ChatID,
			Content: Content{
				ChatID:   ev.ChatID,
				Type:     mediaContentType(ev.Kind),
				Date:     ev.Timestamp,
				FileID:   archive.SentinelURL,
				MimeType: archive.SentinelURL,
				FileName: archive.SentinelURL,
			},
			Author: n.authorView(ev.Author),
		}

		if ev.Media != nil {
			if ev.Media.FileID != "" {
				msg.Content.FileID = ev.Media.FileID
			}
			if ev.Media.MimeType != "" {
				msg.Content.MimeType = ev.Media.MimeType
			}

			url, err := n.archiver.Archive(ctx, ev.Media.EphemeralURL, "")
			if err != nil {
				logger.WarnCF("normalize", "Media archival failed, relaying with sentinel URL",
					map[string]any{
						"channel": ev.Channel,
						"chat_id": ev.ChatID,
						"kind":    string(ev.Kind),
						"error":   err.Error(),
					})
			} else {
				msg.Content.FileName = url
			}
		}
		return msg, true

	default:
		// The platform emits many kinds the relay does not care about.
		return nil, false
	}
}

// AuthorView resolves the author's current color and builds the relayed
// author block. Exposed for the reaction path, which bypasses content
// normalization.
func (n *Normalizer) AuthorView(a bus.Author) AuthorView {
	return n.authorView(a)
}

func (n *Normalizer) authorView(a bus.Author) AuthorView {
	username := a.Username
	if username == "" {
		username = SentinelUsername
	}

	return AuthorView{
		ID:        a.ID,
		FirstName: a.FirstName,
		Username:  username,
		IsBot:     a.IsBot,
		Badge:     BadgeNormal,
		Color:     n.store.EnsureUser(a.ID).Color,
	}
}

func mediaContentType(k bus.EventKind) ContentType {
	switch k {
	case bus.EventAnimation:
		return ContentAnimation
	case bus.EventSticker:
		return ContentSticker
	default:
		return ContentPhoto
	}
}
