// Package messages defines the canonical message shape relayed downstream
// and the normalizer that builds it from inbound chat events.
package messages

import "github.com/superstream-live/streamrelay/pkg/catalog"

// Badge is a reserved author annotation. Nothing assigns badges other than
// BadgeNormal yet; the field exists so downstream consumers can render it.
type Badge string

const (
	BadgeMod    Badge = "mod"
	BadgeHost   Badge = "host"
	BadgeSub    Badge = "sub"
	BadgeNormal Badge = "normal"
)

// ContentType tags the canonical content union.
type ContentType string

const (
	ContentText      ContentType = "text"
	ContentAnimation ContentType = "animation"
	ContentSticker   ContentType = "sticker"
	ContentPhoto     ContentType = "photo"
)

// AuthorView is the author block attached to every relayed message. Color
// is the identity store's value at relay time, never cached across events.
type AuthorView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	Username  string `json:"username"`
	IsBot     bool   `json:"isBot"`
	Badge     Badge  `json:"currentBadge"`
	Color     string `json:"color"`
}

// Content is a tagged union: Type determines which of the type-specific
// fields are populated. Text carries Text; animation/sticker/photo carry
// FileID, MimeType and FileName (the durable URL), never both sets.
//
// The JSON keys match the downstream consumer's existing wire format.
type Content struct {
	ChatID int64       `json:"chatId"`
	Type   ContentType `json:"type"`
	Date   int64       `json:"date"`

	Text string `json:"text,omitempty"`

	FileID   string `json:"fileId,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	FileName string `json:"file_name,omitempty"` // durable (archived) URL
}

// Message is the unified internal representation of a relayed chat event.
type Message struct {
	ID      int64      `json:"id"`
	Content Content    `json:"content"`
	Author  AuthorView `json:"author"`
}

// ReactionEvent is emitted when a user redeems a catalog entry through an
// inline query instead of sending a direct chat message.
type ReactionEvent struct {
	ID      int64         `json:"id"`
	Content catalog.Entry `json:"content"`
	Author  AuthorView    `json:"author"`
}
