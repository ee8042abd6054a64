package bus

// EventKind discriminates inbound chat events. The relay only understands
// the kinds listed here; channels may forward others and the pipeline will
// skip them.
type EventKind string

const (
	EventText           EventKind = "text"
	EventAnimation      EventKind = "animation"
	EventSticker        EventKind = "sticker"
	EventPhoto          EventKind = "photo"
	EventReactionChosen EventKind = "reaction_chosen"
)

// IsMedia reports whether the kind carries a platform-hosted file reference.
func (k EventKind) IsMedia() bool {
	return k == EventAnimation || k == EventSticker || k == EventPhoto
}

// Author is the platform-supplied identity attached to an inbound event.
type Author struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
	IsBot     bool   `json:"is_bot"`
}

// MediaRef points at an ephemeral, platform-hosted file. EphemeralURL is
// only resolvable while the platform keeps the file alive; the pipeline
// archives it into a durable URL before relay.
type MediaRef struct {
	FileID       string `json:"file_id"`
	MimeType     string `json:"mime_type,omitempty"`
	EphemeralURL string `json:"ephemeral_url"`
}

// InboundEvent is the single shape all channels reduce their platform
// updates to before publishing on the bus.
type InboundEvent struct {
	Channel   string            `json:"channel"`
	Kind      EventKind         `json:"kind"`
	ChatID    int64             `json:"chat_id"`
	Timestamp int64             `json:"timestamp"` // unix milliseconds
	Author    Author            `json:"author"`
	Text      string            `json:"text,omitempty"`
	Media     *MediaRef         `json:"media,omitempty"`
	ResultID  string            `json:"result_id,omitempty"` // chosen inline result (catalog slug)
	Scope     string            `json:"scope,omitempty"`     // event lifecycle scope key
	Metadata  map[string]string `json:"metadata,omitempty"`
}
