package channels

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superstream-live/streamrelay/pkg/bus"
)

func TestBaseChannel_IsAllowed(t *testing.T) {
	tests := []struct {
		name      string
		allowList []string
		senderID  string
		want      bool
	}{
		{"empty list admits everyone", nil, "123|ann", true},
		{"plain id match", []string{"123"}, "123|ann", true},
		{"plain id mismatch", []string{"123"}, "456|bob", false},
		{"username match", []string{"ann"}, "123|ann", true},
		{"username with at-prefix", []string{"@ann"}, "123|ann", true},
		{"compound entry id match", []string{"123|ann"}, "123|other", true},
		{"compound entry username match", []string{"999|ann"}, "123|ann", true},
		{"bare id sender", []string{"123"}, "123", true},
		{"no match at all", []string{"999", "@bob"}, "123|ann", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBaseChannel("test", nil, tt.allowList)
			assert.Equal(t, tt.want, c.IsAllowed(tt.senderID))
		})
	}
}

func TestBaseChannel_HandleEventPublishes(t *testing.T) {
	eventBus := bus.NewEventBus()
	defer eventBus.Close()

	c := NewBaseChannel("test", eventBus, nil)
	c.HandleEvent(bus.InboundEvent{
		Kind:     bus.EventText,
		ChatID:   7,
		Author:   bus.Author{ID: 42, Username: "ann"},
		Text:     "hi",
		Metadata: map[string]string{"message_id": "55"},
	})

	got, ok := eventBus.ConsumeInbound(context.Background())
	require.True(t, ok)
	assert.Equal(t, "test", got.Channel)
	assert.Equal(t, "test:7:55", got.Scope)
	assert.Equal(t, "hi", got.Text)
}

func TestBaseChannel_HandleEventDropsUnauthorized(t *testing.T) {
	eventBus := bus.NewEventBus()
	defer eventBus.Close()

	c := NewBaseChannel("test", eventBus, []string{"999"})
	c.HandleEvent(bus.InboundEvent{
		Kind:   bus.EventText,
		Author: bus.Author{ID: 42, Username: "ann"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := eventBus.ConsumeInbound(ctx)
	assert.False(t, ok)
}

func TestFormatSenderID(t *testing.T) {
	assert.Equal(t, "42|ann", formatSenderID(bus.Author{ID: 42, Username: "ann"}))
	assert.Equal(t, "42", formatSenderID(bus.Author{ID: 42}))
}

func TestBuildEventScope(t *testing.T) {
	assert.Equal(t, "telegram:7:55", BuildEventScope("telegram", 7, "55"))

	// Missing message IDs get a generated stand-in rather than colliding.
	generated := BuildEventScope("telegram", 7, "")
	assert.True(t, strings.HasPrefix(generated, "telegram:7:"))
	assert.NotEqual(t, "telegram:7:", generated)
	assert.NotEqual(t, generated, BuildEventScope("telegram", 7, ""))
}
