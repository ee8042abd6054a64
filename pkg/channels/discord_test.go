package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/config"
)

func TestNewDiscordChannel_RequiresToken(t *testing.T) {
	_, err := NewDiscordChannel(config.DiscordConfig{}, bus.NewEventBus())
	assert.Error(t, err)
}

func TestNewDiscordChannel_Name(t *testing.T) {
	c, err := NewDiscordChannel(config.DiscordConfig{Token: "tok"}, bus.NewEventBus())
	require.NoError(t, err)
	assert.Equal(t, "discord", c.Name())
}

func TestAttachmentKind(t *testing.T) {
	tests := []struct {
		contentType string
		want        bus.EventKind
		ok          bool
	}{
		{"image/gif", bus.EventAnimation, true},
		{"image/png", bus.EventPhoto, true},
		{"image/jpeg", bus.EventPhoto, true},
		{"video/mp4", "", false},
		{"application/pdf", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			kind, ok := attachmentKind(tt.contentType)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}
