package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishConsume(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	ev := InboundEvent{
		Channel: "telegram",
		Kind:    EventText,
		ChatID:  7,
		Text:    "hi",
		Author:  Author{ID: 42, FirstName: "Ann"},
	}

	require.NoError(t, eb.PublishInbound(context.Background(), ev))

	got, ok := eb.ConsumeInbound(context.Background())
	require.True(t, ok)
	assert.Equal(t, ev, got)
}

func TestEventBus_ClosedPublish(t *testing.T) {
	eb := NewEventBus()
	eb.Close()

	err := eb.PublishInbound(context.Background(), InboundEvent{Kind: EventText})
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestEventBus_ConsumeCanceledContext(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := eb.ConsumeInbound(ctx)
	assert.False(t, ok)
}

func TestEventKind_IsMedia(t *testing.T) {
	assert.True(t, EventAnimation.IsMedia())
	assert.True(t, EventSticker.IsMedia())
	assert.True(t, EventPhoto.IsMedia())
	assert.False(t, EventText.IsMedia())
	assert.False(t, EventReactionChosen.IsMedia())
}
