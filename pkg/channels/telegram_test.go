package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superstream-live/streamrelay/pkg/bus"
	"github.com/superstream-live/streamrelay/pkg/config"
)

func TestNewTelegramChannel_RequiresToken(t *testing.T) {
	_, err := NewTelegramChannel(config.TelegramConfig{}, bus.NewEventBus(), nil)
	assert.Error(t, err)

	_, err = NewTelegramChannel(config.TelegramConfig{Token: "   "}, bus.NewEventBus(), nil)
	assert.Error(t, err)
}

func TestNewTelegramChannel_Name(t *testing.T) {
	c, err := NewTelegramChannel(config.TelegramConfig{Token: "tok"}, bus.NewEventBus(), nil)
	require.NoError(t, err)
	assert.Equal(t, "telegram", c.Name())
	assert.False(t, c.IsRunning())
}

func TestGrugPattern(t *testing.T) {
	assert.True(t, grugPattern.MatchString("grug"))
	assert.True(t, grugPattern.MatchString("where is GRUG today"))
	assert.False(t, grugPattern.MatchString("hello stream"))
}

func TestMenuPattern(t *testing.T) {
	assert.True(t, menuPattern.MatchString("menu"))
	assert.True(t, menuPattern.MatchString("show me the Menu please"))
	assert.False(t, menuPattern.MatchString("hello stream"))
}

func TestMovementReplies(t *testing.T) {
	assert.Equal(t, "Forward!", movementReplies["move:forward"])
	assert.Equal(t, "Left!", movementReplies["move:left"])
	assert.Equal(t, "Right!", movementReplies["move:right"])
	assert.Equal(t, "Backwards!", movementReplies["move:back"])

	_, ok := movementReplies["move:up"]
	assert.False(t, ok)
}
