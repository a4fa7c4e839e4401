package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/haasonsaas/embedinfo/pkg/models"
)

// messageCache is the part of discordgo.State the source reads.
type messageCache interface {
	Message(channelID, messageID string) (*discordgo.Message, error)
}

// StateSource resolves messages already held in a discordgo state cache. It
// never calls the Discord API.
type StateSource struct {
	cache messageCache
}

// NewStateSource wraps a discordgo state.
func NewStateSource(state *discordgo.State) *StateSource {
	return &StateSource{cache: state}
}

// Message returns the cached message, or nil if the cache does not hold it.
func (s *StateSource) Message(ctx context.Context, channelID, messageID string) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := s.cache.Message(channelID, messageID)
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("discord state lookup %s/%s: %w", channelID, messageID, err)
	}
	return FromMessage(m), nil
}

// NewState returns a state able to cache up to maxMessages per channel.
func NewState(maxMessages int) *discordgo.State {
	state := discordgo.NewState()
	state.MaxMessageCount = maxMessages
	return state
}

// AddMessage caches m in state, registering its channel as a DM channel
// when the state does not know it yet.
func AddMessage(state *discordgo.State, m *discordgo.Message) error {
	if _, err := state.Channel(m.ChannelID); err != nil {
		if !errors.Is(err, discordgo.ErrStateNotFound) {
			return err
		}
		if err := state.ChannelAdd(&discordgo.Channel{ID: m.ChannelID, Type: discordgo.ChannelTypeDM}); err != nil {
			return fmt.Errorf("cache channel %s: %w", m.ChannelID, err)
		}
	}
	if err := state.MessageAdd(m); err != nil {
		return fmt.Errorf("cache message %s: %w", m.ID, err)
	}
	return nil
}
