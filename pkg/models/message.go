package models

import (
	"time"
)

// ChannelType represents a messaging platform.
type ChannelType string

const (
	ChannelDiscord ChannelType = "discord"
)

// Message is a chat message already resolved by the host.
type Message struct {
	ID        string         `json:"id"`
	Channel   ChannelType    `json:"channel"`
	ChannelID string         `json:"channel_id"`
	GuildID   string         `json:"guild_id,omitempty"`
	AuthorID  string         `json:"author_id,omitempty"`
	Content   string         `json:"content"`
	Embeds    []*Embed       `json:"embeds,omitempty"`
	Files     []File         `json:"files,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// FirstEmbed returns the first embed attached to the message, or nil.
func (m *Message) FirstEmbed() *Embed {
	if m == nil || len(m.Embeds) == 0 {
		return nil
	}
	return m.Embeds[0]
}

// File is an attachment carried by a message or referenced by an embed.
type File struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ProxyURL    string `json:"proxy_url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size,omitempty"`
}
