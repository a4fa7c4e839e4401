package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestFromMessage(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	msg := &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   "hello",
		Timestamp: created,
		Author:    &discordgo.User{ID: "u1"},
		Attachments: []*discordgo.MessageAttachment{
			{ID: "a1", Filename: "chart.png", URL: "https://cdn.example/chart.png", Size: 42},
			{ID: "a2", Filename: "notes.txt", URL: "https://cdn.example/notes.txt"},
		},
		Embeds: []*discordgo.MessageEmbed{
			{
				Type:        discordgo.EmbedTypeRich,
				Description: "report",
				Timestamp:   "2024-05-01T09:00:00Z",
				Color:       0x00ff00,
				Author:      &discordgo.MessageEmbedAuthor{Name: "bot", IconURL: "https://cdn.example/icon.png"},
				Fields:      []*discordgo.MessageEmbedField{{Name: "a", Value: "1", Inline: true}, nil},
				Image:       &discordgo.MessageEmbedImage{URL: "attachment://chart.png"},
				Video:       &discordgo.MessageEmbedVideo{URL: "https://cdn.example/v.mp4"},
				Provider:    &discordgo.MessageEmbedProvider{Name: "example"},
			},
		},
	}

	got := FromMessage(msg)
	if got.ID != "m1" || got.ChannelID != "c1" || got.GuildID != "g1" || got.AuthorID != "u1" {
		t.Fatalf("identity fields = %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if len(got.Files) != 2 {
		t.Fatalf("Files len = %d, want 2", len(got.Files))
	}

	embed := got.FirstEmbed()
	if embed == nil {
		t.Fatal("expected an embed")
	}
	if embed.HexColor() != "#00ff00" {
		t.Errorf("HexColor() = %q", embed.HexColor())
	}
	if embed.Timestamp == nil || embed.Timestamp.Hour() != 9 {
		t.Errorf("Timestamp = %v", embed.Timestamp)
	}
	if len(embed.Fields) != 1 || !embed.Fields[0].Inline {
		t.Errorf("Fields = %+v", embed.Fields)
	}
	if len(embed.Files) != 1 || embed.Files[0].Name != "chart.png" {
		t.Errorf("Files = %+v, want only chart.png", embed.Files)
	}
	if embed.Author.IconURL != "https://cdn.example/icon.png" {
		t.Errorf("Author.IconURL = %q", embed.Author.IconURL)
	}
	if embed.Video == nil || embed.Provider == nil || embed.Provider.Name != "example" {
		t.Errorf("Video/Provider = %+v/%+v", embed.Video, embed.Provider)
	}
}

func TestFromEmbed_Sparse(t *testing.T) {
	embed := FromEmbed(&discordgo.MessageEmbed{Title: "only title", Timestamp: "not a time"}, nil)

	if embed.Color != nil {
		t.Errorf("Color = %v, want nil", *embed.Color)
	}
	if embed.Timestamp != nil {
		t.Errorf("Timestamp = %v, want nil", embed.Timestamp)
	}
	if embed.Fields == nil || len(embed.Fields) != 0 {
		t.Errorf("Fields = %#v, want empty non-nil", embed.Fields)
	}
	if embed.Files == nil || len(embed.Files) != 0 {
		t.Errorf("Files = %#v, want empty non-nil", embed.Files)
	}
	if _, ok := embed.Property("fields"); !ok {
		t.Error("fields should be present on a received embed")
	}
	if embed.Author != nil || embed.Image != nil || embed.Thumbnail != nil {
		t.Error("absent sub-objects should stay nil")
	}
}

func TestFromMessage_Nil(t *testing.T) {
	if FromMessage(nil) != nil {
		t.Error("FromMessage(nil) should be nil")
	}
}

func TestDecodeMessage(t *testing.T) {
	raw := `{
		"id": "m9",
		"channel_id": "c9",
		"content": "",
		"timestamp": "2024-05-01T09:30:00Z",
		"embeds": [{"type": "rich", "description": "from json", "color": 16711680,
			"thumbnail": {"url": "https://cdn.example/t.png", "proxy_url": "https://proxy.example/t.png"}}]
	}`

	msg, err := DecodeMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	embed := msg.FirstEmbed()
	if embed == nil || embed.Description != "from json" {
		t.Fatalf("embed = %+v", embed)
	}
	if embed.HexColor() != "#ff0000" {
		t.Errorf("HexColor() = %q", embed.HexColor())
	}
	if embed.Thumbnail.ProxyURL != "https://proxy.example/t.png" {
		t.Errorf("Thumbnail.ProxyURL = %q", embed.Thumbnail.ProxyURL)
	}

	if _, err := DecodeMessage(strings.NewReader("{")); err == nil {
		t.Error("expected error for truncated JSON")
	}
}
