package models

import (
	"encoding/json"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestMessage_FirstEmbed(t *testing.T) {
	first := &Embed{Title: "first"}
	tests := []struct {
		name string
		msg  *Message
		want *Embed
	}{
		{name: "nil message", msg: nil, want: nil},
		{name: "no embeds", msg: &Message{ID: "m1"}, want: nil},
		{name: "empty embeds", msg: &Message{Embeds: []*Embed{}}, want: nil},
		{name: "first of many", msg: &Message{Embeds: []*Embed{first, {Title: "second"}}}, want: first},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.FirstEmbed(); got != tt.want {
				t.Errorf("FirstEmbed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmbed_HexColor(t *testing.T) {
	tests := []struct {
		name  string
		embed *Embed
		want  string
	}{
		{name: "nil embed", embed: nil, want: ""},
		{name: "no color", embed: &Embed{}, want: ""},
		{name: "black", embed: &Embed{Color: intPtr(0)}, want: "#000000"},
		{name: "blurple", embed: &Embed{Color: intPtr(0x5865F2)}, want: "#5865f2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.embed.HexColor(); got != tt.want {
				t.Errorf("HexColor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmbed_PropertyCopiesSubObjects(t *testing.T) {
	embed := &Embed{
		Author: &EmbedAuthor{Name: "original"},
		Fields: []EmbedField{{Name: "a", Value: "1"}},
	}

	author, ok := embed.Property("author")
	if !ok {
		t.Fatal("author should be present")
	}
	author.(*EmbedAuthor).Name = "changed"
	if embed.Author.Name != "original" {
		t.Errorf("embed author mutated to %q", embed.Author.Name)
	}

	fields, _ := embed.Property("fields")
	fields.([]EmbedField)[0].Value = "changed"
	if embed.Fields[0].Value != "1" {
		t.Errorf("embed fields mutated to %q", embed.Fields[0].Value)
	}
}

func TestEmbed_PropertyAbsent(t *testing.T) {
	embed := &Embed{}
	for _, name := range []string{
		"author", "color", "hexColor", "description", "fields", "image",
		"thumbnail", "timestamp", "createdAt", "type", "files", "video", "provider", "unknown",
	} {
		if v, ok := embed.Property(name); ok {
			t.Errorf("Property(%q) = %v, want absent", name, v)
		}
	}
}

func TestEmbed_TimestampProperties(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	embed := &Embed{Timestamp: &ts}

	ms, ok := embed.Property("timestamp")
	if !ok || ms.(int64) != ts.UnixMilli() {
		t.Errorf("timestamp = %v, want %d", ms, ts.UnixMilli())
	}
	created, ok := embed.Property("createdAt")
	if !ok || !created.(time.Time).Equal(ts) {
		t.Errorf("createdAt = %v, want %v", created, ts)
	}
}

func TestEmbed_JSONRoundTrip(t *testing.T) {
	embed := Embed{
		Type:   "rich",
		Color:  intPtr(0xff0000),
		Author: &EmbedAuthor{Name: "bot", IconURL: "https://cdn.example/icon.png"},
		Image:  &EmbedImage{URL: "https://cdn.example/a.png", ProxyURL: "https://proxy.example/a.png"},
	}

	data, err := json.Marshal(embed)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded Embed
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.HexColor() != "#ff0000" {
		t.Errorf("HexColor() = %q", decoded.HexColor())
	}
	if decoded.Author.IconURL != embed.Author.IconURL {
		t.Errorf("Author.IconURL = %q", decoded.Author.IconURL)
	}
	if decoded.Image.ProxyURL != embed.Image.ProxyURL {
		t.Errorf("Image.ProxyURL = %q", decoded.Image.ProxyURL)
	}
}
