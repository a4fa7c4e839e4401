package discord

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/haasonsaas/embedinfo/pkg/models"
)

const attachmentScheme = "attachment://"

// DecodeMessage reads a Discord API message object and converts it.
func DecodeMessage(r io.Reader) (*models.Message, error) {
	var msg discordgo.Message
	if err := json.NewDecoder(r).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decode discord message: %w", err)
	}
	return FromMessage(&msg), nil
}

// FromMessage converts a discordgo message into the unified model.
func FromMessage(m *discordgo.Message) *models.Message {
	if m == nil {
		return nil
	}
	files := make([]models.File, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		files = append(files, fileFromAttachment(a))
	}

	msg := &models.Message{
		ID:        m.ID,
		Channel:   models.ChannelDiscord,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
		Files:     files,
		CreatedAt: m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
	}
	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		msg.Embeds = append(msg.Embeds, FromEmbed(e, files))
	}
	return msg
}

// FromEmbed converts a discordgo embed. Attachments referenced by the embed
// through attachment:// URLs become the embed's files. Fields and files are
// always non-nil, matching what Discord clients expose for received embeds.
func FromEmbed(e *discordgo.MessageEmbed, attachments []models.File) *models.Embed {
	embed := &models.Embed{
		Type:        string(e.Type),
		Title:       e.Title,
		URL:         e.URL,
		Description: e.Description,
		Fields:      make([]models.EmbedField, 0, len(e.Fields)),
		Files:       referencedFiles(e, attachments),
	}
	if e.Color != 0 {
		color := e.Color
		embed.Color = &color
	}
	if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
		embed.Timestamp = &ts
	}
	if e.Author != nil {
		embed.Author = &models.EmbedAuthor{
			Name:         e.Author.Name,
			URL:          e.Author.URL,
			IconURL:      e.Author.IconURL,
			ProxyIconURL: e.Author.ProxyIconURL,
		}
	}
	for _, f := range e.Fields {
		if f == nil {
			continue
		}
		embed.Fields = append(embed.Fields, models.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if e.Image != nil {
		embed.Image = &models.EmbedImage{URL: e.Image.URL, ProxyURL: e.Image.ProxyURL, Width: e.Image.Width, Height: e.Image.Height}
	}
	if e.Thumbnail != nil {
		embed.Thumbnail = &models.EmbedThumbnail{URL: e.Thumbnail.URL, ProxyURL: e.Thumbnail.ProxyURL, Width: e.Thumbnail.Width, Height: e.Thumbnail.Height}
	}
	if e.Video != nil {
		embed.Video = &models.EmbedVideo{URL: e.Video.URL, Width: e.Video.Width, Height: e.Video.Height}
	}
	if e.Provider != nil {
		embed.Provider = &models.EmbedProvider{Name: e.Provider.Name, URL: e.Provider.URL}
	}
	return embed
}

func fileFromAttachment(a *discordgo.MessageAttachment) models.File {
	return models.File{
		ID:          a.ID,
		Name:        a.Filename,
		URL:         a.URL,
		ProxyURL:    a.ProxyURL,
		ContentType: a.ContentType,
		Size:        a.Size,
	}
}

func referencedFiles(e *discordgo.MessageEmbed, attachments []models.File) []models.File {
	refs := map[string]bool{}
	add := func(url string) {
		if name, ok := strings.CutPrefix(url, attachmentScheme); ok {
			refs[name] = true
		}
	}
	if e.Image != nil {
		add(e.Image.URL)
	}
	if e.Thumbnail != nil {
		add(e.Thumbnail.URL)
	}
	if e.Author != nil {
		add(e.Author.IconURL)
	}
	if e.Footer != nil {
		add(e.Footer.IconURL)
	}

	files := make([]models.File, 0, len(refs))
	for _, f := range attachments {
		if refs[f.Name] {
			files = append(files, f)
		}
	}
	return files
}
