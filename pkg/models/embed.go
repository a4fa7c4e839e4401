package models

import (
	"fmt"
	"slices"
	"time"
)

// Record is an object whose properties can be read by name. Catalog access
// paths hop through records one property at a time.
type Record interface {
	// Property returns the named property and whether it is present.
	Property(name string) (any, bool)
}

// Embed is a rich-content attachment carried by a message.
type Embed struct {
	Type        string          `json:"type,omitempty"`
	Title       string          `json:"title,omitempty"`
	URL         string          `json:"url,omitempty"`
	Description string          `json:"description,omitempty"`
	Color       *int            `json:"color,omitempty"`
	Timestamp   *time.Time      `json:"timestamp,omitempty"`
	Author      *EmbedAuthor    `json:"author,omitempty"`
	Fields      []EmbedField    `json:"fields,omitempty"`
	Image       *EmbedImage     `json:"image,omitempty"`
	Thumbnail   *EmbedThumbnail `json:"thumbnail,omitempty"`
	Video       *EmbedVideo     `json:"video,omitempty"`
	Provider    *EmbedProvider  `json:"provider,omitempty"`
	Files       []File          `json:"files,omitempty"`
}

// EmbedAuthor is the author block of an embed.
type EmbedAuthor struct {
	Name         string `json:"name,omitempty"`
	URL          string `json:"url,omitempty"`
	IconURL      string `json:"icon_url,omitempty"`
	ProxyIconURL string `json:"proxy_icon_url,omitempty"`
}

// EmbedField is one name/value row of an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedImage is the large image of an embed.
type EmbedImage struct {
	URL      string `json:"url,omitempty"`
	ProxyURL string `json:"proxy_url,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// EmbedThumbnail is the small image of an embed.
type EmbedThumbnail struct {
	URL      string `json:"url,omitempty"`
	ProxyURL string `json:"proxy_url,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// EmbedVideo is the video of an embed.
type EmbedVideo struct {
	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// EmbedProvider is the provider of an embed.
type EmbedProvider struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// HexColor formats the embed color as #rrggbb. It returns "" when the embed
// has no color.
func (e *Embed) HexColor() string {
	if e == nil || e.Color == nil {
		return ""
	}
	return fmt.Sprintf("#%06x", *e.Color&0xffffff)
}

// Property implements Record. Sub-objects and collections are returned as
// copies so callers never alias the embed.
func (e *Embed) Property(name string) (any, bool) {
	if e == nil {
		return nil, false
	}
	switch name {
	case "author":
		if e.Author == nil {
			return nil, false
		}
		author := *e.Author
		return &author, true
	case "color":
		if e.Color == nil {
			return nil, false
		}
		return *e.Color, true
	case "hexColor":
		hex := e.HexColor()
		return hex, hex != ""
	case "description":
		return e.Description, e.Description != ""
	case "fields":
		if e.Fields == nil {
			return nil, false
		}
		return slices.Clone(e.Fields), true
	case "image":
		if e.Image == nil {
			return nil, false
		}
		image := *e.Image
		return &image, true
	case "thumbnail":
		if e.Thumbnail == nil {
			return nil, false
		}
		thumbnail := *e.Thumbnail
		return &thumbnail, true
	case "timestamp":
		if e.Timestamp == nil {
			return nil, false
		}
		return e.Timestamp.UnixMilli(), true
	case "createdAt":
		if e.Timestamp == nil {
			return nil, false
		}
		return *e.Timestamp, true
	case "type":
		return e.Type, e.Type != ""
	case "files":
		if e.Files == nil {
			return nil, false
		}
		return slices.Clone(e.Files), true
	case "video":
		if e.Video == nil {
			return nil, false
		}
		return *e.Video, true
	case "provider":
		if e.Provider == nil {
			return nil, false
		}
		return *e.Provider, true
	}
	return nil, false
}

// Property implements Record.
func (a *EmbedAuthor) Property(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	switch name {
	case "name":
		return nonEmpty(a.Name)
	case "url":
		return nonEmpty(a.URL)
	case "iconURL":
		return nonEmpty(a.IconURL)
	case "proxyIconURL":
		return nonEmpty(a.ProxyIconURL)
	}
	return nil, false
}

// Property implements Record.
func (i *EmbedImage) Property(name string) (any, bool) {
	if i == nil {
		return nil, false
	}
	return mediaProperty(name, i.URL, i.ProxyURL)
}

// Property implements Record.
func (t *EmbedThumbnail) Property(name string) (any, bool) {
	if t == nil {
		return nil, false
	}
	return mediaProperty(name, t.URL, t.ProxyURL)
}

func mediaProperty(name, url, proxyURL string) (any, bool) {
	switch name {
	case "url":
		return nonEmpty(url)
	case "proxyURL":
		return nonEmpty(proxyURL)
	}
	return nil, false
}

func nonEmpty(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	return s, true
}
