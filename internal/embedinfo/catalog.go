// Package embedinfo maps info keys to values read out of a message embed.
//
// The catalog is a fixed table: each key names an access path of property
// hops into the embed. Keys that read a leaf of a nested sub-object carry a
// null guard, which substitutes an empty record when the sub-object is
// missing so the leaf read simply comes back absent.
package embedinfo

import (
	"strings"

	"github.com/haasonsaas/embedinfo/pkg/models"
)

// InfoKey selects the embed value to extract.
type InfoKey string

const (
	KeyAuthor             InfoKey = "author"
	KeyAuthorName         InfoKey = "author name"
	KeyAuthorURL          InfoKey = "author url"
	KeyAuthorIconURL      InfoKey = "author icon url"
	KeyAuthorProxyIconURL InfoKey = "author proxy icon url"
	KeyColor              InfoKey = "color"
	KeyHexColor           InfoKey = "hexColor"
	KeyDescription        InfoKey = "description"
	KeyFields             InfoKey = "fields"
	KeyImageURL           InfoKey = "image url"
	KeyImageProxy         InfoKey = "image proxy"
	KeyThumbnailURL       InfoKey = "thumbnail url"
	KeyThumbnailProxy     InfoKey = "thumbnail proxy"
	KeyTimestamp          InfoKey = "timestamp"
	KeyCreatedAt          InfoKey = "createdAt"
	KeyType               InfoKey = "type"
	KeyFiles              InfoKey = "files"
	KeyVideo              InfoKey = "video"
	KeyProvider           InfoKey = "provider"
)

// Entry is one row of the catalog.
type Entry struct {
	Key InfoKey
	// Label is the option text shown in the editor.
	Label string
	// Path is the sequence of property hops from the embed to the value.
	Path []string
	// NullGuard substitutes an empty record for a missing intermediate hop.
	NullGuard bool
}

// PathString returns the dotted form of the access path.
func (e Entry) PathString() string {
	return strings.Join(e.Path, ".")
}

func top(key InfoKey, label string) Entry {
	return Entry{Key: key, Label: label, Path: []string{string(key)}}
}

func nested(key InfoKey, label, parent, leaf string) Entry {
	return Entry{Key: key, Label: label, Path: []string{parent, leaf}, NullGuard: true}
}

// catalog lists the entries in editor order.
var catalog = []Entry{
	top(KeyAuthor, "Embed Author Object"),
	nested(KeyAuthorName, "Embed Author Name", "author", "name"),
	nested(KeyAuthorURL, "Embed Author URL", "author", "url"),
	nested(KeyAuthorIconURL, "Embed Author Icon URL", "author", "iconURL"),
	nested(KeyAuthorProxyIconURL, "Embed Author Proxy Icon URL", "author", "proxyIconURL"),
	top(KeyColor, "Embed Color"),
	top(KeyHexColor, "Embed Hex Color"),
	top(KeyDescription, "Embed Description"),
	top(KeyFields, "Embed Fields"),
	nested(KeyImageURL, "Embed Image URL", "image", "url"),
	nested(KeyImageProxy, "Embed Image Proxy URL", "image", "proxyURL"),
	nested(KeyThumbnailURL, "Embed Thumbnail URL", "thumbnail", "url"),
	nested(KeyThumbnailProxy, "Embed Thumbnail Proxy URL", "thumbnail", "proxyURL"),
	top(KeyTimestamp, "Embed Timestamp"),
	top(KeyCreatedAt, "Embed Created At Timestamp"),
	top(KeyType, "Embed Type"),
	top(KeyFiles, "Embed Files"),
	top(KeyVideo, "Embed Video"),
	top(KeyProvider, "Embed Provider"),
}

var byKey = func() map[InfoKey]Entry {
	m := make(map[InfoKey]Entry, len(catalog))
	for _, e := range catalog {
		m[e.Key] = e
	}
	return m
}()

// Entries returns the catalog in editor order.
func Entries() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Keys returns every info key in editor order.
func Keys() []InfoKey {
	keys := make([]InfoKey, len(catalog))
	for i, e := range catalog {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the catalog entry for key.
func Lookup(key InfoKey) (Entry, bool) {
	e, ok := byKey[key]
	return e, ok
}

// Valid reports whether key is in the catalog.
func Valid(key InfoKey) bool {
	_, ok := byKey[key]
	return ok
}

// emptyRecord stands in for a missing sub-object. It has no properties.
type emptyRecord struct{}

func (emptyRecord) Property(string) (any, bool) { return nil, false }

// Extract reads the value key addresses from embed. The second result is
// false when the value is absent: an unknown key, a nil embed, or missing
// data anywhere along the path. Extract never mutates embed.
func Extract(key InfoKey, embed *models.Embed) (any, bool) {
	entry, ok := byKey[key]
	if !ok || embed == nil {
		return nil, false
	}

	var rec models.Record = embed
	last := len(entry.Path) - 1
	for _, hop := range entry.Path[:last] {
		next, ok := rec.Property(hop)
		sub, isRecord := next.(models.Record)
		if !ok || !isRecord {
			if !entry.NullGuard {
				return nil, false
			}
			sub = emptyRecord{}
		}
		rec = sub
	}
	return rec.Property(entry.Path[last])
}
