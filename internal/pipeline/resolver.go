package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
	"github.com/haasonsaas/embedinfo/pkg/models"
)

// MessageSource looks up a message by channel and ID. It returns nil, nil
// when the message is unknown.
type MessageSource interface {
	Message(ctx context.Context, channelID, messageID string) (*models.Message, error)
}

// GetMessage resolves a message reference. Variables may hold a message or a
// "channelID:messageID" reference resolved through the message source.
func (r *Runner) GetMessage(ctx context.Context, ref actionsdk.MessageRef, varName string, cache *actionsdk.Cache) (*models.Message, error) {
	if !ref.UsesVariable() {
		return cache.Message, nil
	}
	if varName == "" {
		return nil, nil
	}

	value, ok := r.vars.Get(ref.Scope(), cache, varName)
	if !ok {
		return nil, nil
	}
	switch v := value.(type) {
	case *models.Message:
		return v, nil
	case models.Message:
		return &v, nil
	case string:
		channelID, messageID, found := strings.Cut(v, ":")
		if !found || channelID == "" || messageID == "" {
			return nil, fmt.Errorf("variable %q holds %q, not a channelID:messageID reference", varName, v)
		}
		if r.source == nil {
			return nil, fmt.Errorf("variable %q: no message source configured", varName)
		}
		return r.source.Message(ctx, channelID, messageID)
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("variable %q holds %T, not a message", varName, value)
}
