package storeembedinfo

import (
	"context"
	"fmt"

	"github.com/haasonsaas/embedinfo/internal/embedinfo"
	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

// Execute resolves the configured message, extracts the requested value from
// its first embed and stores it. Absent values are not written. The chain is
// advanced once the value is stored or skipped.
func (a *Action) Execute(ctx context.Context, host actionsdk.Host, cache *actionsdk.Cache) error {
	inst := FromData(cache.Current())

	ref, err := actionsdk.ParseMessageRef(inst.MessageRef)
	if err != nil {
		return actionsdk.NewError(actionsdk.ErrCodeInvalidInput, cache, fmt.Errorf("%w: %v", actionsdk.ErrMessageNotFound, err))
	}
	varName, err := host.EvalMessage(inst.SourceVarName, cache)
	if err != nil {
		return actionsdk.NewError(actionsdk.ErrCodeInvalidInput, cache, fmt.Errorf("evaluate variable name: %w", err))
	}
	destName, err := host.EvalMessage(inst.DestVarName, cache)
	if err != nil {
		return actionsdk.NewError(actionsdk.ErrCodeInvalidInput, cache, fmt.Errorf("evaluate destination name: %w", err))
	}
	scope, _ := actionsdk.ParseVarScope(inst.StorageTarget)

	msg, err := host.GetMessage(ctx, ref, varName, cache)
	if err != nil {
		return actionsdk.NewError(actionsdk.ErrCodeNotFound, cache, fmt.Errorf("%w: %v", actionsdk.ErrMessageNotFound, err))
	}
	if msg == nil {
		return actionsdk.NewError(actionsdk.ErrCodeNotFound, cache, actionsdk.ErrMessageNotFound)
	}
	embed := msg.FirstEmbed()
	if embed == nil {
		return actionsdk.NewError(actionsdk.ErrCodeInvalidInput, cache, actionsdk.ErrNotEmbedMessage)
	}

	key := embedinfo.InfoKey(inst.InfoKey)
	value, ok := embedinfo.Extract(key, embed)
	if a.observer != nil {
		a.observer.Extraction(inst.InfoKey, ok)
	}
	if ok {
		if err := host.StoreValue(ctx, value, scope, destName, cache); err != nil {
			return actionsdk.NewError(actionsdk.ErrCodeStorage, cache, fmt.Errorf("store %q: %w", destName, err))
		}
		a.logger.Debug("embed value stored", "info", inst.InfoKey, "scope", scope.String(), "var", destName)
	} else {
		a.logger.Warn("embed value absent, variable left unchanged",
			"info", inst.InfoKey, "message_id", msg.ID, "var", destName)
	}

	return host.CallNextAction(ctx, cache)
}
