package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/haasonsaas/embedinfo/internal/actions"
	"github.com/haasonsaas/embedinfo/internal/observability"
	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
	"github.com/haasonsaas/embedinfo/pkg/models"
)

// Config configures a Runner.
type Config struct {
	Registry  *actions.Registry
	Variables *Variables
	Source    MessageSource
	Logger    *observability.Logger
	Metrics   *observability.Metrics
	Tracer    *observability.Tracer
}

// Runner executes chains and serves as the actions' host.
type Runner struct {
	registry *actions.Registry
	vars     *Variables
	source   MessageSource
	logger   *observability.Logger
	metrics  *observability.Metrics
	tracer   *observability.Tracer
}

var _ actionsdk.Host = (*Runner)(nil)

// NewRunner creates a runner. Only the registry is required.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Registry == nil {
		return nil, errors.New("pipeline: registry is required")
	}
	if cfg.Variables == nil {
		cfg.Variables = NewVariables()
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NewLogger(observability.LogConfig{})
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observability.NewTracerFromProvider(otel.GetTracerProvider(), "embedinfo")
	}
	return &Runner{
		registry: cfg.Registry,
		vars:     cfg.Variables,
		source:   cfg.Source,
		logger:   cfg.Logger.With("component", "pipeline"),
		metrics:  cfg.Metrics,
		tracer:   cfg.Tracer,
	}, nil
}

// Variables returns the runner's variable scopes.
func (r *Runner) Variables() *Variables {
	return r.vars
}

// Trigger is what started a run.
type Trigger struct {
	// Message is the command message. Event chains have none.
	Message *models.Message
	// GuildID overrides the guild of Message.
	GuildID string
	IsEvent bool
}

// Result summarizes a run.
type Result struct {
	RunID    string
	Executed int
	// Completed is false when an action ended the chain early.
	Completed bool
	// Temp holds the temp variables at the end of the run.
	Temp map[string]any
}

// Run validates chain and executes its actions in order. An action that does
// not call CallNextAction ends the run.
func (r *Runner) Run(ctx context.Context, name string, chain []actionsdk.Data, trigger Trigger) (*Result, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("chain %q has no actions", name)
	}
	if err := r.registry.Validate(chain); err != nil {
		return nil, fmt.Errorf("chain %q: %w", name, err)
	}

	cache := &actionsdk.Cache{
		RunID:   uuid.NewString(),
		Actions: make([]actionsdk.Data, len(chain)),
		Message: trigger.Message,
		GuildID: trigger.GuildID,
		IsEvent: trigger.IsEvent,
	}
	for i, data := range chain {
		cache.Actions[i] = data.Clone()
	}
	if cache.GuildID == "" && trigger.Message != nil {
		cache.GuildID = trigger.Message.GuildID
	}
	defer r.vars.ClearRun(cache.RunID)

	ctx = observability.WithRunID(ctx, cache.RunID)
	ctx = context.WithValue(ctx, observability.ChainKey, name)
	ctx = context.WithValue(ctx, observability.GuildIDKey, cache.GuildID)
	ctx, span := r.tracer.TraceChain(ctx, name, cache.RunID)
	defer span.End()

	result := &Result{RunID: cache.RunID}
	r.logger.Debug(ctx, "chain started", "actions", len(chain))

	for cache.Index < len(cache.Actions) {
		if err := ctx.Err(); err != nil {
			r.metrics.ChainRun("failed")
			r.tracer.RecordError(span, err)
			return result, err
		}

		index := cache.Index
		if err := r.execute(ctx, cache); err != nil {
			result.Temp = r.vars.Snapshot(actionsdk.ScopeTemp, cache)
			r.metrics.ChainRun("failed")
			r.tracer.RecordError(span, err)
			r.logger.Error(ctx, "chain failed",
				"action", cache.Actions[index].Name(),
				"index", index,
				"code", string(actionsdk.CodeOf(err)),
				"error", err)
			return result, err
		}
		result.Executed++
		if cache.Index == index {
			r.logger.Debug(ctx, "chain ended by action", "index", index)
			break
		}
	}

	result.Completed = cache.Index >= len(cache.Actions)
	result.Temp = r.vars.Snapshot(actionsdk.ScopeTemp, cache)
	r.metrics.ChainRun("completed")
	r.logger.Info(ctx, "chain finished", "executed", result.Executed, "completed", result.Completed)
	return result, nil
}

func (r *Runner) execute(ctx context.Context, cache *actionsdk.Cache) error {
	name := cache.Current().Name()
	action, ok := r.registry.Get(name)
	if !ok {
		return actionsdk.NewError(actionsdk.ErrCodeInternal, cache, fmt.Errorf("unknown action %q", name))
	}

	ctx, span := r.tracer.TraceAction(ctx, name, cache.Index)
	defer span.End()

	start := time.Now()
	err := action.Execute(ctx, r, cache)
	if err != nil {
		r.metrics.ActionExecuted(name, "error", time.Since(start))
		r.metrics.ActionFailed(name, string(actionsdk.CodeOf(err)))
		r.tracer.RecordError(span, err)
		return err
	}
	r.metrics.ActionExecuted(name, "success", time.Since(start))
	return nil
}

// StoreValue writes value into a scoped variable. ScopeNone, unknown scopes
// and server writes outside a guild discard it.
func (r *Runner) StoreValue(ctx context.Context, value any, scope actionsdk.VarScope, name string, cache *actionsdk.Cache) error {
	if scope == actionsdk.ScopeNone {
		r.logger.Debug(ctx, "value discarded", "var", name)
		return nil
	}
	if err := r.vars.Set(scope, cache, name, value); err != nil {
		if errors.Is(err, ErrNoGuild) || errors.Is(err, ErrUnknownScope) {
			r.logger.Debug(ctx, "value discarded", "var", name, "reason", err.Error())
			return nil
		}
		return err
	}
	r.metrics.VariableWritten(scope.String())
	r.logger.Debug(ctx, "variable stored", "scope", scope.String(), "var", name)
	return nil
}

// CallNextAction advances the chain by one action.
func (r *Runner) CallNextAction(ctx context.Context, cache *actionsdk.Cache) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cache.Index++
	return nil
}
