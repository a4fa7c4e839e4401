// Package storeembedinfo implements the "Store Embed Info" action: it reads
// one value out of the first embed of a message and stores it in a variable.
package storeembedinfo

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/haasonsaas/embedinfo/internal/embedinfo"
	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

const (
	ID      = "store-embed-info"
	Name    = "Store Embed Info"
	Section = "Embed Message"

	Author           = "CoolGuy"
	Version          = "1.0.0"
	ShortDescription = "Gets Embed info."

	// containerID wraps the source variable name input.
	containerID = "varNameContainer"
)

//go:embed form.html.tmpl
var formSource string

var formTemplate = template.Must(template.New("form").Parse(formSource))

// ExtractionObserver is notified of every extraction attempt.
type ExtractionObserver interface {
	Extraction(info string, stored bool)
}

// Config configures the action.
type Config struct {
	// Logger is an optional slog.Logger instance
	Logger *slog.Logger

	// Observer is optional.
	Observer ExtractionObserver
}

// Action is the Store Embed Info action.
type Action struct {
	logger   *slog.Logger
	observer ExtractionObserver
}

var _ actionsdk.Action = (*Action)(nil)

// New creates the action.
func New(cfg Config) *Action {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Action{logger: cfg.Logger.With("action", Name), observer: cfg.Observer}
}

func (a *Action) Name() string    { return Name }
func (a *Action) Section() string { return Section }

// Subtitle shows the configured info key.
func (a *Action) Subtitle(data actionsdk.Data) string {
	if info := data[FieldInfo]; info != "" {
		return info
	}
	return "Unknown"
}

// Fields returns the persisted field names in editor order.
func (a *Action) Fields() []string {
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

type formData struct {
	Messages  []actionsdk.Option
	Variables []actionsdk.Option
	Infos     []embedinfo.Entry
}

// HTML renders the editor form.
func (a *Action) HTML(isEvent bool, opts actionsdk.HostOptions) (string, error) {
	var buf bytes.Buffer
	err := formTemplate.Execute(&buf, formData{
		Messages:  actionsdk.Variant(opts.Messages, isEvent),
		Variables: actionsdk.Variant(opts.Variables, isEvent),
		Infos:     embedinfo.Entries(),
	})
	if err != nil {
		return "", fmt.Errorf("render form: %w", err)
	}
	return buf.String(), nil
}

// Init wires the show/hide of the source variable name input.
func (a *Action) Init(editor actionsdk.Editor) error {
	el := editor.ElementByID(FieldMessage)
	if el == nil {
		return fmt.Errorf("form element %q not mounted", FieldMessage)
	}
	editor.MessageChange(el, containerID)
	return nil
}

// VariableStorage declares the destination variable when scope matches the
// configured storage target.
func (a *Action) VariableStorage(data actionsdk.Data, scope actionsdk.VarScope) (actionsdk.StorageDecl, bool) {
	configured, ok := actionsdk.ParseVarScope(data[FieldStorage])
	if !ok || configured != scope {
		return actionsdk.StorageDecl{}, false
	}
	return actionsdk.StorageDecl{
		VarName:  data[FieldVarName2],
		Datatype: embedinfo.Classify(embedinfo.InfoKey(data[FieldInfo])),
	}, true
}

// Manifest describes the action for hosts and tooling.
func (a *Action) Manifest() *actionsdk.Manifest {
	schema, err := ConfigSchema()
	if err != nil {
		a.logger.Error("failed to build config schema", "error", err)
	}
	return &actionsdk.Manifest{
		ID:               ID,
		Name:             Name,
		Section:          Section,
		Author:           Author,
		Version:          Version,
		ShortDescription: ShortDescription,
		Fields:           a.Fields(),
		ConfigSchema:     schema,
	}
}
