package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
	"gopkg.in/yaml.v3"

	"github.com/haasonsaas/embedinfo/internal/actions/storeembedinfo"
	"github.com/haasonsaas/embedinfo/internal/channels/discord"
	"github.com/haasonsaas/embedinfo/internal/embedinfo"
	"github.com/haasonsaas/embedinfo/internal/pipeline"
	"github.com/haasonsaas/embedinfo/internal/storage"
	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

// =============================================================================
// Descriptor
// =============================================================================

type infoRow struct {
	Key      string             `yaml:"key"`
	Label    string             `yaml:"label"`
	Path     string             `yaml:"path"`
	Datatype actionsdk.Datatype `yaml:"datatype"`
}

type describeOutput struct {
	actionsdk.Manifest `yaml:",inline"`
	ConfigSchema       any       `yaml:"configSchema"`
	Infos              []infoRow `yaml:"infos"`
}

// printDescribe prints the manifest, schema and catalog as YAML.
func printDescribe(out io.Writer) error {
	manifest := storeembedinfo.New(storeembedinfo.Config{}).Manifest()

	var schema any
	if err := json.Unmarshal(manifest.ConfigSchema, &schema); err != nil {
		return fmt.Errorf("decode config schema: %w", err)
	}
	doc := describeOutput{Manifest: *manifest, ConfigSchema: schema}
	for _, entry := range embedinfo.Entries() {
		doc.Infos = append(doc.Infos, infoRow{
			Key:      string(entry.Key),
			Label:    entry.Label,
			Path:     entry.PathString(),
			Datatype: embedinfo.Classify(entry.Key),
		})
	}
	return writeYAML(out, doc)
}

// printForm renders the editor HTML.
func printForm(out io.Writer, isEvent bool) error {
	html, err := storeembedinfo.New(storeembedinfo.Config{}).HTML(isEvent, actionsdk.DefaultHostOptions())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, html)
	return err
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// =============================================================================
// Run
// =============================================================================

type runOptions struct {
	configPath  string
	messagePath string
	chain       string
	guildID     string
	cached      []string
}

type runOutput struct {
	RunID     string         `yaml:"run_id"`
	Chain     string         `yaml:"chain"`
	Executed  int            `yaml:"executed"`
	Completed bool           `yaml:"completed"`
	Temp      map[string]any `yaml:"temp,omitempty"`
	Server    map[string]any `yaml:"server,omitempty"`
	Global    map[string]any `yaml:"global,omitempty"`
}

// runChain runs a chain with the decoded message as command message.
func runChain(ctx context.Context, in io.Reader, out, logOut io.Writer, opts runOptions) (err error) {
	a, err := newApp(opts.configPath, logOut)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	raw, err := readDiscordMessage(in, opts.messagePath)
	if err != nil {
		return err
	}
	state := discord.NewState(100)
	if err := discord.AddMessage(state, raw); err != nil {
		return err
	}
	for _, path := range opts.cached {
		cached, err := readDiscordMessage(in, path)
		if err != nil {
			return err
		}
		if err := discord.AddMessage(state, cached); err != nil {
			return err
		}
	}

	name, chain, err := a.findChain(ctx, opts.chain)
	if err != nil {
		return err
	}

	runner, err := pipeline.NewRunner(pipeline.Config{
		Registry: a.registry,
		Source:   discord.NewStateSource(state),
		Logger:   a.logger,
		Metrics:  a.metrics,
		Tracer:   a.tracer,
	})
	if err != nil {
		return err
	}

	result, runErr := runner.Run(ctx, name, chain, pipeline.Trigger{
		Message: discord.FromMessage(raw),
		GuildID: opts.guildID,
	})
	if result == nil {
		return runErr
	}

	scopeCache := &actionsdk.Cache{GuildID: opts.guildID}
	if scopeCache.GuildID == "" {
		scopeCache.GuildID = raw.GuildID
	}
	doc := runOutput{
		RunID:     result.RunID,
		Chain:     name,
		Executed:  result.Executed,
		Completed: result.Completed,
		Temp:      result.Temp,
		Server:    runner.Variables().Snapshot(actionsdk.ScopeServer, scopeCache),
		Global:    runner.Variables().Snapshot(actionsdk.ScopeGlobal, scopeCache),
	}
	if err := writeYAML(out, doc); err != nil {
		return err
	}
	return runErr
}

func readDiscordMessage(stdin io.Reader, path string) (*discordgo.Message, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open message: %w", err)
		}
		defer f.Close()
		r = f
	}
	var msg discordgo.Message
	if err := json.NewDecoder(r).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decode message %s: %w", path, err)
	}
	return &msg, nil
}

// findChain looks name up in the config, then in storage.
func (a *app) findChain(ctx context.Context, name string) (string, []actionsdk.Data, error) {
	if name == "" {
		if len(a.cfg.Chains) != 1 {
			return "", nil, fmt.Errorf("--chain is required when the config defines %d chains", len(a.cfg.Chains))
		}
		for only, chain := range a.cfg.Chains {
			return only, chain, nil
		}
	}
	if chain, ok := a.cfg.Chains[name]; ok {
		return name, chain, nil
	}
	stored, err := a.stores.Chains.Get(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, fmt.Errorf("chain %q not found in config or storage", name)
	}
	if err != nil {
		return "", nil, err
	}
	return name, stored.Actions, nil
}

// =============================================================================
// Chains
// =============================================================================

func saveChain(ctx context.Context, out io.Writer, configPath, name, file, guildID string) (err error) {
	a, err := newApp(configPath, io.Discard)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read chain: %w", err)
	}
	var chain []actionsdk.Data
	if err := yaml.Unmarshal(data, &chain); err != nil {
		return fmt.Errorf("decode chain: %w", err)
	}
	if len(chain) == 0 {
		return fmt.Errorf("chain %s has no actions", file)
	}
	if err := a.registry.Validate(chain); err != nil {
		return err
	}

	record := &storage.Chain{Name: name, GuildID: guildID, Actions: chain}
	if err := storage.Save(ctx, a.stores.Chains, record); err != nil {
		return fmt.Errorf("save chain: %w", err)
	}
	fmt.Fprintf(out, "Saved chain %q (%d actions, id %s)\n", name, len(chain), record.ID)
	return nil
}

func listChains(ctx context.Context, out io.Writer, configPath, guildID string) (err error) {
	a, err := newApp(configPath, io.Discard)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	chains, total, err := a.stores.Chains.List(ctx, guildID, 0, 0)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Stored Chains")
	fmt.Fprintln(out, "=============")
	fmt.Fprintln(out)
	if total == 0 {
		fmt.Fprintln(out, "No chains stored.")
	} else {
		fmt.Fprintln(out, "Name                  Guild               Actions  Updated")
		fmt.Fprintln(out, "--------------------  ------------------  -------  --------------------")
		for _, chain := range chains {
			guild := chain.GuildID
			if guild == "" {
				guild = "-"
			}
			fmt.Fprintf(out, "%-20s  %-18s  %7d  %s\n", chain.Name, guild, len(chain.Actions), chain.UpdatedAt.Format(time.RFC3339))
		}
	}

	if len(a.cfg.Chains) > 0 {
		names := make([]string, 0, len(a.cfg.Chains))
		for name := range a.cfg.Chains {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Config chains: %v\n", names)
	}
	return nil
}

func showChain(ctx context.Context, out io.Writer, configPath, name string) (err error) {
	a, err := newApp(configPath, io.Discard)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	chain, err := a.stores.Chains.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("chain %q: %w", name, err)
	}
	return writeYAML(out, chain)
}

func deleteChain(ctx context.Context, out io.Writer, configPath, name string) (err error) {
	a, err := newApp(configPath, io.Discard)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := a.stores.Chains.Delete(ctx, name); err != nil {
		return fmt.Errorf("chain %q: %w", name, err)
	}
	fmt.Fprintf(out, "Deleted chain %q\n", name)
	return nil
}
