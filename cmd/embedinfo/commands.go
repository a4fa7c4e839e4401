package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "embedinfo.yaml"

func buildDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the action descriptor",
		Long:  "Print the action manifest, its config schema and the embed info catalog as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printDescribe(cmd.OutOrStdout())
		},
	}
}

func buildFormCmd() *cobra.Command {
	var isEvent bool

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Render the editor form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printForm(cmd.OutOrStdout(), isEvent)
		},
	}

	cmd.Flags().BoolVar(&isEvent, "event", false, "Render the event variant of the form")
	return cmd
}

func buildRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a chain against a Discord message",
		Long: `Decode a Discord API message object, run a chain with it as the
command message and print the variables the chain stored.

The chain is looked up in the config file first, then in storage. When the
config defines exactly one chain, --chain may be omitted.`,
		Example: `  # Run the only configured chain
  embedinfo run --message msg.json

  # Read the message from stdin and cache another one for variable lookups
  embedinfo run --chain report --message - --cached older.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath = resolveConfigPath(opts.configPath)
			return runChain(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "Path to config file")
	cmd.Flags().StringVarP(&opts.messagePath, "message", "m", "", "Discord message JSON file, or - for stdin (required)")
	cmd.Flags().StringVar(&opts.chain, "chain", "", "Chain name")
	cmd.Flags().StringVar(&opts.guildID, "guild", "", "Guild ID for server variables (default: the message's guild)")
	cmd.Flags().StringArrayVar(&opts.cached, "cached", nil, "Extra Discord message JSON files to cache for channelID:messageID lookups")
	cobra.CheckErr(cmd.MarkFlagRequired("message"))
	return cmd
}

func buildChainsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "chains",
		Short: "Manage stored chains",
		Long:  "Save, list, show and delete action chains in the configured storage.",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")

	cmd.AddCommand(buildChainsSaveCmd(&configPath))
	cmd.AddCommand(buildChainsListCmd(&configPath))
	cmd.AddCommand(buildChainsShowCmd(&configPath))
	cmd.AddCommand(buildChainsDeleteCmd(&configPath))
	return cmd
}

func buildChainsSaveCmd(configPath *string) *cobra.Command {
	var (
		file    string
		guildID string
	)

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Validate and save a chain",
		Long:  "Read a YAML list of action data, validate it against the action schemas and store it under NAME.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveChain(cmd.Context(), cmd.OutOrStdout(), resolveConfigPath(*configPath), args[0], file, guildID)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file holding the chain's actions (required)")
	cmd.Flags().StringVar(&guildID, "guild", "", "Guild the chain belongs to")
	cobra.CheckErr(cmd.MarkFlagRequired("file"))
	return cmd
}

func buildChainsListCmd(configPath *string) *cobra.Command {
	var guildID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listChains(cmd.Context(), cmd.OutOrStdout(), resolveConfigPath(*configPath), guildID)
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "Only list chains of this guild")
	return cmd
}

func buildChainsShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a stored chain as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showChain(cmd.Context(), cmd.OutOrStdout(), resolveConfigPath(*configPath), args[0])
		},
	}
}

func buildChainsDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteChain(cmd.Context(), cmd.OutOrStdout(), resolveConfigPath(*configPath), args[0])
		},
	}
}
