package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/netrach/autochangelog/internal/config"
	clierrors "github.com/netrach/autochangelog/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create configuration files",
	Long: `Inspect the effective configuration or write a commented template.

Credentials are never stored in config files. The config only names the
environment variables that hold them (llm.api_key_env, github.token_env,
telemetry.api_key_env).`,
	// subcommands decide for themselves whether the current config must load
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Example: `  # Show merged config from defaults, files and environment
  autochangelog config show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		dim := color.New(color.Faint).SprintFunc()

		if len(cfg.Sources) == 0 {
			fmt.Fprintln(out, dim("# sources: defaults and environment only"))
		}
		for _, src := range cfg.Sources {
			fmt.Fprintln(out, dim("# source: "+src))
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = out.Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config template",
	Long: `Write a commented config template with every option and its default.

By default the template goes to the project (.autochangelog/config.yml).
Use --user for the user-level config, which applies to all projects.
An existing file is left unchanged unless --force is given.`,
	Example: `  # Project config
  autochangelog config init

  # User config
  autochangelog config init --user

  # Overwrite an existing file
  autochangelog config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configInitCmd.Flags().Bool("user", false, "Write the user-level config instead of the project config")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetBool("user")
	force, _ := cmd.Flags().GetBool("force")

	path := config.ProjectConfigPath()
	if user {
		p, err := config.UserConfigPath()
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Configuration, "cannot locate the user config directory")
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s (use --force to overwrite)\n", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", green("✓"), path)
	return nil
}
