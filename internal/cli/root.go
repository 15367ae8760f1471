// Package cli implements the autochangelog command line: the one-shot
// --auto mode, the interactive prompt, and the version and config
// subcommands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/netrach/autochangelog/internal/changelog"
	"github.com/netrach/autochangelog/internal/config"
	clierrors "github.com/netrach/autochangelog/internal/errors"
	"github.com/netrach/autochangelog/internal/git"
	"github.com/netrach/autochangelog/internal/logging"
)

// Command group IDs shown in help output.
const (
	GroupGenerate      = "generate"
	GroupConfiguration = "configuration"
)

// rootOptions holds the flag values of the root command.
type rootOptions struct {
	configPath string
	debug      bool
	plain      bool

	auto    bool
	file    string
	release string
	repos   []string
}

var (
	opts rootOptions

	// loaded by the persistent pre-run for every command
	cfg    *config.Configuration
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "autochangelog",
	Short: "Generate end-user changelogs for GitHub repositories",
	Long: `autochangelog asks a language model to write a changelog for a GitHub
repository. The model reads releases, tags, commits and contributors
through a fixed set of GitHub tools and writes markdown aimed at the
people who use the software, not the people who build it.

Without --auto, autochangelog starts an interactive prompt where each
query builds on the previous answers. Type 'exit' to quit.

Configuration precedence (highest to lowest):
  1. Environment variables (AUTOCHANGELOG_*)
  2. Project config (.autochangelog/config.yml)
  3. User config (~/.config/autochangelog/config.yml)
  4. Built-in defaults

Credentials are read from the environment (or a .env file):
  LITELLM_API_KEY   language model key (name set by llm.api_key_env)
  GITHUB_TOKEN      GitHub token (name set by github.token_env)`,
	Example: `  # Changelog for the current repository since its last release
  autochangelog --auto

  # Changelog for a specific release, written to docs/
  autochangelog --auto -r v1.2.3 -f docs/CHANGELOG.md

  # Combine several repositories into one document
  autochangelog --auto --repo octocat/api octocat/web

  # Ask questions interactively
  autochangelog`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateRootFlags(cmd)
	},
	RunE: runRoot,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupGenerate, Title: "Generate:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(), "Run 'autochangelog --help' for the list of flags")
	})

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to project config file (default: .autochangelog/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.plain, "plain", false, "Disable colors in rendered output")

	rootCmd.Flags().BoolVar(&opts.auto, "auto", false, "Automatically generate a changelog since the last release")
	rootCmd.Flags().StringVarP(&opts.file, "file", "f", changelog.DefaultFilename, "Output file path for the changelog")
	rootCmd.Flags().StringVarP(&opts.release, "release", "r", "", "Release version for the changelog (e.g., v1.2.3)")
	rootCmd.Flags().StringArrayVar(&opts.repos, "repo", nil, "One or more repositories (e.g., owner/repo1 owner/repo2)")
}

// Execute runs the root command and returns the error to report, if any.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(normalizeRepoArgs(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		clierrors.FprintAny(os.Stderr, err)
	}
	return err
}

// loadConfig reads the layered configuration and sets up logging.
func loadConfig() error {
	loaded, err := config.Load(opts.configPath)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Configuration,
			"Check the file for typos or invalid values",
			"Run 'autochangelog config init' to write a fresh template")
	}
	cfg = loaded

	if opts.plain {
		cfg.Output.Plain = true
	}
	if cfg.Output.Plain {
		color.NoColor = true
	}

	level := cfg.LogLevel
	if opts.debug {
		level = "debug"
	}
	logger = logging.New(os.Stderr, level, color.NoColor)
	git.SetDebugLogger(logging.Printf(logger))

	logger.Debug().Strs("sources", cfg.Sources).Msg("configuration loaded")
	return nil
}

// validateRootFlags rejects --repo values that are not repository references.
func validateRootFlags(cmd *cobra.Command) error {
	for _, repo := range opts.repos {
		if _, err := git.ParseRepoRef(repo); err != nil {
			return clierrors.InvalidRepoRef(repo)
		}
	}
	if !opts.auto && (cmd.Flags().Changed("release") || cmd.Flags().Changed("repo") || cmd.Flags().Changed("file")) {
		logger.Warn().Msg("--file, --release and --repo only apply with --auto")
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	creds, err := resolveCredentials(cfg)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, creds, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	if opts.auto {
		return a.runAuto(ctx, AutoOptions{
			File:    opts.file,
			Release: opts.release,
			Repos:   opts.repos,
		})
	}
	return a.runInteractive(ctx, cmd.InOrStdin())
}

// resolveCredentials reads every required secret before anything is built.
func resolveCredentials(cfg *config.Configuration) (*config.Credentials, error) {
	lookup, err := config.EnvLookup(config.DotEnvPath())
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Configuration, "Fix or remove the .env file")
	}
	return config.ResolveCredentials(cfg, lookup)
}

// normalizeRepoArgs lets --repo take several space-separated values
// ("--repo a/b c/d") by repeating the flag for each trailing value.
func normalizeRepoArgs(args []string) []string {
	out := make([]string, 0, len(args))
	inRepo := false
	for _, arg := range args {
		switch {
		case arg == "--repo":
			inRepo = true
			out = append(out, arg)
			continue
		case len(arg) > 0 && arg[0] == '-':
			inRepo = false
		case inRepo && len(out) > 0 && out[len(out)-1] != "--repo":
			out = append(out, "--repo")
		}
		out = append(out, arg)
	}
	return out
}
