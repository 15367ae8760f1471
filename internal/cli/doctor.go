package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netrach/autochangelog/internal/config"
	clierrors "github.com/netrach/autochangelog/internal/errors"
	"github.com/netrach/autochangelog/internal/git"
	"github.com/netrach/autochangelog/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check credentials, telemetry settings and the current repository",
	Long: `Check that autochangelog can run here without contacting any service.

Reports whether the language model key and the GitHub token are set,
whether enabled telemetry is fully configured, and which GitHub
repository the working directory belongs to.`,
	Example: `  autochangelog doctor`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lookup, err := config.EnvLookup(config.DotEnvPath())
		if err != nil {
			return clierrors.Wrap(err, clierrors.Configuration, "Fix or remove the .env file")
		}

		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}

		report := health.RunHealthChecks(cfg, lookup, git.NewInspector(wd))
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
		if !report.Passed {
			return clierrors.NewConfigError("one or more required checks failed",
				"Set the missing variables in the environment or a .env file")
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}
