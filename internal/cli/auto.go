package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/netrach/autochangelog/internal/agent"
	"github.com/netrach/autochangelog/internal/changelog"
	clierrors "github.com/netrach/autochangelog/internal/errors"
)

// AutoOptions are the --auto mode parameters.
type AutoOptions struct {
	File    string
	Release string
	Repos   []string
}

// BuildAutoQuery writes the single instruction sent in --auto mode.
// currentRepoURL is only used when no repositories were named.
func BuildAutoQuery(opts AutoOptions, currentRepoURL string) string {
	file := opts.File
	if file == "" {
		file = changelog.DefaultFilename
	}

	var sb strings.Builder
	if opts.Release != "" {
		fmt.Fprintf(&sb, "Generate a changelog for release %s and save it to %s.", opts.Release, file)
	} else {
		fmt.Fprintf(&sb, "Generate a changelog for the current repository since the last release and save it to %s.", file)
	}

	switch {
	case len(opts.Repos) > 1:
		fmt.Fprintf(&sb, " The repositories are: %s.", strings.Join(opts.Repos, ", "))
	case len(opts.Repos) == 1:
		fmt.Fprintf(&sb, " The repository is %s.", opts.Repos[0])
	case currentRepoURL != "":
		fmt.Fprintf(&sb, " The repository is at %s.", currentRepoURL)
	}
	return sb.String()
}

// runAuto performs exactly one orchestrator round-trip and prints the reply.
func (a *app) runAuto(ctx context.Context, opts AutoOptions) error {
	if opts.Release != "" {
		fmt.Fprintf(a.out, "Generating changelog for release %s...\n", opts.Release)
	} else {
		fmt.Fprintln(a.out, "Generating changelog since last release...")
	}

	var currentRepo string
	if len(opts.Repos) == 0 {
		url, err := a.local.CurrentRepoURL()
		if err != nil {
			a.logger.Debug().Err(err).Msg("no local repository detected")
		}
		currentRepo = url
	}

	query := BuildAutoQuery(opts, currentRepo)
	fmt.Fprintln(a.out, query)

	a.indicator.Start("Generating changelog...")
	history, err := a.runner.Run(ctx, []llms.MessageContent{agent.UserMessage(query)})
	a.indicator.Stop()
	a.recorder.RecordConversation(ctx, history)
	if err != nil {
		return runError(err)
	}

	_, reply, ok := agent.FinalAnswer(history)
	if !ok {
		return clierrors.NewRuntimeError("the model returned no answer")
	}
	if err := a.render(a.out, reply); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nChangelog generated successfully!")
	return nil
}

// runError turns an orchestrator failure into a runtime CLIError.
func runError(err error) error {
	if errors.Is(err, agent.ErrMaxIterations) {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "the model did not finish",
			"Raise llm.max_iterations or ask a narrower question")
	}
	if errors.Is(err, context.Canceled) {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "interrupted")
	}
	return clierrors.WrapWithMessage(err, clierrors.Runtime, "changelog generation failed",
		"Check llm.base_url and the LLM API key")
}
