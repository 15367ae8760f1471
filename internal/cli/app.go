package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"github.com/netrach/autochangelog/internal/agent"
	"github.com/netrach/autochangelog/internal/build"
	"github.com/netrach/autochangelog/internal/changelog"
	"github.com/netrach/autochangelog/internal/config"
	clierrors "github.com/netrach/autochangelog/internal/errors"
	"github.com/netrach/autochangelog/internal/git"
	"github.com/netrach/autochangelog/internal/github"
	"github.com/netrach/autochangelog/internal/observability"
	"github.com/netrach/autochangelog/internal/progress"
	"github.com/netrach/autochangelog/internal/tools"
)

// Runner exchanges a conversation history for the updated history.
type Runner interface {
	Run(ctx context.Context, history []llms.MessageContent) ([]llms.MessageContent, error)
}

// ConversationRecorder receives every finished exchange.
type ConversationRecorder interface {
	RecordConversation(ctx context.Context, history []llms.MessageContent)
}

// RepoLocator reports the working copy's remote URL.
type RepoLocator interface {
	CurrentRepoURL() (string, error)
}

// app wires the configured collaborators for one process run.
type app struct {
	runner    Runner
	recorder  *observability.Recorder
	local     RepoLocator
	indicator *progress.Indicator
	plain     bool
	out       io.Writer
	errOut    io.Writer
	logger    zerolog.Logger
}

func newApp(ctx context.Context, cfg *config.Configuration, creds *config.Credentials, logger zerolog.Logger, out, errOut io.Writer) (*app, error) {
	inspector := git.NewInspector("")

	gh, err := github.NewClient(github.Options{
		BaseURL:           cfg.GitHub.APIURL,
		APIVersion:        cfg.GitHub.APIVersion,
		Token:             creds.GitHubToken,
		UserAgent:         build.UserAgent(),
		Timeout:           cfg.GitHub.Timeout,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid github.api_url",
			"Set github.api_url to the REST root, e.g. https://api.github.com")
	}

	registry, err := tools.NewChangelogRegistry(gh, inspector, logger)
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Runtime)
	}

	model, err := agent.NewModel(ctx, cfg.LLM, creds.LLMAPIKey)
	if err != nil {
		if cliErr := clierrors.AsCLIError(err); cliErr != nil {
			return nil, cliErr
		}
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "cannot create language model",
			"Check llm.provider, llm.model and llm.base_url")
	}

	userID, _ := inspector.CurrentUser()
	recorder, err := observability.New(ctx, observability.Settings{
		Enabled:   cfg.Telemetry.Enabled,
		Endpoint:  cfg.Telemetry.Endpoint,
		APIKey:    creds.TelemetryAPIKey,
		AppName:   cfg.Telemetry.AppName,
		TenantID:  cfg.Telemetry.TenantID,
		UserID:    userID,
		LLMSystem: cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
	})
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "cannot start telemetry",
			"Check telemetry.endpoint or disable tracing with telemetry.enabled: false")
	}
	if recorder.Enabled() {
		logger.Debug().Str("session", recorder.SessionID()).Msg("telemetry enabled")
	}

	return &app{
		runner: agent.New(model, registry, agent.Options{
			Temperature:   cfg.LLM.Temperature,
			MaxIterations: cfg.LLM.MaxIterations,
			Logger:        logger,
		}),
		recorder:  recorder,
		local:     inspector,
		indicator: progress.NewIndicator(errOut, progress.DetectTerminalCapabilities()),
		plain:     cfg.Output.Plain,
		out:       out,
		errOut:    errOut,
		logger:    logger,
	}, nil
}

// close flushes telemetry before exit.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.recorder.Shutdown(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("flushing telemetry")
	}
}

// render prints a markdown reply for the terminal.
func (a *app) render(w io.Writer, markdown string) error {
	if err := changelog.FormatMarkdown(markdown, w, changelog.FormatOptions{Plain: a.plain}); err != nil {
		return fmt.Errorf("rendering reply: %w", err)
	}
	return nil
}
