// Package git inspects the local working copy to fill in defaults the user
// did not name explicitly: the committer identity and the remote URL of the
// current repository. It uses the go-git library, so no git CLI is required.
// Every accessor degrades to an empty result outside a git working copy.
package git

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// DefaultRemote is the remote consulted first for the repository URL.
const DefaultRemote = "origin"

// Inspector reads identity and remote information from a working copy.
// Dir is the directory to start searching from; empty means the current
// working directory. The repository root is found by walking up from Dir.
type Inspector struct {
	Dir string
}

// NewInspector returns an Inspector rooted at dir.
func NewInspector(dir string) *Inspector {
	return &Inspector{Dir: dir}
}

// openRepo opens the git repository containing path.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// IsRepository reports whether Dir is inside a git working copy.
func (i *Inspector) IsRepository() bool {
	_, err := openRepo(i.Dir)
	return err == nil
}

// CurrentUser returns the configured committer name (user.name).
// Inside a repository the local config overrides the global one; outside a
// repository only the global config is read. Returns "" when unset.
func (i *Inspector) CurrentUser() (string, error) {
	cfg, err := i.loadConfig()
	if err != nil {
		return "", err
	}

	name := cfg.User.Name
	if name == "" {
		name = cfg.Author.Name
	}
	logDebug("[git] CurrentUser: %q", name)
	return name, nil
}

// loadConfig returns the local+global merged config, or the global config
// alone when Dir is not inside a repository.
func (i *Inspector) loadConfig() (*config.Config, error) {
	repo, err := openRepo(i.Dir)
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, err
		}
		logDebug("[git] not a repository, reading global config")
		cfg, err := config.LoadConfig(config.GlobalScope)
		if err != nil {
			return nil, fmt.Errorf("loading global git config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return nil, fmt.Errorf("loading repository config: %w", err)
	}
	return cfg, nil
}

// CurrentRepoURL returns the fetch URL of the origin remote, or of the first
// remote by name when there is no origin. Returns "" when Dir is not inside a
// repository or the repository has no remotes.
func (i *Inspector) CurrentRepoURL() (string, error) {
	repo, err := openRepo(i.Dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			logDebug("[git] CurrentRepoURL: not a repository")
			return "", nil
		}
		return "", err
	}

	remote, err := repo.Remote(DefaultRemote)
	if err == nil {
		return firstURL(remote), nil
	}
	if !errors.Is(err, git.ErrRemoteNotFound) {
		return "", fmt.Errorf("reading remote %s: %w", DefaultRemote, err)
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return "", fmt.Errorf("listing remotes: %w", err)
	}
	if len(remotes) == 0 {
		logDebug("[git] CurrentRepoURL: no remotes configured")
		return "", nil
	}

	sort.Slice(remotes, func(a, b int) bool {
		return remotes[a].Config().Name < remotes[b].Config().Name
	})
	return firstURL(remotes[0]), nil
}

func firstURL(remote *git.Remote) string {
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	logDebug("[git] remote %s -> %s", remote.Config().Name, urls[0])
	return urls[0]
}
