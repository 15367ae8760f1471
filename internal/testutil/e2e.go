// Package testutil provides test utilities and helpers for autochangelog tests.
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

var (
	// binaryPath caches the built autochangelog binary path.
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// credentialVars never leak from the developer's environment into a test run.
var credentialVars = []string{
	"LITELLM_API_KEY",
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"GITHUB_TOKEN",
	"TELEMETRY_API_KEY",
}

// E2EEnv provides an isolated environment for E2E testing.
// Each environment has its own working directory, HOME and XDG config dir,
// and starts with no credentials set.
type E2EEnv struct {
	t       *testing.T
	tempDir string
	workDir string
	binDir  string
	env     map[string]string
}

// CommandResult captures the result of running an autochangelog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment and builds the binary once
// per test process.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "e2e-test-*")
	if err != nil {
		t.Fatalf("creating temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	e := &E2EEnv{
		t:       t,
		tempDir: tempDir,
		workDir: filepath.Join(tempDir, "work"),
		binDir:  filepath.Join(tempDir, "bin"),
		env:     make(map[string]string),
	}
	for _, dir := range []string{e.workDir, e.binDir, filepath.Join(tempDir, ".config")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}

	e.installBinary()
	return e
}

func (e *E2EEnv) installBinary() {
	e.t.Helper()

	buildOnce.Do(func() {
		binaryPath, buildErr = buildBinary()
	})
	if buildErr != nil {
		e.t.Fatalf("building autochangelog: %v", buildErr)
	}

	content, err := os.ReadFile(binaryPath)
	if err != nil {
		e.t.Fatalf("reading autochangelog binary: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.binDir, "autochangelog"), content, 0o755); err != nil {
		e.t.Fatalf("writing autochangelog binary: %v", err)
	}
}

func buildBinary() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "autochangelog-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}
	out := filepath.Join(tmpDir, "autochangelog")

	cmd := exec.Command("go", "build", "-o", out, "./cmd/autochangelog")
	cmd.Dir = repoRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\nOutput: %s", err, output)
	}
	return out, nil
}

// SetEnv sets a variable for every subsequent Run.
func (e *E2EEnv) SetEnv(key, value string) {
	e.env[key] = value
}

// WorkDir returns the directory commands run in.
func (e *E2EEnv) WorkDir() string {
	return e.workDir
}

// ConfigHome returns the XDG config directory of the environment.
func (e *E2EEnv) ConfigHome() string {
	return filepath.Join(e.tempDir, ".config")
}

// WriteFile writes a file relative to the working directory.
func (e *E2EEnv) WriteFile(rel, content string) {
	e.t.Helper()

	path := filepath.Join(e.workDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", rel, err)
	}
}

// ReadFile reads a file relative to the working directory.
func (e *E2EEnv) ReadFile(rel string) string {
	e.t.Helper()

	data, err := os.ReadFile(filepath.Join(e.workDir, rel))
	if err != nil {
		e.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// InitGitRepo initializes a repository in the working directory with the
// given committer name and origin URL. Empty values are skipped.
func (e *E2EEnv) InitGitRepo(userName, originURL string) {
	e.t.Helper()

	repo, err := git.PlainInit(e.workDir, false)
	if err != nil {
		e.t.Fatalf("git init failed: %v", err)
	}

	if userName != "" {
		cfg, err := repo.Config()
		if err != nil {
			e.t.Fatalf("reading git config: %v", err)
		}
		cfg.User.Name = userName
		if err := repo.SetConfig(cfg); err != nil {
			e.t.Fatalf("writing git config: %v", err)
		}
	}

	if originURL != "" {
		if _, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{originURL}}); err != nil {
			e.t.Fatalf("creating origin remote: %v", err)
		}
	}
}

// Run executes an autochangelog command in the isolated E2E environment.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()
	return e.RunWithInput("", args...)
}

// RunWithInput executes a command with the given text on stdin.
func (e *E2EEnv) RunWithInput(input string, args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(filepath.Join(e.binDir, "autochangelog"), args...)
	cmd.Dir = e.workDir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}
	return result
}

func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.tempDir,
		"XDG_CONFIG_HOME=" + e.ConfigHome(),
		"GIT_CONFIG_NOSYSTEM=1",
	}

	// Add safe environment variables from original environment
	for _, key := range []string{"LANG", "LC_ALL", "TMPDIR"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	keys := make([]string, 0, len(e.env))
	for k := range e.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+e.env[k])
	}
	return env
}

// HasCredentialInEnv reports whether a credential variable would reach the
// binary without having been set through SetEnv.
func (e *E2EEnv) HasCredentialInEnv() bool {
	for _, v := range e.buildIsolatedEnv() {
		for _, key := range credentialVars {
			if strings.HasPrefix(v, key+"=") {
				if _, set := e.env[key]; !set {
					return true
				}
			}
		}
	}
	return false
}
