package tools

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/netrach/autochangelog/internal/changelog"
	"github.com/netrach/autochangelog/internal/github"
)

// GitHub is the subset of the GitHub client the tools call.
type GitHub interface {
	ReleasesSummary(ctx context.Context, owner, repo string) string
	CommitsSummary(ctx context.Context, owner, repo string, perPage int) string
	CommitsBetweenSummary(ctx context.Context, owner, repo, base, head string) string
	UserReposSummary(ctx context.Context, username string) string
	TagsSummary(ctx context.Context, owner, repo string) string
	ContributorsSummary(ctx context.Context, owner, repo string) string
}

// LocalRepo reads identity and remote information from the working copy.
type LocalRepo interface {
	CurrentUser() (string, error)
	CurrentRepoURL() (string, error)
}

var (
	ownerParam = Param{Name: "owner", Type: String, Description: "Repository owner (user or organization)", Required: true}
	repoParam  = Param{Name: "repo", Type: String, Description: "Repository name", Required: true}
)

// NewChangelogRegistry registers the nine changelog tools.
func NewChangelogRegistry(gh GitHub, local LocalRepo, logger zerolog.Logger) (*Registry, error) {
	r := NewRegistry(logger)
	for _, t := range ChangelogTools(gh, local) {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ChangelogTools builds the GitHub, export, and local-repository tools.
func ChangelogTools(gh GitHub, local LocalRepo) []Tool {
	return []Tool{
		{
			Name:        "get_releases",
			Description: "Get releases for a GitHub repository. Returns the most recent releases with name, tag, and publish date.",
			Params:      []Param{ownerParam, repoParam},
			Handler: func(ctx context.Context, a Args) string {
				return gh.ReleasesSummary(ctx, a.String("owner"), a.String("repo"))
			},
		},
		{
			Name:        "get_commits",
			Description: "Get recent commits for a GitHub repository. Returns commits with SHA, message, and author.",
			Params: []Param{
				ownerParam,
				repoParam,
				{Name: "per_page", Type: Integer, Description: "Number of commits to return (max 100)", Default: github.DefaultPerPage},
			},
			Handler: func(ctx context.Context, a Args) string {
				return gh.CommitsSummary(ctx, a.String("owner"), a.String("repo"), a.Int("per_page"))
			},
		},
		{
			Name: "get_commits_between_releases",
			Description: "Get commits between two releases or deployments (tags, branches, or commit SHAs). " +
				"Returns commits with short SHA, message, author, and date.",
			Params: []Param{
				ownerParam,
				repoParam,
				{Name: "base", Type: String, Description: "The base reference (older release, tag, or commit)", Required: true},
				{Name: "head", Type: String, Description: "The head reference (newer release, tag, or commit)", Required: true},
			},
			Handler: func(ctx context.Context, a Args) string {
				return gh.CommitsBetweenSummary(ctx, a.String("owner"), a.String("repo"), a.String("base"), a.String("head"))
			},
		},
		{
			Name:        "get_user_repos",
			Description: "Get public repositories for a GitHub user. Returns repository names and descriptions.",
			Params: []Param{
				{Name: "username", Type: String, Description: "GitHub username", Required: true},
			},
			Handler: func(ctx context.Context, a Args) string {
				return gh.UserReposSummary(ctx, a.String("username"))
			},
		},
		{
			Name:        "get_repo_tags",
			Description: "Get tags for a GitHub repository. Returns tags with name and commit SHA.",
			Params:      []Param{ownerParam, repoParam},
			Handler: func(ctx context.Context, a Args) string {
				return gh.TagsSummary(ctx, a.String("owner"), a.String("repo"))
			},
		},
		{
			Name:        "get_repo_contributors",
			Description: "Get contributors for a GitHub repository. Returns usernames with contribution counts.",
			Params:      []Param{ownerParam, repoParam},
			Handler: func(ctx context.Context, a Args) string {
				return gh.ContributorsSummary(ctx, a.String("owner"), a.String("repo"))
			},
		},
		{
			Name:        "export_changelog",
			Description: "Export the given markdown content to a changelog file.",
			Params: []Param{
				{Name: "markdown_content", Type: String, Description: "The changelog in markdown", Required: true},
				{Name: "filename", Type: String, Description: "Output path, should end in .md", Default: changelog.DefaultFilename},
			},
			Handler: func(_ context.Context, a Args) string {
				return changelog.ExportSummary(a.String("markdown_content"), a.String("filename"))
			},
		},
		{
			Name:        "get_current_user",
			Description: "Get the current git user name.",
			Handler: func(context.Context, Args) string {
				name, err := local.CurrentUser()
				if err != nil {
					return "Error fetching current user: " + err.Error()
				}
				if name == "" {
					return "Unknown User"
				}
				return name
			},
		},
		{
			Name:        "get_current_repo",
			Description: "Get the current git repository URL.",
			Handler: func(context.Context, Args) string {
				url, err := local.CurrentRepoURL()
				if err != nil {
					return "Error fetching current repository: " + err.Error()
				}
				if url == "" {
					return "No repository found."
				}
				return url
			},
		},
	}
}
