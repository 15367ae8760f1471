package github

import (
	"context"
	"fmt"
	"time"

	gogithub "github.com/google/go-github/v58/github"
)

const (
	// MaxReleases caps the releases included in a summary.
	MaxReleases = 10
	// DefaultPerPage is used when the caller asks for fewer than one commit.
	DefaultPerPage = 30
	// MaxPerPage is the largest page GitHub accepts.
	MaxPerPage = 100
)

// ClampPerPage bounds a requested page size to [1, MaxPerPage], replacing
// non-positive values with DefaultPerPage.
func ClampPerPage(perPage int) int {
	switch {
	case perPage < 1:
		return DefaultPerPage
	case perPage > MaxPerPage:
		return MaxPerPage
	default:
		return perPage
	}
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return nil
}

// ListReleases returns the first page of releases, newest first.
func (c *Client) ListReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	releases, resp, err := c.gh.Repositories.ListReleases(ctx, owner, repo, nil)
	if err != nil {
		return nil, translateError(resp, err)
	}

	out := make([]Release, 0, len(releases))
	for _, r := range releases {
		out = append(out, Release{
			Name:        r.GetName(),
			TagName:     r.GetTagName(),
			PublishedAt: formatTimestamp(r.GetPublishedAt()),
		})
	}
	return out, nil
}

// ListCommits returns the first page of commits on the default branch.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, perPage int) ([]Commit, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, &gogithub.CommitsListOptions{
		ListOptions: gogithub.ListOptions{PerPage: ClampPerPage(perPage), Page: 1},
	})
	if err != nil {
		return nil, translateError(resp, err)
	}
	return convertCommits(commits), nil
}

// CompareRefs returns the comparison of base...head. Refs may be tags,
// branches or commit SHAs.
func (c *Client) CompareRefs(ctx context.Context, owner, repo, base, head string) (*Comparison, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	cmp, resp, err := c.gh.Repositories.CompareCommits(ctx, owner, repo, base, head, nil)
	if err != nil {
		return nil, translateError(resp, err)
	}
	return &Comparison{
		Status:       cmp.GetStatus(),
		TotalCommits: cmp.GetTotalCommits(),
		Commits:      convertCommits(cmp.Commits),
	}, nil
}

// ListUserRepos returns the first page of a user's public repositories.
func (c *Client) ListUserRepos(ctx context.Context, username string) ([]Repository, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	repos, resp, err := c.gh.Repositories.ListByUser(ctx, username, nil)
	if err != nil {
		return nil, translateError(resp, err)
	}

	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, Repository{Name: r.GetName(), Description: r.Description})
	}
	return out, nil
}

// ListTags returns the first page of tags.
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]Tag, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	tags, resp, err := c.gh.Repositories.ListTags(ctx, owner, repo, nil)
	if err != nil {
		return nil, translateError(resp, err)
	}

	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, Tag{Name: t.GetName(), SHA: t.GetCommit().GetSHA()})
	}
	return out, nil
}

// ListContributors returns the first page of contributors.
func (c *Client) ListContributors(ctx context.Context, owner, repo string) ([]Contributor, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	contributors, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, nil)
	if err != nil {
		return nil, translateError(resp, err)
	}

	out := make([]Contributor, 0, len(contributors))
	for _, ct := range contributors {
		out = append(out, Contributor{Login: ct.GetLogin(), Contributions: ct.GetContributions()})
	}
	return out, nil
}

func convertCommits(commits []*gogithub.RepositoryCommit) []Commit {
	out := make([]Commit, 0, len(commits))
	for _, rc := range commits {
		author := rc.GetCommit().GetAuthor()
		out = append(out, Commit{
			SHA:        rc.GetSHA(),
			Message:    rc.GetCommit().GetMessage(),
			AuthorName: author.GetName(),
			AuthorDate: formatTimestamp(author.GetDate()),
		})
	}
	return out
}

// formatTimestamp renders GitHub timestamps the way the API sends them;
// missing values render empty.
func formatTimestamp(ts gogithub.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
