package github

import (
	"context"
	"fmt"
	"strings"
)

// The summaries below are what the model sees. Each one returns either an
// "Error fetching ..." line, a "No ... found." sentinel, or one line per item.

// ReleasesSummary lists up to MaxReleases releases as
// "- name (tag) - published_at".
func (c *Client) ReleasesSummary(ctx context.Context, owner, repo string) string {
	releases, err := c.ListReleases(ctx, owner, repo)
	if err != nil {
		return "Error fetching releases: " + err.Error()
	}
	if len(releases) == 0 {
		return "No releases found."
	}

	if len(releases) > MaxReleases {
		releases = releases[:MaxReleases]
	}
	lines := make([]string, 0, len(releases))
	for _, r := range releases {
		lines = append(lines, fmt.Sprintf("- %s (%s) - %s", r.Name, r.TagName, r.PublishedAt))
	}
	return strings.Join(lines, "\n")
}

// CommitsSummary lists one page of commits as "- sha: headline (by author)".
func (c *Client) CommitsSummary(ctx context.Context, owner, repo string, perPage int) string {
	commits, err := c.ListCommits(ctx, owner, repo, perPage)
	if err != nil {
		return "Error fetching commits: " + err.Error()
	}
	if len(commits) == 0 {
		return "No commits found."
	}

	lines := make([]string, 0, len(commits))
	for _, cm := range commits {
		lines = append(lines, fmt.Sprintf("- %s: %s (by %s)", cm.SHA, cm.Headline(), cm.AuthorName))
	}
	return strings.Join(lines, "\n")
}

// CommitsBetweenSummary lists the commits in base...head with a count header.
// SHAs are shortened to 7 characters.
func (c *Client) CommitsBetweenSummary(ctx context.Context, owner, repo, base, head string) string {
	cmp, err := c.CompareRefs(ctx, owner, repo, base, head)
	if err != nil {
		return "Error fetching commits between releases: " + err.Error()
	}
	if len(cmp.Commits) == 0 {
		return fmt.Sprintf("No commits found between %s and %s.", base, head)
	}

	lines := make([]string, 0, len(cmp.Commits)+1)
	lines = append(lines, fmt.Sprintf("Commits between %s and %s (%d total):\n", base, head, len(cmp.Commits)))
	for _, cm := range cmp.Commits {
		lines = append(lines, fmt.Sprintf("- %s: %s (by %s on %s)",
			cm.ShortSHA(), cm.Headline(), cm.AuthorName, cm.AuthorDate))
	}
	return strings.Join(lines, "\n")
}

// UserReposSummary lists a user's repositories as "- name: description".
func (c *Client) UserReposSummary(ctx context.Context, username string) string {
	repos, err := c.ListUserRepos(ctx, username)
	if err != nil {
		return "Error fetching user repositories: " + err.Error()
	}
	if len(repos) == 0 {
		return "No repositories found."
	}

	lines := make([]string, 0, len(repos))
	for _, r := range repos {
		description := "No description"
		if r.Description != nil && *r.Description != "" {
			description = *r.Description
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Name, description))
	}
	return strings.Join(lines, "\n")
}

// TagsSummary lists tags as "- name: sha".
func (c *Client) TagsSummary(ctx context.Context, owner, repo string) string {
	tags, err := c.ListTags(ctx, owner, repo)
	if err != nil {
		return "Error fetching tags: " + err.Error()
	}
	if len(tags) == 0 {
		return "No tags found."
	}

	lines := make([]string, 0, len(tags))
	for _, t := range tags {
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Name, t.SHA))
	}
	return strings.Join(lines, "\n")
}

// ContributorsSummary lists contributors as "- login: N contributions".
func (c *Client) ContributorsSummary(ctx context.Context, owner, repo string) string {
	contributors, err := c.ListContributors(ctx, owner, repo)
	if err != nil {
		return "Error fetching contributors: " + err.Error()
	}
	if len(contributors) == 0 {
		return "No contributors found."
	}

	lines := make([]string, 0, len(contributors))
	for _, ct := range contributors {
		lines = append(lines, fmt.Sprintf("- %s: %d contributions", ct.Login, ct.Contributions))
	}
	return strings.Join(lines, "\n")
}
