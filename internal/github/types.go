package github

import "strings"

// Release is a published release.
type Release struct {
	Name    string
	TagName string
	// PublishedAt is RFC 3339 in UTC, empty for drafts.
	PublishedAt string
}

// Commit is an entry from the commits or compare endpoints. Author fields
// come from the git commit, not the GitHub account.
type Commit struct {
	SHA        string
	Message    string
	AuthorName string
	AuthorDate string
}

// Headline returns the first line of the commit message.
func (c Commit) Headline() string {
	headline, _, _ := strings.Cut(c.Message, "\n")
	return headline
}

// ShortSHA returns the SHA truncated to 7 characters.
func (c Commit) ShortSHA() string {
	if len(c.SHA) <= 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// Comparison is the result of comparing two refs.
type Comparison struct {
	Status       string
	TotalCommits int
	Commits      []Commit
}

// Repository is a repository as listed for a user.
type Repository struct {
	Name        string
	Description *string
}

// Tag is a repository tag and the commit it points at.
type Tag struct {
	Name string
	SHA  string
}

// Contributor is a repository contributor with a contribution count.
type Contributor struct {
	Login         string
	Contributions int
}
