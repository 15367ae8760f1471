package git

import (
	"fmt"
	"net/url"
	"strings"
)

// RepoRef identifies a GitHub repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the owner/name form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef accepts either "owner/name" or any remote URL understood by
// ParseRemoteURL.
func ParseRepoRef(s string) (RepoRef, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "://") || strings.HasPrefix(s, "git@") {
		return ParseRemoteURL(s)
	}
	return splitOwnerName(s, s)
}

// ParseRemoteURL extracts owner and name from a remote URL. Handles:
//   - "https://github.com/owner/name(.git)"
//   - "git@github.com:owner/name.git" (SCP-style)
//   - "ssh://git@github.com/owner/name.git"
func ParseRemoteURL(raw string) (RepoRef, error) {
	raw = strings.TrimSpace(raw)

	var path string
	switch {
	case strings.HasPrefix(raw, "git@"):
		idx := strings.Index(raw, ":")
		if idx < 0 {
			return RepoRef{}, fmt.Errorf("invalid remote URL %q", raw)
		}
		path = raw[idx+1:]
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return RepoRef{}, fmt.Errorf("invalid remote URL %q: %w", raw, err)
		}
		path = u.Path
	default:
		return RepoRef{}, fmt.Errorf("invalid remote URL %q", raw)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	return splitOwnerName(path, raw)
}

func splitOwnerName(path, original string) (RepoRef, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("invalid repository reference %q: want owner/name", original)
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}
