package github

import (
	"errors"
	"regexp"
	"strings"
)

// ErrBadRepoURL names the expected format so callers can surface it verbatim.
var ErrBadRepoURL = errors.New("Invalid GitHub URL format. Use: https://github.com/owner/repo")

var repoURLPattern = regexp.MustCompile(`(?:https?://)?github\.com/([^/\s]+)/([^/\s]+)`)

// ParseRepoURL extracts owner and repo from a GitHub repository URL. A
// trailing ".git" on the repo segment is dropped.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", "", ErrBadRepoURL
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), nil
}
