package domain

import (
	"fmt"
	"strings"
)

// RepoIdentifier identifies a remote repository as "owner/name".
// Immutable once parsed.
type RepoIdentifier struct {
	Owner string
	Name  string
}

// ParseRepoIdentifier parses an "owner/name" string into a RepoIdentifier.
func ParseRepoIdentifier(s string) (RepoIdentifier, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoIdentifier{}, fmt.Errorf("invalid repository identifier %q: expected owner/name", s)
	}
	return RepoIdentifier{Owner: parts[0], Name: parts[1]}, nil
}

// String returns the canonical "owner/name" form.
func (r RepoIdentifier) String() string {
	return r.Owner + "/" + r.Name
}
