package service

import (
	"strings"

	"github.com/vilaca/issues-dashboard/internal/domain"
)

// ParseRepoList parses a comma or pipe delimited repository list
// (e.g. from a URL query parameter) into identifiers. Blank and malformed
// entries are dropped.
func ParseRepoList(text string) []domain.RepoIdentifier {
	if text == "" {
		return nil
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '|'
	})

	repos := make([]domain.RepoIdentifier, 0, len(fields))
	for _, field := range fields {
		repo, err := domain.ParseRepoIdentifier(field)
		if err != nil {
			continue
		}
		repos = append(repos, repo)
	}
	return repos
}

// InitialRepos resolves the effective repository list: the URL query
// parameter takes precedence over any saved list text.
func InitialRepos(queryParam, saved string) []domain.RepoIdentifier {
	if repos := ParseRepoList(queryParam); len(repos) > 0 {
		return repos
	}
	return ParseRepoList(saved)
}
