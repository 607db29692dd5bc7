// Package classify assigns a semantic category to issues and pull requests
// using label heuristics and the source-supplied type hint.
package classify

import (
	"strings"

	"github.com/vilaca/issues-dashboard/internal/domain"
)

// Classify returns a copy of item with its Category and Repository set.
// Pure function: no I/O, input unmodified, deterministic.
//
// Priority order, first match wins:
//  1. default category is "other"
//  2. a bug-pattern label sets "bug"
//  3. otherwise a feature-pattern label sets "feature"
//  4. a structured type hint (bug/feature/task) overrides the label result;
//     "task" is only reachable this way, no label heuristic maps to it
func Classify(item domain.Issue, repo string) domain.Issue {
	category := domain.CategoryOther

	for _, label := range item.Labels {
		name := strings.ToLower(label.Name)
		if matchesBug(name) {
			category = domain.CategoryBug
			break
		}
	}

	if category == domain.CategoryOther {
		for _, label := range item.Labels {
			name := strings.ToLower(label.Name)
			if matchesFeature(name) {
				category = domain.CategoryFeature
				break
			}
		}
	}

	// The type hint wins over any label heuristic when it names a known
	// category. Labels=["bug"] with a hint of "feature" classifies as feature.
	if item.TypeHint != nil {
		switch strings.ToLower(item.TypeHint.Name) {
		case "bug":
			category = domain.CategoryBug
		case "feature":
			category = domain.CategoryFeature
		case "task":
			category = domain.CategoryTask
		}
	}

	item.Category = category
	item.Repository = repo
	return item
}

// matchesBug reports whether a lower-cased label name matches a bug pattern.
func matchesBug(name string) bool {
	if name == "bug" || name == "bugs" {
		return true
	}
	if strings.HasPrefix(name, "bug:") || strings.HasPrefix(name, "bug ") {
		return true
	}
	if strings.Contains(name, "defect") || strings.Contains(name, "error") {
		return true
	}
	if name == "fix" || strings.HasPrefix(name, "fix:") || strings.HasPrefix(name, "fix ") {
		return true
	}
	return false
}

// matchesFeature reports whether a lower-cased label name matches a feature pattern.
func matchesFeature(name string) bool {
	if name == "feature" || name == "features" {
		return true
	}
	if strings.HasPrefix(name, "feature:") || strings.HasPrefix(name, "feature ") {
		return true
	}
	if name == "enhancement" || name == "enhancements" {
		return true
	}
	if strings.HasPrefix(name, "enhancement:") || strings.HasPrefix(name, "enhancement ") {
		return true
	}
	if name == "improvement" || strings.HasPrefix(name, "improvement:") || strings.HasPrefix(name, "improvement ") {
		return true
	}
	if name == "feat" || strings.HasPrefix(name, "feat:") || strings.HasPrefix(name, "feat ") {
		return true
	}
	return false
}
