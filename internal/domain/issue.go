package domain

import "time"

// Issue represents a single issue or pull request retrieved from GitHub.
// This is a domain model (part of business logic); the same shape is used
// for both kinds, distinguished by IsPullRequest.
type Issue struct {
	Number        int            `json:"number"`
	Title         string         `json:"title"`
	Body          string         `json:"body,omitempty"`
	State         string         `json:"state"` // "open", "closed"
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Comments      int            `json:"comments"`
	Labels        []Label        `json:"labels,omitempty"`
	Milestone     *Milestone     `json:"milestone,omitempty"`
	TypeHint      *TypeHint      `json:"type_hint,omitempty"`
	Reactions     map[string]int `json:"reactions,omitempty"`
	IsPullRequest bool           `json:"is_pull_request"`

	// Derived fields, set during classification.
	Category   Category `json:"category,omitempty"`
	Repository string   `json:"repository,omitempty"`
}

// Label represents a label attached to an issue or pull request.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Milestone represents a milestone an issue or pull request belongs to.
type Milestone struct {
	Title string     `json:"title"`
	DueOn *time.Time `json:"due_on,omitempty"`
}

// TypeHint is the structured issue type supplied by the source API
// (e.g. GitHub issue types). Optional; most items carry none.
type TypeHint struct {
	Name string `json:"name"`
}

// Category is the derived classification of an issue or pull request.
type Category string

const (
	CategoryBug     Category = "bug"
	CategoryFeature Category = "feature"
	CategoryTask    Category = "task"
	CategoryOther   Category = "other"
)
