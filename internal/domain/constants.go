package domain

// State filter constants
const (
	// StateFilterOpen requests only open items from the remote API
	StateFilterOpen = "open"
	// StateFilterAll requests items regardless of state
	StateFilterAll = "all"
)

// StateFilter returns the filter discriminator for an open-only flag.
func StateFilter(openOnly bool) string {
	if openOnly {
		return StateFilterOpen
	}
	return StateFilterAll
}
