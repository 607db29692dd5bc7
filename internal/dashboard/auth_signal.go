package dashboard

import "sync"

// AuthSignal records that the remote API rejected the configured
// credentials. The fetcher raises it through its auth-failure hook; the
// issues endpoint surfaces it so the UI can prompt for a token. Applying
// a new token clears it.
type AuthSignal struct {
	mu         sync.RWMutex
	required   bool
	lastStatus int
}

// NewAuthSignal creates a cleared signal.
func NewAuthSignal() *AuthSignal {
	return &AuthSignal{}
}

// Signal marks credentials as insufficient. Matches api.AuthFailureHook.
func (s *AuthSignal) Signal(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.required = true
	s.lastStatus = status
}

// Clear resets the signal, typically after a new token is applied.
func (s *AuthSignal) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.required = false
	s.lastStatus = 0
}

// Required reports whether a token prompt is pending.
func (s *AuthSignal) Required() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.required
}

// LastStatus returns the HTTP status that raised the signal, or 0.
func (s *AuthSignal) LastStatus() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStatus
}
