package store

import "database/sql"

// Settings are plain string values under fixed keys, disjoint from the
// cache prefix so a cache purge never clears them.

// SaveToken persists the bearer token for subsequent sessions.
func (s *SQLiteStore) SaveToken(token string) error {
	return s.setRaw(tokenKey, token)
}

// LoadToken returns the saved bearer token, or "" when none is stored.
func (s *SQLiteStore) LoadToken() (string, error) {
	return s.getRaw(tokenKey)
}

// SaveRepoListText persists the last-entered repository list text.
func (s *SQLiteStore) SaveRepoListText(text string) error {
	return s.setRaw(repoListKey, text)
}

// LoadRepoListText returns the saved repository list text, or "".
func (s *SQLiteStore) LoadRepoListText() (string, error) {
	return s.getRaw(repoListKey)
}

// SetConsent records the analytics-consent decision.
func (s *SQLiteStore) SetConsent(granted bool) error {
	value := "false"
	if granted {
		value = "true"
	}
	return s.setRaw(consentKey, value)
}

// GetConsent returns the consent decision and whether one was recorded.
func (s *SQLiteStore) GetConsent() (granted bool, decided bool, err error) {
	value, err := s.getRaw(consentKey)
	if err != nil {
		return false, false, err
	}
	if value == "" {
		return false, false, nil
	}
	return value == "true", true, nil
}

func (s *SQLiteStore) setRaw(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *SQLiteStore) getRaw(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
