package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

const stampLayout = "2006-01-02 15:04:05"

// Store persists the user profile as a JSON file.
type Store struct {
	mu   sync.RWMutex
	path string
	data model.Profile
	now  func() time.Time
}

// Load reads the profile at path. A missing file yields an empty profile
// stamped with the current time.
func Load(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("profile %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		stamp := s.now().Format(stampLayout)
		s.data.Created = stamp
		s.data.LastUpdated = stamp
	default:
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return s, nil
}

// Get returns a copy of the profile.
func (s *Store) Get() model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.data
	p.KnownConditions = append([]string(nil), s.data.KnownConditions...)
	p.CurrentMedications = append([]string(nil), s.data.CurrentMedications...)
	p.Allergies = append([]string(nil), s.data.Allergies...)
	return p
}

// Update applies fn to the profile in memory. Call Save to persist it.
func (s *Store) Update(fn func(p *model.Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// Save stamps LastUpdated and writes the profile to disk atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.LastUpdated = s.now().Format(stampLayout)
	if s.data.Created == "" {
		s.data.Created = s.data.LastUpdated
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// Write to a temp file first, then rename for atomicity.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear resets every field except the creation stamp.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = model.Profile{Created: s.data.Created}
}

// SplitList turns "a, b,,c" into [a b c].
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
