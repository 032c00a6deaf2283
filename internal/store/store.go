// Package store is an in-memory researcher profile store keyed by normalized
// name plus affiliation. Profiles are superseded, not merged, on re-fetch.
// There are no durability guarantees: contents die with the process.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spigell/scholar-match/internal/ai"
)

// StoredProfile is a persisted candidate profile with bookkeeping timestamps.
type StoredProfile struct {
	ai.Candidate
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store holds researcher profiles for the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]StoredProfile
	now      func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		profiles: make(map[string]StoredProfile),
		now:      time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// ProfileID derives the identity key: lowercased, whitespace collapsed to
// dashes, name and affiliation joined.
func ProfileID(name, affiliation string) string {
	return slug(name) + "_" + slug(affiliation)
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}

// Upsert stores a candidate profile, assigning its id and stamping
// created/updated times. An existing profile under the same key is replaced
// wholesale, keeping only its original creation time.
func (s *Store) Upsert(candidate ai.Candidate) StoredProfile {
	id := ProfileID(candidate.Name, candidate.Affiliation)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := StoredProfile{
		Candidate: candidate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored.ID = id

	if existing, ok := s.profiles[id]; ok {
		stored.CreatedAt = existing.CreatedAt
	}

	s.profiles[id] = stored
	return stored
}

// Get returns the profile for a name/affiliation pair, or false.
func (s *Store) Get(name, affiliation string) (StoredProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[ProfileID(name, affiliation)]
	return profile, ok
}

// GetByID returns the profile with the given id, or false.
func (s *Store) GetByID(id string) (StoredProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[id]
	return profile, ok
}

// GetAll returns every stored profile, most recently updated first.
func (s *Store) GetAll() []StoredProfile {
	s.mu.RLock()
	profiles := make([]StoredProfile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		profiles = append(profiles, profile)
	}
	s.mu.RUnlock()

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].UpdatedAt.After(profiles[j].UpdatedAt)
	})
	return profiles
}

// Delete removes a profile, reporting whether it existed.
func (s *Store) Delete(name, affiliation string) bool {
	id := ProfileID(name, affiliation)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.profiles[id]
	delete(s.profiles, id)
	return ok
}

// Count returns the number of stored profiles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
