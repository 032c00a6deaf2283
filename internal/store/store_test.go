package store

import (
	"testing"
	"time"

	"github.com/spigell/scholar-match/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sarah-chen_stanford-university", ProfileID("Sarah Chen", "Stanford University"))
	assert.Equal(t, "sarah-chen_stanford-university", ProfileID("  SARAH   chen ", " Stanford  University "))
	assert.Equal(t, "marcus-rodriguez_mit", ProfileID("Marcus Rodriguez", "MIT"))
}

func TestUpsertAndGet(t *testing.T) {
	t.Parallel()

	s := New()

	stored := s.Upsert(ai.Candidate{
		Name:        "Sarah Chen",
		Affiliation: "Stanford University",
		Summary:     "Safety researcher.",
	})

	assert.Equal(t, "sarah-chen_stanford-university", stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)

	byKey, ok := s.Get("Sarah Chen", "Stanford University")
	require.True(t, ok)
	assert.Equal(t, stored, byKey)

	byID, ok := s.GetByID(stored.ID)
	require.True(t, ok)
	assert.Equal(t, stored, byID)

	_, ok = s.GetByID("unknown")
	assert.False(t, ok)
}

func TestUpsertSupersedes(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return current })

	first := s.Upsert(ai.Candidate{
		Name:        "Sarah Chen",
		Affiliation: "Stanford University",
		Papers:      []ai.Paper{{Title: "Old Paper"}},
	})

	current = current.Add(2 * time.Hour)
	second := s.Upsert(ai.Candidate{
		Name:        "Sarah Chen",
		Affiliation: "Stanford University",
		Papers:      []ai.Paper{{Title: "New Paper"}, {Title: "Another"}},
	})

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "creation time survives re-enrichment")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	// Replacement is wholesale, not a merge.
	got, ok := s.Get("Sarah Chen", "Stanford University")
	require.True(t, ok)
	require.Len(t, got.Papers, 2)
	assert.Equal(t, "New Paper", got.Papers[0].Title)
	assert.Equal(t, 1, s.Count())
}

func TestGetAllOrdering(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return current })

	s.Upsert(ai.Candidate{Name: "Oldest", Affiliation: "X"})
	current = current.Add(time.Minute)
	s.Upsert(ai.Candidate{Name: "Middle", Affiliation: "X"})
	current = current.Add(time.Minute)
	s.Upsert(ai.Candidate{Name: "Newest", Affiliation: "X"})

	all := s.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, "Newest", all[0].Name)
	assert.Equal(t, "Middle", all[1].Name)
	assert.Equal(t, "Oldest", all[2].Name)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := New()
	s.Upsert(ai.Candidate{Name: "Sarah Chen", Affiliation: "Stanford University"})

	assert.True(t, s.Delete("Sarah Chen", "Stanford University"))
	assert.False(t, s.Delete("Sarah Chen", "Stanford University"))
	assert.Equal(t, 0, s.Count())
}

func TestSeedProfiles(t *testing.T) {
	t.Parallel()

	fixtures := SeedProfiles()
	require.Len(t, fixtures, 3)

	for _, candidate := range fixtures {
		assert.NotEmpty(t, candidate.Name)
		assert.NotEmpty(t, candidate.Affiliation)
		assert.NotEmpty(t, candidate.Summary)
		assert.NotEmpty(t, candidate.Papers)

		for _, paper := range candidate.Papers {
			assert.NotEmpty(t, paper.Title)
			assert.NotEmpty(t, paper.Authors)
			assert.NotEmpty(t, paper.URL)
		}
	}

	s := New()
	for _, candidate := range fixtures {
		s.Upsert(candidate)
	}
	assert.Equal(t, 3, s.Count())
}
