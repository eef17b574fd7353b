package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atikulmunna/gastroguard/internal/model"
)

func sampleEntries() []model.LogEntry {
	base := time.Date(2026, 2, 17, 8, 0, 0, 0, time.Local)
	return []model.LogEntry{
		{LoggedAt: base, IngestedAt: base.Add(-time.Hour), Meal: "Oatmeal", PainLevel: 1, StressLevel: 2},
		{LoggedAt: base.Add(4 * time.Hour), IngestedAt: base.Add(4 * time.Hour), Meal: "Spicy tacos", PainLevel: 6, StressLevel: 4, Remedy: "Ginger tea", Condition: "gastritis", Notes: "used tea, felt better"},
		{LoggedAt: base.Add(10 * time.Hour), Meal: "Pizza", PainLevel: 8, StressLevel: 7, Remedy: "Tums"},
	}
}

// exercise runs the shared contract against any Store.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	want := sampleEntries()
	for _, e := range want {
		require.NoError(t, s.Append(ctx, e))
	}

	n, err = s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(want), n)

	got, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].LoggedAt.Equal(got[i].LoggedAt), "logged_at %d", i)
		assert.Equal(t, want[i].Meal, got[i].Meal)
		assert.Equal(t, want[i].PainLevel, got[i].PainLevel)
		assert.Equal(t, want[i].StressLevel, got[i].StressLevel)
		assert.Equal(t, want[i].Remedy, got[i].Remedy)
		assert.Equal(t, want[i].Condition, got[i].Condition)
		assert.Equal(t, want[i].Notes, got[i].Notes)
	}
	assert.True(t, got[0].IngestedAt.Equal(want[0].IngestedAt))
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(sampleEntries()...)

	all, err := m.All(ctx)
	require.NoError(t, err)
	all[0].Meal = "changed"

	again, err := m.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", again[0].Meal)
}

func TestMemoryConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Append(ctx, model.LogEntry{Meal: fmt.Sprintf("meal-%d", i)})
		}(i)
	}
	wg.Wait()

	n, err := m.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "entries.db")
	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()

	exercise(t, s)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "entries.db")

	s1, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s1.Append(ctx, sampleEntries()[1]))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	all, err := s2.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Spicy tacos", all[0].Meal)
	assert.Equal(t, "Ginger tea", all[0].Remedy)
}

func TestSQLiteDefaultsIngestion(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, err)
	defer s.Close()

	e := sampleEntries()[2] // no ingestion time
	require.NoError(t, s.Append(ctx, e))

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.True(t, all[0].IngestedAt.Equal(e.LoggedAt))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Config{Driver: "SQLite", Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Driver: "postgres"})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Driver: "sqlite"})
	assert.Error(t, err)
}

func TestSessionsIsolated(t *testing.T) {
	ctx := context.Background()
	seeded := 0
	sessions := NewSessions(func() []model.LogEntry {
		seeded++
		return sampleEntries()[:1]
	}, SessionLimits{})

	a, b := NewID(), NewID()
	require.NotEqual(t, a, b)

	require.NoError(t, sessions.Get(a).Append(ctx, model.LogEntry{Meal: "only in a"}))

	na, _ := sessions.Get(a).Len(ctx)
	nb, _ := sessions.Get(b).Len(ctx)
	assert.Equal(t, 2, na)
	assert.Equal(t, 1, nb)
	assert.Equal(t, 2, sessions.Len())
	assert.Equal(t, 2, seeded, "seed runs once per new session")
	assert.Same(t, sessions.Get(a), sessions.Get(a))
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 2, 18, 9, 0, 0, 0, time.UTC)
	sessions := NewSessions(nil, SessionLimits{Max: 2})
	sessions.now = func() time.Time { return clock }

	require.NoError(t, sessions.Get("a").Append(ctx, model.LogEntry{Meal: "a"}))
	clock = clock.Add(time.Minute)
	sessions.Get("b")
	clock = clock.Add(time.Minute)
	sessions.Get("a") // a is now the most recent
	clock = clock.Add(time.Minute)
	sessions.Get("c")

	assert.Equal(t, 2, sessions.Len())
	n, _ := sessions.Get("a").Len(ctx)
	assert.Equal(t, 1, n, "recently used session survives")

	// b was evicted, so asking for it again starts empty.
	n, _ = sessions.Get("b").Len(ctx)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, sessions.Len())
}

func TestSessionsDropIdle(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 2, 18, 9, 0, 0, 0, time.UTC)
	sessions := NewSessions(nil, SessionLimits{Idle: time.Hour})
	sessions.now = func() time.Time { return clock }

	require.NoError(t, sessions.Get("old").Append(ctx, model.LogEntry{Meal: "x"}))
	clock = clock.Add(30 * time.Minute)
	sessions.Get("fresh")
	clock = clock.Add(45 * time.Minute)

	// old is 75 minutes idle, fresh only 45.
	sessions.Get("new")
	assert.Equal(t, 2, sessions.Len())

	n, _ := sessions.Get("old").Len(ctx)
	assert.Equal(t, 0, n, "idle session was dropped and recreated empty")
}

func TestSessionsManyIDsStayBounded(t *testing.T) {
	sessions := NewSessions(func() []model.LogEntry { return sampleEntries() }, SessionLimits{Max: 10})
	for i := 0; i < 500; i++ {
		sessions.Get(NewID())
	}
	assert.Equal(t, 10, sessions.Len())
}
