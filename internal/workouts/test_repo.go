package workouts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/2beens/workoutlog/pkg"
)

// TestRepo is an in-memory workouts repo with the same semantics as Repo,
// used in tests and local runs without postgres.
type TestRepo struct {
	mutex   sync.Mutex
	entries []Entry
	lastID  int
	// FailWith, when set, is returned (wrapped) by every call
	FailWith error
}

func NewTestRepo() *TestRepo {
	return &TestRepo{}
}

func (r *TestRepo) Add(ctx context.Context, entry Entry) (*Entry, error) {
	added, err := r.AddAll(ctx, []Entry{entry})
	if err != nil {
		return nil, err
	}
	return &added[0], nil
}

func (r *TestRepo) AddAll(_ context.Context, entries []Entry) ([]Entry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.FailWith != nil {
		return nil, &RepositoryError{Op: "insert", Err: r.FailWith}
	}

	taken := make(map[int]map[string]bool)
	for _, e := range r.entries {
		if taken[e.Owner] == nil {
			taken[e.Owner] = make(map[string]bool)
		}
		taken[e.Owner][e.Name] = true
	}

	added := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if taken[entry.Owner][entry.Name] {
			return nil, &ConflictError{Name: entry.Name}
		}
		if taken[entry.Owner] == nil {
			taken[entry.Owner] = make(map[string]bool)
		}
		taken[entry.Owner][entry.Name] = true

		entry.ID = r.lastID + len(added) + 1
		entry.Date = pkg.Day(entry.Date)
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		added = append(added, entry)
	}

	r.lastID += len(added)
	r.entries = append(r.entries, added...)
	return added, nil
}

func (r *TestRepo) ListByOwnerAndDateRange(_ context.Context, owner int, from, to time.Time) ([]Entry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.FailWith != nil {
		return nil, &RepositoryError{Op: "list", Err: r.FailWith}
	}

	from, to = pkg.Day(from), pkg.Day(to)
	entries := make([]Entry, 0)
	for _, e := range r.entries {
		if e.Owner != owner || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (r *TestRepo) ListByOwnerAndDate(ctx context.Context, owner int, date time.Time) ([]Entry, error) {
	return r.ListByOwnerAndDateRange(ctx, owner, date, date)
}

// Count returns the number of stored entries, for all owners.
func (r *TestRepo) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.entries)
}
