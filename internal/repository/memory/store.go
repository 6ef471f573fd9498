// Package memory is an in-process implementation of the repository
// contracts. It backs STORAGE=memory and the service and handler tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
)

// Store holds all three collections behind one lock so that cross-collection
// operations (job delete cascading to applications, joins for populate)
// observe a consistent snapshot.
type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]models.User
	jobs         map[uuid.UUID]models.Job
	applications map[uuid.UUID]models.Application
	now          func() time.Time
}

func New() *Store {
	return &Store{
		users:        make(map[uuid.UUID]models.User),
		jobs:         make(map[uuid.UUID]models.Job),
		applications: make(map[uuid.UUID]models.Application),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source. Tests use it to place records
// in specific months or days.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Users() *UserStore               { return &UserStore{s: s} }
func (s *Store) Jobs() *JobStore                 { return &JobStore{s: s} }
func (s *Store) Applications() *ApplicationStore { return &ApplicationStore{s: s} }

var (
	_ repository.UserStore        = (*UserStore)(nil)
	_ repository.JobStore         = (*JobStore)(nil)
	_ repository.ApplicationStore = (*ApplicationStore)(nil)
)

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func within(t time.Time, r repository.DateRange) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// comparator returns <0, 0 or >0.
type comparator[T any] func(a, b *T) int

func compareTime(a, b time.Time) int { return a.Compare(b) }

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// sortItems orders items by the whitelisted field, defaulting to createdAt
// descending when the field is empty or unknown.
func sortItems[T any](items []T, s repository.Sort, fields map[string]comparator[T]) {
	cmp, ok := fields[s.Field]
	if !ok {
		cmp = fields["createdAt"]
	}
	desc := s.Desc || s.Field == ""
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(&items[i], &items[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func paginate[T any](items []T, p repository.Page) []T {
	if p.Limit <= 0 {
		return items
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// groupCounts turns a key->count map into rows ordered by count desc, key asc.
func groupCounts(counts map[string]int64, limit int) []repository.GroupCount {
	rows := make([]repository.GroupCount, 0, len(counts))
	for k, v := range counts {
		rows = append(rows, repository.GroupCount{Key: k, Count: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key < rows[j].Key
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func timeBuckets(counts map[string]int64) []repository.TimeBucket {
	rows := make([]repository.TimeBucket, 0, len(counts))
	for k, v := range counts {
		rows = append(rows, repository.TimeBucket{Key: k, Count: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)
