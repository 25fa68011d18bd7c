package rank

import (
	"errors"
	"math/rand"
	"sort"
	"time"
)

// Strategy selects the ordering of a result set.
type Strategy string

const (
	StrategyNewest   Strategy = "newest"
	StrategyRandom   Strategy = "random"
	StrategySalary   Strategy = "salary"
	StrategyDistance Strategy = "distance"
	StrategyMatch    Strategy = "match"
)

// ParseStrategy falls back to newest for anything unrecognized; the engine
// clamps bad input instead of rejecting it.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyNewest, StrategyRandom, StrategySalary, StrategyDistance, StrategyMatch:
		return Strategy(s)
	}
	return StrategyNewest
}

// ErrNoScores is returned for the match strategy when the search ran in
// strict mode and no scores exist to sort by.
var ErrNoScores = errors.New("match strategy requires a scored result set")

// Record is one annotated entry of a result set. DistanceKm and Score stay
// nil when the search produced no such annotation.
type Record struct {
	ID         int64
	CreatedAt  time.Time
	MaxSalary  int
	DistanceKm *float64
	Score      *float64
}

// Ranker sorts result sets. It holds only the shuffle source; comparator
// strategies are pure.
type Ranker struct {
	rng *rand.Rand
}

func New() *Ranker {
	return &Ranker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded pins the shuffle order, for tests.
func NewSeeded(seed int64) *Ranker {
	return &Ranker{rng: rand.New(rand.NewSource(seed))}
}

// Rank orders records in place by the strategy. Comparator strategies are
// stable for equal keys and invert on ascending; random ignores ascending
// entirely. Each strategy's natural direction is descending except for
// distance, where closer-first is the default.
func (r *Ranker) Rank(records []Record, strategy Strategy, ascending bool) ([]Record, error) {
	switch strategy {
	case StrategyRandom:
		r.shuffle(records)
		return records, nil

	case StrategyNewest:
		stableBy(records, ascending, func(a, b Record) int {
			if c := compareTime(a.CreatedAt, b.CreatedAt); c != 0 {
				return -c // newest first
			}
			return -compareInt64(a.ID, b.ID)
		})
		return records, nil

	case StrategySalary:
		stableBy(records, ascending, func(a, b Record) int {
			return -compareInt64(int64(a.MaxSalary), int64(b.MaxSalary))
		})
		return records, nil

	case StrategyDistance:
		// Records with no distance sort last regardless of direction, so
		// the nil check sits outside the invertible comparator.
		sort.SliceStable(records, func(i, j int) bool {
			a, b := records[i], records[j]
			switch {
			case a.DistanceKm == nil && b.DistanceKm == nil:
				return false
			case a.DistanceKm == nil:
				return false
			case b.DistanceKm == nil:
				return true
			}
			c := compareFloat(*a.DistanceKm, *b.DistanceKm)
			if ascending {
				c = -c
			}
			return c < 0
		})
		return records, nil

	case StrategyMatch:
		for _, rec := range records {
			if rec.Score == nil {
				return nil, ErrNoScores
			}
		}
		stableBy(records, ascending, func(a, b Record) int {
			return -compareFloat(*a.Score, *b.Score)
		})
		return records, nil
	}

	return nil, errors.New("unknown strategy: " + string(strategy))
}

// shuffle is Fisher-Yates.
func (r *Ranker) shuffle(records []Record) {
	for i := len(records) - 1; i > 0; i-- {
		j := r.rng.Intn(i + 1)
		records[i], records[j] = records[j], records[i]
	}
}

func stableBy(records []Record, ascending bool, cmp func(a, b Record) int) {
	sort.SliceStable(records, func(i, j int) bool {
		c := cmp(records[i], records[j])
		if ascending {
			c = -c
		}
		return c < 0
	})
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
