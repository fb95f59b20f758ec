package period

import (
	"fmt"
	"time"

	"AdPulse/internal/domain/models"
	"AdPulse/pkg/util"
)

// Clock supplies the current time. Tests inject a fixed one.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// quarterStep and quarterLookback shape the 3-day quarter buckets:
// offsets 89, 86, ..., 2 days before today.
const (
	quarterStep     = 3
	quarterLookback = 89
)

// Resolver maps a Period to its ascending bucket start dates.
type Resolver struct {
	clock Clock
	loc   *time.Location
}

func NewResolver(clock Clock, loc *time.Location) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{clock: clock, loc: loc}
}

// Location returns the timezone buckets are aligned in.
func (r *Resolver) Location() *time.Location { return r.loc }

// ResolveKeyword parses s and resolves it.
func (r *Resolver) ResolveKeyword(s string) (models.Period, []time.Time, error) {
	p, err := models.ParsePeriod(s)
	if err != nil {
		return "", nil, err
	}
	dates, err := r.Resolve(p)
	return p, dates, err
}

// Resolve returns a fresh date sequence for p.
func (r *Resolver) Resolve(p models.Period) ([]time.Time, error) {
	today := util.StartOfDay(r.clock.Now(), r.loc)

	switch p {
	case models.PeriodToday:
		return []time.Time{today}, nil
	case models.PeriodWeek, models.PeriodMonth:
		n := p.BucketCount()
		out := make([]time.Time, 0, n)
		for i := n - 1; i >= 0; i-- {
			out = append(out, today.AddDate(0, 0, -i))
		}
		return out, nil
	case models.PeriodQuarter:
		out := make([]time.Time, 0, p.BucketCount())
		for i := quarterLookback; i >= 0; i -= quarterStep {
			out = append(out, today.AddDate(0, 0, -i))
		}
		return out, nil
	case models.PeriodYear:
		month := util.StartOfMonth(today, r.loc)
		out := make([]time.Time, 0, 12)
		for i := 11; i >= 0; i-- {
			out = append(out, month.AddDate(0, -i, 0))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidPeriod, string(p))
	}
}

// BucketEnd returns the exclusive end of the bucket starting at start.
func BucketEnd(p models.Period, start time.Time) time.Time {
	switch p.Bucket() {
	case models.BucketThreeDay:
		return start.AddDate(0, 0, quarterStep)
	case models.BucketMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}
