package models

import (
	"fmt"
	"strings"
)

// Period is the dashboard reporting window.
type Period string

const (
	PeriodToday   Period = "today"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Bucket is the width of one slot in a date sequence.
type Bucket string

const (
	BucketDay      Bucket = "day"
	BucketThreeDay Bucket = "three_day"
	BucketMonth    Bucket = "month"
)

// Periods lists every supported period in display order.
func Periods() []Period {
	return []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear}
}

// ParsePeriod converts a keyword into a Period.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

func (p Period) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	default:
		return false
	}
}

// Bucket returns the bucket width for the period.
func (p Period) Bucket() Bucket {
	switch p {
	case PeriodQuarter:
		return BucketThreeDay
	case PeriodYear:
		return BucketMonth
	default:
		return BucketDay
	}
}

// BucketCount returns the number of buckets in the period's date sequence,
// or 0 for an invalid period.
func (p Period) BucketCount() int {
	switch p {
	case PeriodToday:
		return 1
	case PeriodWeek:
		return 7
	case PeriodMonth, PeriodQuarter:
		return 30
	case PeriodYear:
		return 12
	default:
		return 0
	}
}

func (p Period) String() string { return string(p) }
