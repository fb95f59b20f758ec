package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
)

var now = time.Date(2025, 3, 15, 17, 42, 0, 0, time.UTC)

func TestResolveBucketCounts(t *testing.T) {
	r := NewResolver(FixedClock{T: now}, time.UTC)
	tests := []struct {
		period models.Period
		want   int
	}{
		{models.PeriodToday, 1},
		{models.PeriodWeek, 7},
		{models.PeriodMonth, 30},
		{models.PeriodQuarter, 30},
		{models.PeriodYear, 12},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			dates, err := r.Resolve(tt.period)
			require.NoError(t, err)
			assert.Len(t, dates, tt.want)
			assert.Equal(t, tt.period.BucketCount(), len(dates))
			for i := 1; i < len(dates); i++ {
				assert.True(t, dates[i].After(dates[i-1]), "dates must be strictly ascending at %d", i)
			}
		})
	}
}

func TestResolveEndsToday(t *testing.T) {
	r := NewResolver(FixedClock{T: now}, time.UTC)
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, p := range []models.Period{models.PeriodToday, models.PeriodWeek, models.PeriodMonth} {
		dates, err := r.Resolve(p)
		require.NoError(t, err)
		assert.True(t, dates[len(dates)-1].Equal(today), "%s should end today", p)
	}

	week, _ := r.Resolve(models.PeriodWeek)
	assert.True(t, week[0].Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))
}

func TestResolveQuarterSpacing(t *testing.T) {
	r := NewResolver(FixedClock{T: now}, time.UTC)
	dates, err := r.Resolve(models.PeriodQuarter)
	require.NoError(t, err)

	assert.True(t, dates[0].Equal(time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC)))
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, 72*time.Hour, dates[i].Sub(dates[i-1]))
	}
	assert.True(t, BucketEnd(models.PeriodQuarter, dates[len(dates)-1]).After(now))
}

func TestResolveYearMonths(t *testing.T) {
	r := NewResolver(FixedClock{T: now}, time.UTC)
	dates, err := r.Resolve(models.PeriodYear)
	require.NoError(t, err)

	assert.True(t, dates[0].Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, dates[11].Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	for _, d := range dates {
		assert.Equal(t, 1, d.Day())
	}
}

func TestResolveInvalidPeriod(t *testing.T) {
	r := NewResolver(FixedClock{T: now}, time.UTC)

	_, err := r.Resolve(models.Period("fortnight"))
	assert.True(t, errors.Is(err, models.ErrInvalidPeriod))

	_, _, err = r.ResolveKeyword("")
	assert.True(t, errors.Is(err, models.ErrInvalidPeriod))

	p, dates, err := r.ResolveKeyword(" Week ")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodWeek, p)
	assert.Len(t, dates, 7)
}

func TestResolveReturnsFreshSlices(t *testing.T) {
	r := NewResolver(FixedClock{T: now}, time.UTC)
	a, _ := r.Resolve(models.PeriodWeek)
	a[0] = time.Time{}
	b, _ := r.Resolve(models.PeriodWeek)
	assert.False(t, b[0].IsZero())
}

func TestBucketEnd(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.True(t, BucketEnd(models.PeriodWeek, start).Equal(start.AddDate(0, 0, 1)))
	assert.True(t, BucketEnd(models.PeriodYear, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)).
		Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
}
