package ufapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 15, 4, 5, 0, time.UTC)
	}
}

func TestQueryBuild(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		wantPath string
		wantErr  string
	}{
		{
			name:     "single",
			query:    Single("2024-03-10"),
			wantPath: "/2024-03-10",
		},
		{
			name:     "range",
			query:    Range("2024-03-01", "2024-03-10"),
			wantPath: "/2024-03-01/2024-03-10",
		},
		{
			name:     "inverted_range_forwarded_verbatim",
			query:    Range("2024-03-10", "2024-03-01"),
			wantPath: "/2024-03-10/2024-03-01",
		},
		{
			name:     "malformed_date_forwarded_verbatim",
			query:    Single("10-03-2024"),
			wantPath: "/10-03-2024",
		},
		{
			name:     "cached",
			query:    Cached(),
			wantPath: "/cached",
		},
		{
			name:    "single_missing_date",
			query:   Single(""),
			wantErr: "date is required",
		},
		{
			name:    "range_missing_start",
			query:   Range("", "2024-03-10"),
			wantErr: "start date is required",
		},
		{
			name:    "range_missing_end",
			query:   Range("2024-03-01", ""),
			wantErr: "end date is required",
		},
		{
			name:    "last_days_zero",
			query:   LastDays(0),
			wantErr: "day count must be positive",
		},
		{
			name:    "unknown_mode",
			query:   Query{Mode: Mode("weekly")},
			wantErr: "unknown query mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := tt.query.Build(fixedClock(2024, time.March, 10))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, target.Path())
		})
	}
}

func TestQueryBuildToday(t *testing.T) {
	target, err := Today().Build(fixedClock(2024, time.March, 10))
	require.NoError(t, err)
	assert.Equal(t, "/2024-03-10", target.Path())
}

func TestQueryBuildLastDays(t *testing.T) {
	tests := []struct {
		name     string
		clock    func() time.Time
		days     int
		wantPath string
	}{
		{
			name:     "seven_day_window",
			clock:    fixedClock(2024, time.March, 10),
			days:     7,
			wantPath: "/2024-03-04/2024-03-10",
		},
		{
			name:     "single_day_window",
			clock:    fixedClock(2024, time.March, 10),
			days:     1,
			wantPath: "/2024-03-10/2024-03-10",
		},
		{
			name:     "window_crosses_month_boundary",
			clock:    fixedClock(2024, time.March, 3),
			days:     7,
			wantPath: "/2024-02-26/2024-03-03",
		},
		{
			name:     "window_crosses_year_boundary",
			clock:    fixedClock(2024, time.January, 2),
			days:     7,
			wantPath: "/2023-12-27/2024-01-02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := LastDays(tt.days).Build(tt.clock)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, target.Path())
		})
	}
}

func TestQueryBuildNilClockDefaultsToNow(t *testing.T) {
	target, err := Today().Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "/"+time.Now().Format(isoDate), target.Path())
}
