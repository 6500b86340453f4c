// Package ufapi provides the query builder and HTTP client for the UF
// (Unidad de Fomento) series API.
package ufapi

import (
	"time"

	"github.com/rotisserie/eris"
)

// Mode selects how a query maps onto the series API.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeRange    Mode = "range"
	ModeCached   Mode = "cached"
	ModeToday    Mode = "today"
	ModeLastDays Mode = "last_days"
)

// Query is a parametrized request against the series API. Mode decides which
// fields are consulted; the rest are ignored.
type Query struct {
	Mode  Mode
	Date  string
	Start string
	End   string
	Days  int
}

// Single queries one explicit date.
func Single(date string) Query { return Query{Mode: ModeSingle, Date: date} }

// Range queries an explicit date pair. The pair travels to the backend as
// given: ordering and format validation are the backend's job.
func Range(start, end string) Query { return Query{Mode: ModeRange, Start: start, End: end} }

// Cached queries the backend's full cache dump.
func Cached() Query { return Query{Mode: ModeCached} }

// Today queries the current local date.
func Today() Query { return Query{Mode: ModeToday} }

// LastDays queries the trailing window of n calendar days ending today.
func LastDays(n int) Query { return Query{Mode: ModeLastDays, Days: n} }

// Target is a resolved resource path relative to the API mount.
type Target struct {
	path string
}

// Path returns the resource path, always beginning with "/".
func (t Target) Path() string { return t.path }

const isoDate = "2006-01-02"

// Build resolves the query into the single resource path it addresses. now
// supplies the clock for ModeToday and ModeLastDays; nil means time.Now.
// Build refuses queries whose required fields are empty and performs no other
// validation.
func (q Query) Build(now func() time.Time) (Target, error) {
	if now == nil {
		now = time.Now
	}
	switch q.Mode {
	case ModeSingle:
		if q.Date == "" {
			return Target{}, eris.New("ufapi: date is required")
		}
		return Target{path: "/" + q.Date}, nil
	case ModeRange:
		if q.Start == "" {
			return Target{}, eris.New("ufapi: start date is required")
		}
		if q.End == "" {
			return Target{}, eris.New("ufapi: end date is required")
		}
		return Target{path: "/" + q.Start + "/" + q.End}, nil
	case ModeCached:
		return Target{path: "/cached"}, nil
	case ModeToday:
		return Single(now().Format(isoDate)).Build(now)
	case ModeLastDays:
		if q.Days <= 0 {
			return Target{}, eris.New("ufapi: day count must be positive")
		}
		today := now()
		start := today.AddDate(0, 0, -(q.Days - 1))
		return Range(start.Format(isoDate), today.Format(isoDate)).Build(now)
	default:
		return Target{}, eris.Errorf("ufapi: unknown query mode %q", q.Mode)
	}
}
