// Package rates resolves UF values cache-first, falling back to the CMF
// upstream and persisting whatever it fetched.
package rates

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valoruf/valoruf/internal/cmf"
	"github.com/valoruf/valoruf/internal/store"
)

const isoDate = "2006-01-02"

const (
	defaultTTL           = time.Hour
	defaultMaxConcurrent = 4
)

// Result is one resolved UF value.
type Result struct {
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
	Cached bool    `json:"cached"`
}

// Options configures a Service.
type Options struct {
	Store         store.Store
	CMF           cmf.Client
	TTL           time.Duration // cache freshness window
	MaxConcurrent int           // concurrent upstream fetches for ranges
	Now           func() time.Time
}

// Service answers UF lookups from the store when the entry is still fresh,
// otherwise from the CMF API.
type Service struct {
	store         store.Store
	cmf           cmf.Client
	ttl           time.Duration
	maxConcurrent int
	now           func() time.Time

	hits           atomic.Int64
	misses         atomic.Int64
	upstreamErrors atomic.Int64
}

// NewService creates a Service with defaults applied.
func NewService(opts Options) *Service {
	s := &Service{
		store:         opts.Store,
		cmf:           opts.CMF,
		ttl:           opts.TTL,
		maxConcurrent: opts.MaxConcurrent,
		now:           opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = defaultTTL
	}
	if s.maxConcurrent <= 0 {
		s.maxConcurrent = defaultMaxConcurrent
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Value resolves a single ISO date. A stored entry younger than the TTL is
// served as-is; anything else goes upstream and is written back on success.
// A stale entry is never served as a fallback when the refetch fails.
func (s *Service) Value(ctx context.Context, date string) (Result, error) {
	day, err := time.Parse(isoDate, date)
	if err != nil {
		return Result{}, eris.Wrapf(err, "rates: parse date %s", date)
	}

	entry, err := s.store.Get(ctx, date)
	if err != nil {
		return Result{}, err
	}
	if entry != nil && s.now().Sub(entry.FetchedAt) < s.ttl {
		s.hits.Add(1)
		return Result{Date: date, Value: entry.Value, Cached: true}, nil
	}
	s.misses.Add(1)

	value, err := s.cmf.Value(ctx, day)
	if err != nil {
		s.upstreamErrors.Add(1)
		return Result{}, err
	}

	if err := s.store.Put(ctx, store.Entry{Date: date, Value: value, FetchedAt: s.now().UTC()}); err != nil {
		return Result{}, err
	}
	return Result{Date: date, Value: value, Cached: false}, nil
}

// Range resolves every day in [start, end] inclusive, in day order. Days
// that fail to resolve are skipped rather than failing the whole range.
func (s *Service) Range(ctx context.Context, start, end string) ([]Result, error) {
	days, err := spanDays(start, end)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, day := range days {
		g.Go(func() error {
			r, err := s.Value(gctx, day)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				zap.L().Warn("rates: day skipped", zap.String("date", day), zap.Error(err))
				return nil // don't fail the group
			}
			results[i] = &r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "rates: range fetch")
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// Cached lists every stored value in ascending date order without touching
// the upstream.
func (s *Service) Cached(ctx context.Context) ([]Result, error) {
	entries, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		results = append(results, Result{Date: e.Date, Value: e.Value, Cached: true})
	}
	return results, nil
}

// Backfill fetches every day in [start, end] straight from the upstream,
// bypassing cache reads, and writes the survivors in one batch. It returns
// the number of days written.
func (s *Service) Backfill(ctx context.Context, start, end string) (int, error) {
	days, err := spanDays(start, end)
	if err != nil {
		return 0, err
	}

	fetched := make([]*store.Entry, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, day := range days {
		g.Go(func() error {
			d, _ := time.Parse(isoDate, day)
			value, err := s.cmf.Value(gctx, d)
			if err != nil {
				s.upstreamErrors.Add(1)
				if gctx.Err() != nil {
					return gctx.Err()
				}
				zap.L().Warn("rates: backfill day skipped", zap.String("date", day), zap.Error(err))
				return nil
			}
			fetched[i] = &store.Entry{Date: day, Value: value, FetchedAt: s.now().UTC()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, eris.Wrap(err, "rates: backfill fetch")
	}

	batch := make([]store.Entry, 0, len(fetched))
	for _, e := range fetched {
		if e != nil {
			batch = append(batch, *e)
		}
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if err := s.store.PutBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// Stats contains service counters since process start.
type Stats struct {
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	UpstreamErrors int64   `json:"upstream_errors"`
	HitRate        float64 `json:"hit_rate"`
}

// Stats returns a snapshot of the hit/miss counters.
func (s *Service) Stats() Stats {
	hits := s.hits.Load()
	misses := s.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Hits:           hits,
		Misses:         misses,
		UpstreamErrors: s.upstreamErrors.Load(),
		HitRate:        hitRate,
	}
}

// CacheSize reports how many entries the store currently holds.
func (s *Service) CacheSize(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// spanDays expands an inclusive ISO date range into its individual days.
func spanDays(start, end string) ([]string, error) {
	from, err := time.Parse(isoDate, start)
	if err != nil {
		return nil, eris.Wrapf(err, "rates: parse start %s", start)
	}
	to, err := time.Parse(isoDate, end)
	if err != nil {
		return nil, eris.Wrapf(err, "rates: parse end %s", end)
	}
	if from.After(to) {
		return nil, eris.New("rates: start date after end date")
	}

	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(isoDate))
	}
	return days, nil
}
