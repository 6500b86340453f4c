package store

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// csvColumns defines the ordered cache file columns. Timestamps are stored
// as fractional epoch seconds.
var csvColumns = []string{"date", "value", "timestamp"}

// CSVStore implements Store as an append-only CSV file. The full file is
// read into memory on open; the file itself is never rewritten, a date
// fetched again appends a newer row and the last row wins on load.
type CSVStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
}

// NewCSV opens the cache file at path. A missing file is an empty store;
// the file is created on first write.
func NewCSV(path string) (*CSVStore, error) {
	s := &CSVStore{path: path, entries: make(map[string]Entry)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) load() error {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return eris.Wrap(err, "csv: open cache")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return eris.Wrap(err, "csv: read cache")
	}

	for _, rec := range records {
		// The header row and any malformed rows fail the float parses
		// and are skipped.
		if len(rec) < 3 {
			continue
		}
		value, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		ts, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}
		s.entries[rec[0]] = Entry{Date: rec[0], Value: value, FetchedAt: epochToTime(ts)}
	}
	return nil
}

func (s *CSVStore) Get(_ context.Context, date string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[date]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *CSVStore) Put(ctx context.Context, e Entry) error {
	return s.PutBatch(ctx, []Entry{e})
}

func (s *CSVStore) PutBatch(_ context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.FetchedAt = fetchedAtOrNow(e)
		normalized = append(normalized, e)
	}
	if err := s.appendRows(normalized); err != nil {
		return err
	}
	for _, e := range normalized {
		s.entries[e.Date] = e
	}
	return nil
}

// appendRows writes entries to the end of the cache file. Callers hold mu.
func (s *CSVStore) appendRows(entries []Entry) error {
	info, statErr := os.Stat(s.path)
	writeHeader := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrap(err, "csv: open cache for append")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvColumns); err != nil {
			return eris.Wrap(err, "csv: write header")
		}
	}
	for _, e := range entries {
		row := []string{
			e.Date,
			strconv.FormatFloat(e.Value, 'f', -1, 64),
			strconv.FormatFloat(timeToEpoch(e.FetchedAt), 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "csv: write row %s", e.Date)
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "csv: flush cache")
}

func (s *CSVStore) All(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

func (s *CSVStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

// Migrate creates the cache file with its header when missing.
func (s *CSVStore) Migrate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.appendRows(nil)
}

func (s *CSVStore) Close() error {
	return nil
}

func timeToEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func epochToTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC()
}
