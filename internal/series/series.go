// Package series turns decoded API payloads into the flat records the rest of
// the pipeline consumes.
package series

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/valoruf/valoruf/pkg/ufapi"
)

// Record is one date/value pair of the series. Missing marks records whose
// value could not be read as a number; such records still occupy a row.
type Record struct {
	Date    string
	Value   float64
	Missing bool
}

// MarshalJSON emits the wire-shaped {date, value} object, with null standing
// in for a missing value.
func (r Record) MarshalJSON() ([]byte, error) {
	out := struct {
		Date  string   `json:"date"`
		Value *float64 `json:"value"`
	}{Date: r.Date}
	if !r.Missing {
		out.Value = &r.Value
	}
	return json.Marshal(out)
}

// Normalize flattens a payload into records. It returns nil when the payload
// holds no usable data: an empty collection, or a first element without a
// date key, which is how the backend shapes its "nothing found" responses.
// Only the first element is inspected; every element of a non-empty payload
// becomes a record, unreadable values included.
func Normalize(p *ufapi.Payload) []Record {
	if p == nil || len(p.Entries) == 0 {
		return nil
	}
	if p.Entries[0].Date == nil {
		return nil
	}

	records := make([]Record, 0, len(p.Entries))
	for _, e := range p.Entries {
		r := Record{}
		if e.Date != nil {
			r.Date = *e.Date
		}
		if v, ok := numericValue(e.Value); ok {
			r.Value = v
		} else {
			r.Missing = true
		}
		records = append(records, r)
	}
	return records
}

// SortDescending orders records newest first. ISO dates compare
// lexicographically in chronological order, so plain string comparison is
// enough. The sort is stable: records sharing a date keep their arrival
// order.
func SortDescending(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}

// numericValue reads a raw JSON value as a float64. JSON numbers and strings
// containing nothing but a number qualify; everything else, null and absent
// values included, does not.
func numericValue(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case 'n', 't', 'f', '{', '[':
		return 0, false
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, false
		}
		return f, true
	}
}
