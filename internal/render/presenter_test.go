package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valoruf/valoruf/internal/series"
)

func TestFormatValue(t *testing.T) {
	p := NewPresenter()

	tests := []struct {
		name   string
		record series.Record
		want   string
	}{
		{name: "thousands_and_decimals", record: series.Record{Value: 1000.5}, want: "1.000,50"},
		{name: "typical_uf_value", record: series.Record{Value: 36892.15}, want: "36.892,15"},
		{name: "small_value_padded", record: series.Record{Value: 5}, want: "5,00"},
		{name: "no_grouping_below_thousand", record: series.Record{Value: 999.9}, want: "999,90"},
		{name: "millions", record: series.Record{Value: 1234567.891}, want: "1.234.567,89"},
		{name: "zero", record: series.Record{Value: 0}, want: "0,00"},
		{name: "missing_marker", record: series.Record{Missing: true}, want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.FormatValue(tt.record))
		})
	}
}

func TestWriteTableSortsDescending(t *testing.T) {
	p := NewPresenter()
	records := []series.Record{
		{Date: "2024-03-08", Value: 36880.00},
		{Date: "2024-03-10", Value: 36892.15},
		{Date: "2024-03-09", Value: 36889.40},
	}

	var buf bytes.Buffer
	require.NoError(t, p.WriteTable(&buf, records))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "FECHA")
	assert.Contains(t, lines[0], "VALOR")
	assert.Contains(t, lines[2], "2024-03-10")
	assert.Contains(t, lines[2], "36.892,15")
	assert.Contains(t, lines[3], "2024-03-09")
	assert.Contains(t, lines[4], "2024-03-08")
}

func TestWriteTableDoesNotMutateInput(t *testing.T) {
	p := NewPresenter()
	records := []series.Record{
		{Date: "2024-03-08", Value: 1},
		{Date: "2024-03-10", Value: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, p.WriteTable(&buf, records))

	assert.Equal(t, "2024-03-08", records[0].Date)
	assert.Equal(t, "2024-03-10", records[1].Date)
}

func TestWriteTableStableForEqualDates(t *testing.T) {
	p := NewPresenter()
	records := []series.Record{
		{Date: "2024-03-10", Value: 1},
		{Date: "2024-03-10", Value: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, p.WriteTable(&buf, records))

	first := strings.Index(buf.String(), "1,00")
	second := strings.Index(buf.String(), "2,00")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "records sharing a date must keep their input order")
}

func TestWriteTableRendersDateVerbatim(t *testing.T) {
	p := NewPresenter()
	records := []series.Record{{Date: "2024-01-01", Value: 1000.5}}

	var buf bytes.Buffer
	require.NoError(t, p.WriteTable(&buf, records))

	assert.Contains(t, buf.String(), "2024-01-01")
	assert.Contains(t, buf.String(), "1.000,50")
	assert.NotContains(t, buf.String(), "01-01-2024")
}

func TestWriteTableMissingValues(t *testing.T) {
	p := NewPresenter()
	records := []series.Record{
		{Date: "2024-03-10", Value: 36892.15},
		{Date: "2024-03-09", Missing: true},
	}

	var buf bytes.Buffer
	require.NoError(t, p.WriteTable(&buf, records))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "one row per record, missing values included")
	assert.Contains(t, lines[3], "N/A")
}

func TestWriteTableNoData(t *testing.T) {
	p := NewPresenter()

	var buf bytes.Buffer
	require.NoError(t, p.WriteTable(&buf, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3, "header, underline, one placeholder row")
	assert.Equal(t, NoDataMessage, strings.TrimSpace(lines[2]))
}

func TestWriteTableIdempotent(t *testing.T) {
	p := NewPresenter()
	records := []series.Record{
		{Date: "2024-03-10", Value: 36892.15},
		{Date: "2024-03-09", Missing: true},
		{Date: "2024-03-08", Value: 36880.00},
	}

	var first, second bytes.Buffer
	require.NoError(t, p.WriteTable(&first, records))
	require.NoError(t, p.WriteTable(&second, records))

	assert.Equal(t, first.Bytes(), second.Bytes())
}
