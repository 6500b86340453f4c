// Package render turns normalized series records into the user-visible table
// and owns the view state around each query invocation.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/valoruf/valoruf/internal/series"
)

const (
	// LoadingMessage is shown while a query is in flight.
	LoadingMessage = "Cargando..."
	// NoDataMessage is the single placeholder row rendered when the backend
	// had nothing for the query.
	NoDataMessage = "No se encontraron datos."
	// MissingValue marks records whose value could not be read as a number.
	MissingValue = "N/A"
	// ErrorPrefix starts every user-visible failure message.
	ErrorPrefix = "Error al obtener los datos: "
)

// Presenter renders records as a two-column date/value table. Values are
// formatted in the es-CL numeral convention: dot for thousands grouping,
// comma for decimals, always two fraction digits.
type Presenter struct {
	printer *message.Printer
}

// NewPresenter creates a presenter with the fixed Chilean locale.
func NewPresenter() *Presenter {
	return &Presenter{printer: message.NewPrinter(language.MustParse("es-CL"))}
}

// FormatValue renders the value column for one record.
func (p *Presenter) FormatValue(r series.Record) string {
	if r.Missing {
		return MissingValue
	}
	return p.printer.Sprint(number.Decimal(r.Value,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// WriteTable renders records newest first, the date column verbatim. Records
// are copied before sorting, so repeated calls with the same input produce
// byte-identical output. No records renders the placeholder row instead.
func (p *Presenter) WriteTable(out io.Writer, records []series.Record) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FECHA\tVALOR")
	_, _ = fmt.Fprintln(w, "-----\t-----")

	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, NoDataMessage)
		return w.Flush()
	}

	sorted := make([]series.Record, len(records))
	copy(sorted, records)
	series.SortDescending(sorted)

	for _, r := range sorted {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", r.Date, p.FormatValue(r))
	}
	return w.Flush()
}
