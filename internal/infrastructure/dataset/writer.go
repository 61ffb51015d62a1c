package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gmseabra/MolDB-Screening/internal/domain/compound"
	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Writer emits result tables.  A nil Catalog omits the vendor column.
type Writer struct {
	catalog *Catalog
}

// NewWriter returns a Writer; catalog may be nil.
func NewWriter(catalog *Catalog) *Writer {
	return &Writer{catalog: catalog}
}

// WriteSelection writes the ranked selection to path as CSV: rank, compound
// ID, predicted score, true docking score when known, and vendor listings
// when a catalog was supplied.
func (w *Writer) WriteSelection(path string, sel compound.Selection) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeDataWrite, "creating selection file")
	}
	defer f.Close()

	if err := w.writeSelection(f, sel); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return errors.Wrap(err, errors.CodeDataWrite, "flushing selection file")
	}
	return nil
}

func (w *Writer) writeSelection(out io.Writer, sel compound.Selection) error {
	cw := csv.NewWriter(out)

	header := []string{"rank", "id", "predicted_score", "docking_score"}
	if w.catalog != nil {
		header = append(header, "vendors")
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, errors.CodeDataWrite, "writing selection header")
	}

	for i, rec := range sel {
		row := []string{
			strconv.Itoa(i + 1),
			rec.ID,
			formatScore(rec.PredictedScore),
			formatScore(rec.DockingScore),
		}
		if w.catalog != nil {
			row = append(row, strings.Join(w.catalog.Vendors(rec.ID), ";"))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.CodeDataWrite, "writing selection row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeDataWrite, "flushing selection rows")
	}
	return nil
}

// WriteScores writes every record of lib to path with its predicted score,
// producing the full annotated database scan.
func (w *Writer) WriteScores(path string, lib *compound.Library) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeDataWrite, "creating scores file")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"id", "predicted_score", "docking_score"}); err != nil {
		return errors.Wrap(err, errors.CodeDataWrite, "writing scores header")
	}
	for _, rec := range lib.Records() {
		row := []string{rec.ID, formatScore(rec.PredictedScore), formatScore(rec.DockingScore)}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.CodeDataWrite, "writing scores row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeDataWrite, "flushing scores rows")
	}
	return nil
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
