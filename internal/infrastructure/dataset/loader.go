// Package dataset reads and writes the tabular compound files the pipeline
// exchanges with the outside world: the scored CSV database used for
// training and scanning, vendor catalog spreadsheets, and the annotated
// output tables.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gmseabra/MolDB-Screening/internal/config"
	"github.com/gmseabra/MolDB-Screening/internal/domain/compound"
	"github.com/gmseabra/MolDB-Screening/internal/infrastructure/monitoring/logging"
	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Loader streams compound records out of a CSV database file.
type Loader struct {
	cfg config.DatasetConfig
	log logging.Logger
}

// NewLoader returns a Loader for the configured dataset columns.
func NewLoader(cfg config.DatasetConfig, log logging.Logger) *Loader {
	return &Loader{cfg: cfg, log: log.Named("dataset")}
}

// Load reads the whole CSV at cfg.Path into a Library.  The header must
// contain the configured ID and fingerprint columns; the score column is
// optional per row (blank cells yield unscored records) but its header must
// be present when any scoring or training stage will run on the result.
// Unrecognized columns are preserved in each record's Meta.
func (l *Loader) Load() (*compound.Library, error) {
	f, err := os.Open(l.cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDataRead, "opening dataset")
	}
	defer f.Close()

	lib, err := l.read(f)
	if err != nil {
		return nil, err
	}
	l.log.Info("dataset loaded",
		logging.String("path", l.cfg.Path),
		logging.Int("records", lib.Len()),
		logging.Int("fingerprint_bits", lib.FingerprintLength()),
	)
	return lib, nil
}

func (l *Loader) read(r io.Reader) (*compound.Library, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDataFormat, "reading dataset header")
	}

	idCol := columnIndex(header, l.cfg.IDColumn)
	fpCol := columnIndex(header, l.cfg.FingerprintColumn)
	scoreCol := columnIndex(header, l.cfg.ScoreColumn)
	if idCol < 0 {
		return nil, errors.DataFormat("dataset is missing the ID column").WithDetail(l.cfg.IDColumn)
	}
	if fpCol < 0 {
		return nil, errors.DataFormat("dataset is missing the fingerprint column").WithDetail(l.cfg.FingerprintColumn)
	}

	metaCols := make(map[int]string)
	for i, name := range header {
		if i != idCol && i != fpCol && i != scoreCol {
			metaCols[i] = strings.TrimSpace(name)
		}
	}

	var records []compound.Compound
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeDataFormat, "dataset line %d", line)
		}

		rec, err := parseRow(row, line, idCol, fpCol, scoreCol, metaCols)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, errors.DataFormat("dataset contains no records")
	}
	return compound.NewLibrary(records)
}

func parseRow(row []string, line, idCol, fpCol, scoreCol int, metaCols map[int]string) (compound.Compound, error) {
	id := strings.TrimSpace(row[idCol])
	if id == "" {
		return compound.Compound{}, errors.Newf(errors.CodeDataFormat, "dataset line %d has an empty ID", line)
	}

	fp, err := compound.ParseFingerprint(row[fpCol])
	if err != nil {
		return compound.Compound{}, errors.Wrapf(err, errors.CodeDataFormat,
			"dataset line %d fingerprint", line)
	}

	rec := compound.Compound{ID: id, Fingerprint: fp}

	if scoreCol >= 0 {
		cell := strings.TrimSpace(row[scoreCol])
		if cell != "" {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return compound.Compound{}, errors.Wrapf(err, errors.CodeDataFormat,
					"dataset line %d score", line)
			}
			rec.DockingScore = compound.ScorePtr(v)
		}
	}

	for i, name := range metaCols {
		if i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				if rec.Meta == nil {
					rec.Meta = make(map[string]string, len(metaCols))
				}
				rec.Meta[name] = v
			}
		}
	}
	return rec, nil
}

// columnIndex finds a header column by case-insensitive name; -1 when
// absent or the name is empty.
func columnIndex(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
