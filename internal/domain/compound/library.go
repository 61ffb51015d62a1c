package compound

import (
	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Library is an ordered, immutable collection of compound records with a
// constant fingerprint length.  Stage operations (Filter, Sample, Split,
// WithPredicted) never mutate the receiver; each returns a new Library
// sharing the underlying record values.
type Library struct {
	records []Compound
	fpLen   int
}

// NewLibrary constructs a Library, enforcing the constant fingerprint length
// invariant.  An empty record set yields a valid empty Library.
func NewLibrary(records []Compound) (*Library, error) {
	lib := &Library{records: records}
	if len(records) == 0 {
		return lib, nil
	}
	lib.fpLen = records[0].Fingerprint.Length
	for i, r := range records {
		if r.Fingerprint.Length != lib.fpLen {
			return nil, errors.DataFormat("inconsistent fingerprint length").
				WithDetail(r.ID).
				WithCause(errors.Newf(errors.CodeDataFormat, "record %d has %d bits, expected %d",
					i, r.Fingerprint.Length, lib.fpLen))
		}
	}
	return lib, nil
}

// subLibrary wraps an already-validated record subset.
func (l *Library) subLibrary(records []Compound) *Library {
	return &Library{records: records, fpLen: l.fpLen}
}

// Len returns the number of records.
func (l *Library) Len() int { return len(l.records) }

// FingerprintLength returns the fixed per-record fingerprint length.
func (l *Library) FingerprintLength() int { return l.fpLen }

// At returns the record at index i.
func (l *Library) At(i int) Compound { return l.records[i] }

// Records returns a copy of the record slice.  The copy keeps callers from
// violating the immutability of the Library through slice aliasing.
func (l *Library) Records() []Compound {
	out := make([]Compound, len(l.records))
	copy(out, l.records)
	return out
}

// ScorePredicate evaluates a docking score.
type ScorePredicate func(score float64) bool

// PhysicallyValid is the default filter predicate: positive docking energies
// mark poses the engine could not fit into the pocket, which would bias the
// surrogate if kept as examples of binding.
func PhysicallyValid(score float64) bool { return score <= 0 }

// Filter returns a new Library containing only the scored records whose
// docking score satisfies pred, preserving original relative order.  Records
// without a docking score are dropped.  Filter is pure and idempotent.
func (l *Library) Filter(pred ScorePredicate) *Library {
	out := make([]Compound, 0, len(l.records))
	for _, r := range l.records {
		if r.HasScore() && pred(*r.DockingScore) {
			out = append(out, r)
		}
	}
	return l.subLibrary(out)
}

// DockingScores returns the docking scores of all scored records, in library
// order.
func (l *Library) DockingScores() []float64 {
	out := make([]float64, 0, len(l.records))
	for _, r := range l.records {
		if r.HasScore() {
			out = append(out, *r.DockingScore)
		}
	}
	return out
}

// PredictedScores returns the predicted scores of all records carrying a
// prediction, in library order.
func (l *Library) PredictedScores() []float64 {
	out := make([]float64, 0, len(l.records))
	for _, r := range l.records {
		if r.HasPrediction() {
			out = append(out, *r.PredictedScore)
		}
	}
	return out
}

// Features expands every fingerprint into a dense feature matrix, one row per
// record in library order.
func (l *Library) Features() [][]float64 {
	out := make([][]float64, len(l.records))
	for i, r := range l.records {
		out[i] = r.Fingerprint.Dense()
	}
	return out
}

// WithPredicted returns a new Library whose records carry the supplied
// predicted scores, one per record in library order.  The receiver is not
// modified.
func (l *Library) WithPredicted(preds []float64) (*Library, error) {
	if len(preds) != len(l.records) {
		return nil, errors.Newf(errors.CodeModelFeatureMismatch,
			"got %d predictions for %d records", len(preds), len(l.records))
	}
	out := make([]Compound, len(l.records))
	for i, r := range l.records {
		p := preds[i]
		r.PredictedScore = &p
		out[i] = r
	}
	return l.subLibrary(out), nil
}
