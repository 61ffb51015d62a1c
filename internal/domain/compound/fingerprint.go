// Package compound defines the core screening data model: compound records
// carrying molecular fingerprints and docking scores, and the immutable
// Library collection the pipeline stages pass between each other.
//
// Fingerprints are fixed-length bit vectors produced upstream by a
// cheminformatics toolkit (Morgan/ECFP bits in the reference datasets); this
// package only stores, parses, and compares them.
package compound

import (
	"math/bits"
	"strings"

	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// Fingerprint is a molecular fingerprint bit vector.  Bit i is stored in byte
// i/8 at bit position i%8.
type Fingerprint struct {
	Bits   []byte
	Length int
}

// NewFingerprint constructs a Fingerprint from packed bit data.
func NewFingerprint(data []byte, length int) Fingerprint {
	return Fingerprint{Bits: data, Length: length}
}

// ParseFingerprint parses the textual bit-string form used by the dataset
// files ("0101...", one character per bit).
func ParseFingerprint(s string) (Fingerprint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Fingerprint{}, errors.DataFormat("empty fingerprint")
	}
	data := make([]byte, (len(s)+7)/8)
	for i, ch := range s {
		switch ch {
		case '1':
			data[i/8] |= 1 << uint(i%8)
		case '0':
		default:
			return Fingerprint{}, errors.DataFormat("fingerprint contains non-binary character").
				WithDetail(string(ch))
		}
	}
	return Fingerprint{Bits: data, Length: len(s)}, nil
}

// GetBit returns true if the bit at the given index is set.
func (fp Fingerprint) GetBit(index int) bool {
	if index < 0 || index >= fp.Length {
		return false
	}
	return (fp.Bits[index/8] & (1 << uint(index%8))) != 0
}

// OnBits returns the popcount of the fingerprint.
func (fp Fingerprint) OnBits() int {
	n := 0
	for _, b := range fp.Bits {
		n += bits.OnesCount8(b)
	}
	return n
}

// Dense expands the fingerprint into a float64 feature vector for model
// input, one element per bit.
func (fp Fingerprint) Dense() []float64 {
	out := make([]float64, fp.Length)
	for i := 0; i < fp.Length; i++ {
		if fp.GetBit(i) {
			out[i] = 1
		}
	}
	return out
}

// String renders the fingerprint back into its textual bit-string form.
func (fp Fingerprint) String() string {
	var sb strings.Builder
	sb.Grow(fp.Length)
	for i := 0; i < fp.Length; i++ {
		if fp.GetBit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Tanimoto computes the Tanimoto coefficient |a∧b| / |a∨b| between two
// fingerprints of equal length.  Two all-zero fingerprints have similarity 0.
func Tanimoto(a, b Fingerprint) (float64, error) {
	if a.Length != b.Length {
		return 0, errors.New(errors.CodeModelFeatureMismatch, "fingerprint lengths differ")
	}
	var and, or int
	for i := range a.Bits {
		and += bits.OnesCount8(a.Bits[i] & b.Bits[i])
		or += bits.OnesCount8(a.Bits[i] | b.Bits[i])
	}
	if or == 0 {
		return 0, nil
	}
	return float64(and) / float64(or), nil
}
