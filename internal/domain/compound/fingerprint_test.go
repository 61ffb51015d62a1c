package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFingerprint(t *testing.T) {
	fp, err := ParseFingerprint("01011001")
	require.NoError(t, err)

	assert.Equal(t, 8, fp.Length)
	assert.Equal(t, 4, fp.OnBits())
	assert.False(t, fp.GetBit(0))
	assert.True(t, fp.GetBit(1))
	assert.True(t, fp.GetBit(3))
	assert.True(t, fp.GetBit(7))
	assert.Equal(t, "01011001", fp.String())
}

func TestParseFingerprint_TrimsWhitespace(t *testing.T) {
	fp, err := ParseFingerprint("  101\n")
	require.NoError(t, err)
	assert.Equal(t, "101", fp.String())
}

func TestParseFingerprint_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"non binary", "01021"},
		{"letters", "0101a101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFingerprint(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestFingerprint_Dense(t *testing.T) {
	fp := mustFP(t, "0110")
	assert.Equal(t, []float64{0, 1, 1, 0}, fp.Dense())
}

func TestFingerprint_GetBit_OutOfRange(t *testing.T) {
	fp := mustFP(t, "1111")
	assert.False(t, fp.GetBit(-1))
	assert.False(t, fp.GetBit(4))
}

func TestTanimoto(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "1100", "1100", 1},
		{"disjoint", "1100", "0011", 0},
		{"half overlap", "1100", "1010", 1.0 / 3.0},
		{"subset", "1110", "1100", 2.0 / 3.0},
		{"both empty", "0000", "0000", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tanimoto(mustFP(t, tt.a), mustFP(t, tt.b))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestTanimoto_LengthMismatch(t *testing.T) {
	_, err := Tanimoto(mustFP(t, "1100"), mustFP(t, "110011"))
	assert.Error(t, err)
}

func TestTanimoto_Symmetric(t *testing.T) {
	a := mustFP(t, "10110101")
	b := mustFP(t, "01110011")
	ab, err := Tanimoto(a, b)
	require.NoError(t, err)
	ba, err := Tanimoto(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}
