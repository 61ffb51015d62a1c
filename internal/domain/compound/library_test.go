package compound

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLibrary builds a library with the given docking scores and trivially
// distinct fingerprints.
func testLibrary(t *testing.T, scores []float64) *Library {
	t.Helper()
	records := make([]Compound, len(scores))
	for i, s := range scores {
		fp, err := ParseFingerprint(fmt.Sprintf("%08b", i+1))
		require.NoError(t, err)
		records[i] = Compound{
			ID:           fmt.Sprintf("CPD-%03d", i),
			Fingerprint:  fp,
			DockingScore: ScorePtr(s),
		}
	}
	lib, err := NewLibrary(records)
	require.NoError(t, err)
	return lib
}

func TestNewLibrary_InconsistentFingerprintLength(t *testing.T) {
	fp8, _ := ParseFingerprint("01010101")
	fp4, _ := ParseFingerprint("0101")
	_, err := NewLibrary([]Compound{
		{ID: "a", Fingerprint: fp8},
		{ID: "b", Fingerprint: fp4},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent fingerprint length")
}

func TestNewLibrary_Empty(t *testing.T) {
	lib, err := NewLibrary(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())
}

func TestFilter_PhysicallyValid(t *testing.T) {
	// Scenario from the screening protocol: ten records, one with a
	// positive (repulsive) energy that must be dropped.
	scores := []float64{-9, -8, -7, -6, -5, -4, -3, -2, -1, 1}
	lib := testLibrary(t, scores)

	filtered := lib.Filter(PhysicallyValid)
	assert.Equal(t, 9, filtered.Len())
	for _, r := range filtered.Records() {
		assert.LessOrEqual(t, *r.DockingScore, 0.0)
	}

	// Original order preserved.
	assert.Equal(t, "CPD-000", filtered.At(0).ID)
	assert.Equal(t, "CPD-008", filtered.At(8).ID)

	// Source library untouched.
	assert.Equal(t, 10, lib.Len())
}

func TestFilter_Idempotent(t *testing.T) {
	lib := testLibrary(t, []float64{-3, 2, -1, 0, 5})
	once := lib.Filter(PhysicallyValid)
	twice := once.Filter(PhysicallyValid)

	require.Equal(t, once.Len(), twice.Len())
	for i := 0; i < once.Len(); i++ {
		assert.Equal(t, once.At(i).ID, twice.At(i).ID)
	}
}

func TestFilter_DropsUnscored(t *testing.T) {
	fp, _ := ParseFingerprint("1111")
	lib, err := NewLibrary([]Compound{
		{ID: "scored", Fingerprint: fp, DockingScore: ScorePtr(-2)},
		{ID: "unscored", Fingerprint: fp},
	})
	require.NoError(t, err)

	filtered := lib.Filter(PhysicallyValid)
	require.Equal(t, 1, filtered.Len())
	assert.Equal(t, "scored", filtered.At(0).ID)
}

func TestWithPredicted(t *testing.T) {
	lib := testLibrary(t, []float64{-1, -2, -3})
	preds := []float64{-5.5, -4.4, -3.3}

	scored, err := lib.WithPredicted(preds)
	require.NoError(t, err)

	for i := 0; i < scored.Len(); i++ {
		require.True(t, scored.At(i).HasPrediction())
		assert.Equal(t, preds[i], *scored.At(i).PredictedScore)
	}

	// Source snapshot untouched.
	for _, r := range lib.Records() {
		assert.False(t, r.HasPrediction())
	}

	_, err = lib.WithPredicted([]float64{1})
	assert.Error(t, err)
}

func TestFeatures(t *testing.T) {
	lib := testLibrary(t, []float64{-1, -2})
	feats := lib.Features()
	require.Len(t, feats, 2)
	assert.Len(t, feats[0], lib.FingerprintLength())
}

func TestRecords_ReturnsCopy(t *testing.T) {
	lib := testLibrary(t, []float64{-1, -2})
	recs := lib.Records()
	recs[0].ID = "mutated"
	assert.Equal(t, "CPD-000", lib.At(0).ID)
}
