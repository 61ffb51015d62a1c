package vina

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singlePose = `MODEL 1
REMARK VINA RESULT:    -9.100      0.000      0.000
REMARK INTER + INTRA:         -15.123
REMARK INTER:                 -13.000
REMARK INTRA:                  -2.123
REMARK UNBOUND:                -2.123
REMARK Name = ZINC000001
ROOT
ATOM      1  C   LIG A   1      23.266  56.891  86.524  0.00  0.00    +0.000 C
ENDROOT
ENDMDL
`

const twoPoses = singlePose + `MODEL 2
REMARK VINA RESULT:    -8.700      1.234      2.345
REMARK INTER + INTRA:         -14.500
REMARK INTER:                 -12.500
REMARK INTRA:                  -2.000
REMARK UNBOUND:                -2.000
ATOM      1  C   LIG A   1      23.000  56.000  86.000  0.00  0.00    +0.000 C
ENDMDL
`

func TestParsePoses_SinglePose(t *testing.T) {
	poses, err := ParsePoses(strings.NewReader(singlePose))
	require.NoError(t, err)
	require.Len(t, poses, 1)

	p := poses[0]
	assert.Equal(t, -9.1, p.Total)
	assert.Equal(t, -13.0, p.Inter)
	assert.Equal(t, -2.123, p.Intra)
	assert.Equal(t, -2.123, p.Unbound)
	// Total = Inter + Intra + Torsional - Unbound.
	assert.InDelta(t, 3.9, p.Torsional, 1e-9)
	assert.InDelta(t, p.Total, p.Inter+p.Intra+p.Torsional-p.Unbound, 1e-9)
}

func TestParsePoses_MultiplePosesBestFirst(t *testing.T) {
	poses, err := ParsePoses(strings.NewReader(twoPoses))
	require.NoError(t, err)
	require.Len(t, poses, 2)

	assert.Equal(t, -9.1, poses[0].Total)
	assert.Equal(t, -8.7, poses[1].Total)
	assert.LessOrEqual(t, poses[0].Total, poses[1].Total)
}

func TestParsePoses_MissingENDMDL(t *testing.T) {
	// A truncated file ending mid-model still yields the complete pose.
	truncated := strings.TrimSuffix(singlePose, "ENDMDL\n")
	poses, err := ParsePoses(strings.NewReader(truncated))
	require.NoError(t, err)
	assert.Len(t, poses, 1)
}

func TestParsePoses_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no models", "REMARK just a header\n"},
		{"missing energy remarks", "MODEL 1\nREMARK VINA RESULT: -9.1 0 0\nENDMDL\n"},
		{"malformed value", "MODEL 1\nREMARK VINA RESULT: abc\nREMARK INTER: -1\nREMARK INTRA: -1\nREMARK UNBOUND: -1\nENDMDL\n"},
		{"value absent", "MODEL 1\nREMARK INTER:\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePoses(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
