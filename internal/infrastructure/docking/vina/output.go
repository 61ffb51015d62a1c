package vina

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// PoseEnergy is the decomposed energy of one docked pose in kcal/mol.
// Total is the binding affinity vina reports; Torsional is the tether
// penalty recovered from the identity Total = Inter + Intra + Torsional
// - Unbound, which vina does not print directly.
type PoseEnergy struct {
	Total     float64 `json:"total"`
	Inter     float64 `json:"inter"`
	Intra     float64 `json:"intra"`
	Torsional float64 `json:"torsional"`
	Unbound   float64 `json:"unbound"`
}

// ParsePoses reads a vina output PDBQT and returns one PoseEnergy per MODEL
// block, in file order (vina writes poses best-first).
func ParsePoses(r io.Reader) ([]PoseEnergy, error) {
	var (
		poses   []PoseEnergy
		current PoseEnergy
		inModel bool
		haveAll int
	)

	flush := func() error {
		if !inModel {
			return nil
		}
		if haveAll < 4 {
			return errors.New(errors.CodeDockingOutputParse,
				"pose is missing energy REMARK lines")
		}
		current.Torsional = current.Total - current.Inter - current.Intra + current.Unbound
		poses = append(poses, current)
		current = PoseEnergy{}
		inModel = false
		haveAll = 0
		return nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "MODEL"):
			if err := flush(); err != nil {
				return nil, err
			}
			inModel = true

		case strings.HasPrefix(line, "ENDMDL"):
			if err := flush(); err != nil {
				return nil, err
			}

		case strings.HasPrefix(line, "REMARK VINA RESULT:"):
			v, err := firstFloat(line, "REMARK VINA RESULT:")
			if err != nil {
				return nil, err
			}
			current.Total = v
			haveAll++

		case strings.HasPrefix(line, "REMARK INTER + INTRA:"):
			// Redundant with the INTER and INTRA lines; skipped.

		case strings.HasPrefix(line, "REMARK INTER:"):
			v, err := firstFloat(line, "REMARK INTER:")
			if err != nil {
				return nil, err
			}
			current.Inter = v
			haveAll++

		case strings.HasPrefix(line, "REMARK INTRA:"):
			v, err := firstFloat(line, "REMARK INTRA:")
			if err != nil {
				return nil, err
			}
			current.Intra = v
			haveAll++

		case strings.HasPrefix(line, "REMARK UNBOUND:"):
			v, err := firstFloat(line, "REMARK UNBOUND:")
			if err != nil {
				return nil, err
			}
			current.Unbound = v
			haveAll++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDockingOutputParse, "reading vina output")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(poses) == 0 {
		return nil, errors.New(errors.CodeDockingOutputParse, "vina output contains no poses")
	}
	return poses, nil
}

// firstFloat parses the first whitespace-separated number after the prefix.
func firstFloat(line, prefix string) (float64, error) {
	fields := strings.Fields(strings.TrimPrefix(line, prefix))
	if len(fields) == 0 {
		return 0, errors.New(errors.CodeDockingOutputParse, "energy REMARK has no value").
			WithDetail(line)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeDockingOutputParse, "parsing energy value").
			WithDetail(line)
	}
	return v, nil
}
