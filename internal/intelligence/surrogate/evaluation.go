package surrogate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// ClassificationReport summarizes classifier quality on a held-out set.
type ClassificationReport struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	AUC       float64 `json:"auc"`

	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// String renders the report as a single log-friendly line.
func (r ClassificationReport) String() string {
	return fmt.Sprintf("accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f auc=%.3f tp=%d fp=%d tn=%d fn=%d",
		r.Accuracy, r.Precision, r.Recall, r.F1, r.AUC,
		r.TruePositives, r.FalsePositives, r.TrueNegatives, r.FalseNegatives)
}

// EvaluateClassifier scores predicted probabilities against binary truth
// labels (1 = active).  Probabilities at or above 0.5 count as predicted
// active for the thresholded metrics; AUC uses the raw probabilities.
func EvaluateClassifier(probs, truth []float64) (ClassificationReport, error) {
	if len(probs) != len(truth) {
		return ClassificationReport{}, errors.Newf(errors.CodeInvalidParam,
			"predictions (%d) and labels (%d) differ in length", len(probs), len(truth))
	}
	if len(probs) == 0 {
		return ClassificationReport{}, errors.New(errors.CodeInvalidParam, "evaluation set is empty")
	}

	var r ClassificationReport
	for i := range probs {
		predActive := probs[i] >= 0.5
		isActive := truth[i] == 1
		switch {
		case predActive && isActive:
			r.TruePositives++
		case predActive && !isActive:
			r.FalsePositives++
		case !predActive && !isActive:
			r.TrueNegatives++
		default:
			r.FalseNegatives++
		}
	}

	n := float64(len(probs))
	r.Accuracy = float64(r.TruePositives+r.TrueNegatives) / n
	if r.TruePositives+r.FalsePositives > 0 {
		r.Precision = float64(r.TruePositives) / float64(r.TruePositives+r.FalsePositives)
	}
	if r.TruePositives+r.FalseNegatives > 0 {
		r.Recall = float64(r.TruePositives) / float64(r.TruePositives+r.FalseNegatives)
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	r.AUC = rocAUC(probs, truth)
	return r, nil
}

// rocAUC computes the area under the ROC curve by the rank formula
// (equivalent to the Mann-Whitney U statistic), with midrank handling of
// tied probabilities.  Returns NaN when one class is absent.
func rocAUC(probs, truth []float64) float64 {
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return probs[idx[a]] < probs[idx[b]] })

	ranks := make([]float64, len(probs))
	for i := 0; i < len(idx); {
		j := i
		for j < len(idx) && probs[idx[j]] == probs[idx[i]] {
			j++
		}
		mid := float64(i+j+1) / 2 // 1-based midrank
		for k := i; k < j; k++ {
			ranks[idx[k]] = mid
		}
		i = j
	}

	var posRankSum float64
	var nPos int
	for i := range truth {
		if truth[i] == 1 {
			posRankSum += ranks[i]
			nPos++
		}
	}
	nNeg := len(truth) - nPos
	if nPos == 0 || nNeg == 0 {
		return math.NaN()
	}
	return (posRankSum - float64(nPos)*float64(nPos+1)/2) / (float64(nPos) * float64(nNeg))
}

// RegressionReport summarizes regressor quality on a held-out set.
type RegressionReport struct {
	RMSE     float64 `json:"rmse"`
	MAE      float64 `json:"mae"`
	R2       float64 `json:"r2"`
	PearsonR float64 `json:"pearson_r"`
	// PValue is the two-sided p-value of PearsonR under the null of no
	// correlation, from the t distribution with n-2 degrees of freedom.
	PValue float64 `json:"p_value"`
}

// String renders the report as a single log-friendly line.
func (r RegressionReport) String() string {
	return fmt.Sprintf("rmse=%.3f mae=%.3f r2=%.3f pearson_r=%.3f p=%.3g",
		r.RMSE, r.MAE, r.R2, r.PearsonR, r.PValue)
}

// EvaluateRegressor scores predictions against true docking scores.
func EvaluateRegressor(preds, truth []float64) (RegressionReport, error) {
	if len(preds) != len(truth) {
		return RegressionReport{}, errors.Newf(errors.CodeInvalidParam,
			"predictions (%d) and targets (%d) differ in length", len(preds), len(truth))
	}
	if len(preds) < 3 {
		return RegressionReport{}, errors.New(errors.CodeInvalidParam,
			"need at least 3 evaluation points")
	}

	n := float64(len(preds))
	var sqSum, absSum float64
	for i := range preds {
		d := preds[i] - truth[i]
		sqSum += d * d
		absSum += math.Abs(d)
	}

	meanTruth := stat.Mean(truth, nil)
	var totSS float64
	for _, t := range truth {
		d := t - meanTruth
		totSS += d * d
	}

	rep := RegressionReport{
		RMSE:     math.Sqrt(sqSum / n),
		MAE:      absSum / n,
		PearsonR: stat.Correlation(preds, truth, nil),
	}
	if totSS > 0 {
		rep.R2 = 1 - sqSum/totSS
	}
	rep.PValue = pearsonPValue(rep.PearsonR, len(preds))
	return rep, nil
}

// pearsonPValue computes the two-sided p-value for a sample correlation r
// over n points.
func pearsonPValue(r float64, n int) float64 {
	if math.IsNaN(r) {
		return math.NaN()
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	nu := float64(n - 2)
	t := r * math.Sqrt(nu/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu}
	return 2 * dist.Survival(math.Abs(t))
}
