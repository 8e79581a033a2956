package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"PricePulse/internal/domain/models"
)

// SplitIndex returns the chronological train/test boundary for n rows: rows
// [0,idx) train, rows [idx,n) evaluate. The split is never shuffled so the
// evaluation window always follows the training window in time.
func SplitIndex(n int, testFraction float64) (int, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return 0, &models.InvalidConfigurationError{Field: "test_split_fraction", Reason: "must be in (0,1)"}
	}
	testLen := int(float64(n) * testFraction)
	if testLen < 1 {
		testLen = 1
	}
	trainEnd := n - testLen
	if trainEnd < 1 {
		return 0, &models.InsufficientDataError{Op: "evaluation split", Need: 2, Got: n}
	}
	return trainEnd, nil
}

// ValidateWindows rejects evaluation windows that overlap the training
// window. Temporal leakage is a defect, not a feature.
func ValidateWindows(trainEnd, testStart int) error {
	if testStart < trainEnd {
		return &models.InvalidConfigurationError{Field: "evaluation window", Reason: "overlaps training window"}
	}
	return nil
}

// Metrics scores predictions against actuals: mean absolute error, root mean
// square error, coefficient of determination, mean absolute percentage error
// and directional accuracy. "accuracy" is R2 clamped to [0,1].
func Metrics(actual, predicted []float64) map[string]float64 {
	n := len(actual)
	if n == 0 || n != len(predicted) {
		return map[string]float64{}
	}

	var absSum, sqSum float64
	for i := range actual {
		d := actual[i] - predicted[i]
		absSum += math.Abs(d)
		sqSum += d * d
	}
	mae := absSum / float64(n)
	rmse := math.Sqrt(sqSum / float64(n))

	mean := stat.Mean(actual, nil)
	var ssTot float64
	for _, a := range actual {
		ssTot += (a - mean) * (a - mean)
	}
	r2 := 0.0
	if ssTot != 0 {
		r2 = 1 - sqSum/ssTot
	}

	var mapeSum float64
	mapeN := 0
	for i := range actual {
		if actual[i] != 0 {
			mapeSum += math.Abs((actual[i] - predicted[i]) / actual[i])
			mapeN++
		}
	}
	mape := 0.0
	if mapeN > 0 {
		mape = mapeSum / float64(mapeN) * 100
	}

	return map[string]float64{
		"mae":                  mae,
		"rmse":                 rmse,
		"r2":                   r2,
		"mape":                 mape,
		"directional_accuracy": directionalAccuracy(actual, predicted),
		"accuracy":             clamp01(r2),
	}
}

// directionalAccuracy is the fraction of steps where the sign of the
// predicted change matches the sign of the actual change.
func directionalAccuracy(actual, predicted []float64) float64 {
	if len(actual) < 2 {
		return 0
	}
	matches := 0
	for i := 1; i < len(actual); i++ {
		if (actual[i]-actual[i-1] > 0) == (predicted[i]-predicted[i-1] > 0) {
			matches++
		}
	}
	return float64(matches) / float64(len(actual)-1)
}

// ResidualStdDev returns the sample standard deviation of prediction
// residuals, the basis for the learned model's widening intervals.
func ResidualStdDev(actual, predicted []float64) float64 {
	if len(actual) < 2 || len(actual) != len(predicted) {
		return 0
	}
	res := make([]float64, len(actual))
	for i := range actual {
		res[i] = actual[i] - predicted[i]
	}
	return stat.StdDev(res, nil)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
