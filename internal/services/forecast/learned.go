package forecast

import (
	"math"

	"PricePulse/internal/domain/models"
	"PricePulse/internal/domain/service"
	"PricePulse/internal/services/features"
)

// Learned is the ensemble model: engineered features feeding a seeded
// random-forest regressor, evaluated on a chronological hold-out split.
type Learned struct {
	cfg Config
}

func NewLearned(cfg Config) *Learned { return &Learned{cfg: cfg} }

func (l *Learned) Kind() models.ModelKind { return models.ModelLearned }

// Train builds feature rows, fits the scaler and forest on the chronological
// training window and scores the hold-out tail. Any failure to assemble a
// usable training set surfaces as ModelTrainingError; the underlying cause
// stays reachable through errors.As.
func (l *Learned) Train(series models.PriceSeries) (service.TrainedModel, error) {
	fcfg := l.cfg.features()
	vectors, err := features.Build(series, fcfg)
	if err != nil {
		return nil, &models.ModelTrainingError{Reason: "feature construction failed", Err: err}
	}

	closes := series.Closes()

	// The last vector has no next-day target; it seeds prediction instead.
	var x [][]float64
	var y []float64
	for _, v := range vectors {
		if v.Index > len(series)-2 {
			continue
		}
		x = append(x, v.Values)
		y = append(y, closes[v.Index+1])
	}
	if len(x) < l.cfg.MinTrainingRows {
		return nil, &models.ModelTrainingError{
			Reason: "not enough training rows",
			Err:    &models.InsufficientDataError{Op: "learned", Need: l.cfg.MinTrainingRows, Got: len(x)},
		}
	}

	trainEnd, err := SplitIndex(len(x), l.cfg.TestSplitFraction)
	if err != nil {
		return nil, &models.ModelTrainingError{Reason: "invalid evaluation split", Err: err}
	}
	if features.StdDev(y[:trainEnd]) == 0 {
		return nil, &models.ModelTrainingError{Reason: "degenerate series, training targets have zero variance"}
	}

	scale, err := fitScaler(x[:trainEnd])
	if err != nil {
		return nil, err
	}
	scaled := make([][]float64, trainEnd)
	for i := 0; i < trainEnd; i++ {
		scaled[i] = scale.transform(x[i])
	}

	params := forestParams{
		estimators: l.cfg.Estimators,
		maxDepth:   l.cfg.MaxDepth,
		minLeaf:    l.cfg.MinLeaf,
		mtry:       mtryFor(fcfg.Width()),
	}
	f := growForest(scaled, y[:trainEnd], params, l.cfg.Seed)

	actual := y[trainEnd:]
	predicted := make([]float64, len(actual))
	for i := trainEnd; i < len(x); i++ {
		predicted[i-trainEnd] = f.predict(scale.transform(x[i]))
	}

	tailLen := fcfg.LookbackWindow
	if fcfg.MALong > tailLen {
		tailLen = fcfg.MALong
	}
	tail := make([]float64, tailLen)
	copy(tail, closes[len(closes)-tailLen:])

	return &learnedModel{
		fcfg:     fcfg,
		forest:   f,
		scale:    scale,
		tail:     tail,
		lastRow:  vectors[len(vectors)-1].Values,
		metrics:  Metrics(actual, predicted),
		residual: ResidualStdDev(actual, predicted),
		z:        zScore(l.cfg.ConfidenceLevel),
	}, nil
}

func mtryFor(width int) int {
	m := width / 3
	if m < 1 {
		m = 1
	}
	return m
}

// learnedModel holds the fitted forest plus the trailing closes needed to
// roll features forward. All state is immutable after Train; Predict works
// on copies so repeated and concurrent calls see identical inputs.
type learnedModel struct {
	fcfg     features.Config
	forest   *forest
	scale    *scaler
	tail     []float64
	lastRow  []float64
	metrics  map[string]float64
	residual float64
	z        float64
}

func (m *learnedModel) Kind() models.ModelKind { return models.ModelLearned }

func (m *learnedModel) Metrics() map[string]float64 { return m.metrics }

// Predict rolls the forecast forward recursively: each predicted close is
// appended to the working window and the next feature row is derived from it.
// The first step uses the last fully observed feature row, so a horizon of 1
// always matches the first element of any longer horizon. Intervals widen
// with sqrt(k+1) around the hold-out residual deviation.
func (m *learnedModel) Predict(horizon int) (models.Prediction, error) {
	if horizon <= 0 {
		return models.Prediction{}, &models.InvalidConfigurationError{Field: "horizon", Reason: "must be positive"}
	}

	closes := make([]float64, len(m.tail), len(m.tail)+horizon)
	copy(closes, m.tail)
	row := m.lastRow

	pred := models.Prediction{
		Prices: make([]float64, horizon),
		Lower:  make([]float64, horizon),
		Upper:  make([]float64, horizon),
	}
	for k := 0; k < horizon; k++ {
		p := m.forest.predict(m.scale.transform(row))
		half := m.z * m.residual * math.Sqrt(float64(k+1))
		pred.Prices[k] = p
		pred.Lower[k] = p - half
		pred.Upper[k] = p + half

		closes = append(closes, p)
		row = features.SyntheticRow(closes, m.fcfg)
	}
	return pred, nil
}
