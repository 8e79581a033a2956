package repository

// Metrics records operational measurements for the forecasting service.
type Metrics interface {
	RecordTraining(symbol, model string, seconds float64)
	RecordForecast(symbol, model string)
	RecordRecommendation(strategy string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
