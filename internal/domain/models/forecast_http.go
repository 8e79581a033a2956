package models

// Requests for forecasting HTTP endpoints. Defined in domain for consistency and reuse.

type TrainRequest struct {
	Symbol string `json:"symbol" query:"symbol" validate:"required"`
	Model  string `json:"model" query:"model" default:"learned" validate:"oneof=baseline learned"`
	N      int    `json:"n" query:"n" default:"365" validate:"gte=1,lte=5000"`
	TF     string `json:"tf" query:"tf" default:"1d" validate:"oneof=1d 1h"`
}

type ForecastRequest struct {
	Symbol  string `json:"symbol" query:"symbol" validate:"required"`
	Horizon int    `json:"horizon" query:"horizon" default:"7" validate:"gte=1,lte=90"`
	Model   string `json:"model" query:"model" default:"learned" validate:"oneof=baseline learned"`
}

type MarketRequest struct {
	Symbol string `json:"symbol" query:"symbol" validate:"required"`
	N      int    `json:"n" query:"n" default:"90" validate:"gte=1,lte=5000"`
	TF     string `json:"tf" query:"tf" default:"1d" validate:"oneof=1d 1h"`
}

type PricingRequest struct {
	Symbol       string  `json:"symbol" query:"symbol" validate:"required"`
	Strategy     string  `json:"strategy" query:"strategy" default:"balanced" validate:"oneof=conservative balanced aggressive"`
	CurrentPrice float64 `json:"current_price" query:"current_price" validate:"gte=0"`
	Model        string  `json:"model" query:"model" default:"learned" validate:"oneof=baseline learned"`
	Horizon      int     `json:"horizon" query:"horizon" default:"7" validate:"gte=1,lte=90"`
	N            int     `json:"n" query:"n" default:"365" validate:"gte=1,lte=5000"`
	TF           string  `json:"tf" query:"tf" default:"1d" validate:"oneof=1d 1h"`
}

type InsightsRequest struct {
	Symbol  string `json:"symbol" query:"symbol" validate:"required"`
	Model   string `json:"model" query:"model" default:"learned" validate:"oneof=baseline learned"`
	Horizon int    `json:"horizon" query:"horizon" default:"7" validate:"gte=1,lte=90"`
	N       int    `json:"n" query:"n" default:"365" validate:"gte=1,lte=5000"`
	TF      string `json:"tf" query:"tf" default:"1d" validate:"oneof=1d 1h"`
}

type ReportRequest struct {
	Symbols  string `json:"symbols" query:"symbols"`
	Strategy string `json:"strategy" query:"strategy" default:"balanced" validate:"oneof=conservative balanced aggressive"`
	N        int    `json:"n" query:"n" default:"365" validate:"gte=1,lte=5000"`
	TF       string `json:"tf" query:"tf" default:"1d" validate:"oneof=1d 1h"`
}

type CorrelationRequest struct {
	SymbolA string `json:"symbol_a" query:"symbol_a" validate:"required"`
	SymbolB string `json:"symbol_b" query:"symbol_b" validate:"required"`
	N       int    `json:"n" query:"n" default:"365" validate:"gte=1,lte=5000"`
	TF      string `json:"tf" query:"tf" default:"1d" validate:"oneof=1d 1h"`
}

type SeriesRequest struct {
	Symbol string `json:"symbol" query:"symbol" validate:"required"`
	From   string `json:"from" query:"from"`
	To     string `json:"to" query:"to"`
	Limit  int    `json:"limit" query:"limit" default:"1000" validate:"gte=1,lte=50000"`
	TF     string `json:"tf" query:"tf" default:"1d" validate:"oneof=1d 1h"`
}
