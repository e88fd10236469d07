package apimodel

import "time"

// Prediction timeframes accepted by the backend.
const (
	Timeframe1D = "1D"
	Timeframe1W = "1W"
	Timeframe1M = "1M"
	Timeframe3M = "3M"
)

// Prediction is an ML-generated price prediction for a stock.
type Prediction struct {
	ID              int64     `json:"id,omitempty"`
	Stock           *Stock    `json:"stock,omitempty"`
	Symbol          string    `json:"symbol,omitempty"`
	PredictionDate  string    `json:"prediction_date"`
	PredictedPrice  float64   `json:"predicted_price"`
	ConfidenceLevel float64   `json:"confidence_level"` // 0-100
	Timeframe       string    `json:"timeframe"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}
