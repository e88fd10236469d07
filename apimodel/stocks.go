package apimodel

import "time"

// Stock is a listed security known to the backend.
type Stock struct {
	ID            int64     `json:"id,omitempty"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	CurrentPrice  float64   `json:"current_price,omitempty"`
	PreviousClose float64   `json:"previous_close,omitempty"`
	MarketCap     float64   `json:"market_cap,omitempty"`
	Volume        int64     `json:"volume,omitempty"`
	LastUpdated   time.Time `json:"last_updated,omitempty"`
}

// PricePoint is a single entry in a stock's price history.
type PricePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// StockHistory is the response of the price history endpoint.
type StockHistory struct {
	Symbol    string       `json:"symbol"`
	Timeframe string       `json:"timeframe,omitempty"`
	Prices    []PricePoint `json:"prices"`
}
