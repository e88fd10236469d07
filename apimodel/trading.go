package apimodel

import "time"

// Trade sides accepted by the trading endpoints.
const (
	TradeBuy  = "BUY"
	TradeSell = "SELL"
)

// Transaction statuses reported by the backend.
const (
	TradePending   = "PENDING"
	TradeExecuted  = "EXECUTED"
	TradeCancelled = "CANCELLED"
	TradeFailed    = "FAILED"
)

// Portfolio is the user's paper-trading portfolio summary.
type Portfolio struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username,omitempty"`
	CashBalance    float64   `json:"cash_balance"`
	TotalValue     float64   `json:"total_value"`
	PositionsCount int       `json:"positions_count,omitempty"`
	PositionsValue float64   `json:"positions_value,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// Position is an open holding within a portfolio.
type Position struct {
	ID                   int64     `json:"id"`
	Stock                *Stock    `json:"stock,omitempty"`
	Quantity             float64   `json:"quantity"`
	AverageBuyPrice      float64   `json:"average_buy_price"`
	CurrentPrice         float64   `json:"current_price"`
	CurrentValue         float64   `json:"current_value"`
	UnrealizedPnl        float64   `json:"unrealized_pnl,omitempty"`
	ProfitLossPercentage float64   `json:"profit_loss_percentage,omitempty"`
	CreatedAt            time.Time `json:"created_at,omitempty"`
	UpdatedAt            time.Time `json:"updated_at,omitempty"`
}

// Transaction is a completed or pending trade.
type Transaction struct {
	ID              int64     `json:"id"`
	TransactionType string    `json:"transaction_type"`
	StockSymbol     string    `json:"stock_symbol"`
	StockName       string    `json:"stock_name,omitempty"`
	Quantity        float64   `json:"quantity"`
	Price           float64   `json:"price"`
	TotalAmount     float64   `json:"total_amount"`
	Status          string    `json:"status,omitempty"`
	Timestamp       time.Time `json:"timestamp,omitempty"`
}

// TradeRequest is the payload for placing a paper trade.
type TradeRequest struct {
	Symbol    string  `json:"symbol"`
	TradeType string  `json:"trade_type"`
	Quantity  float64 `json:"quantity"`
}

// Performance is the portfolio's aggregate trading performance.
type Performance struct {
	TotalRealizedPnl      float64   `json:"total_realized_pnl"`
	TotalUnrealizedPnl    float64   `json:"total_unrealized_pnl"`
	TotalReturnPercentage float64   `json:"total_return_percentage"`
	WinningTrades         int       `json:"winning_trades"`
	LosingTrades          int       `json:"losing_trades"`
	WinLossRatio          float64   `json:"win_loss_ratio"`
	LastUpdated           time.Time `json:"last_updated,omitempty"`
}
