package apimodel

import "time"

// WatchlistItem is one tracked stock on the user's watchlist.
type WatchlistItem struct {
	ID      int64     `json:"id"`
	Stock   *Stock    `json:"stock,omitempty"`
	Symbol  string    `json:"symbol,omitempty"`
	Notes   string    `json:"notes,omitempty"`
	AddedAt time.Time `json:"added_at,omitempty"`
}

// WatchlistAdd is the payload for adding a stock to the watchlist.
type WatchlistAdd struct {
	Symbol string `json:"symbol"`
	Notes  string `json:"notes,omitempty"`
}
