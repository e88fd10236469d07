// Package client provides thin per-resource wrappers over the authenticated
// gateway: stocks, predictions, paper trading and the watchlist.
package client

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/Hernannavarro13/psystock-go/gateway"
)

// Client aggregates all resource clients sharing one gateway.
type Client struct {
	Stocks      Stocks
	Predictions Predictions
	Trading     Trading
	Watchlist   Watchlist
}

// New creates a Client on top of the given gateway.
func New(gw *gateway.Gateway) *Client {
	return &Client{
		Stocks:      NewStocksClient(gw),
		Predictions: NewPredictionsClient(gw),
		Trading:     NewTradingClient(gw),
		Watchlist:   NewWatchlistClient(gw),
	}
}

// decode unmarshals a response body into out.
func decode(data []byte, out interface{}) error {
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}
