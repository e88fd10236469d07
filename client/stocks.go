package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	"github.com/Hernannavarro13/psystock-go/gateway"
)

// Stocks defines the stock data operations
type Stocks interface {
	Search(ctx context.Context, query string) ([]apimodel.Stock, error)
	Get(ctx context.Context, symbol string) (*apimodel.Stock, error)
	History(ctx context.Context, symbol, timeframe string) (*apimodel.StockHistory, error)
}

// stocksClient handles stock-related requests
type stocksClient struct {
	gw *gateway.Gateway
}

// NewStocksClient creates a new stocks client
func NewStocksClient(gw *gateway.Gateway) Stocks {
	return &stocksClient{gw: gw}
}

// Search looks up stocks matching the query string.
func (c *stocksClient) Search(ctx context.Context, query string) ([]apimodel.Stock, error) {
	params := url.Values{"query": []string{query}}
	body, err := c.gw.Get(ctx, "/api/stocks/search/", params)
	if err != nil {
		return nil, err
	}

	var stocks []apimodel.Stock
	if err := decode(body, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// Get retrieves a single stock by symbol.
func (c *stocksClient) Get(ctx context.Context, symbol string) (*apimodel.Stock, error) {
	body, err := c.gw.Get(ctx, fmt.Sprintf("/api/stocks/%s/", symbol), nil)
	if err != nil {
		return nil, err
	}

	var stock apimodel.Stock
	if err := decode(body, &stock); err != nil {
		return nil, err
	}
	return &stock, nil
}

// History retrieves the price history for a symbol. Timeframe is optional.
func (c *stocksClient) History(ctx context.Context, symbol, timeframe string) (*apimodel.StockHistory, error) {
	var params url.Values
	if timeframe != "" {
		params = url.Values{"timeframe": []string{timeframe}}
	}
	body, err := c.gw.Get(ctx, fmt.Sprintf("/api/stocks/%s/history/", symbol), params)
	if err != nil {
		return nil, err
	}

	var history apimodel.StockHistory
	if err := decode(body, &history); err != nil {
		return nil, err
	}
	return &history, nil
}
