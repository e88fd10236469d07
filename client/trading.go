package client

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	"github.com/Hernannavarro13/psystock-go/gateway"
	errs "github.com/Hernannavarro13/psystock-go/internal/errors"
)

// Trading defines the paper trading operations
type Trading interface {
	Portfolio(ctx context.Context) (*apimodel.Portfolio, error)
	Positions(ctx context.Context) ([]apimodel.Position, error)
	Trades(ctx context.Context) ([]apimodel.Transaction, error)
	PlaceTrade(ctx context.Context, trade apimodel.TradeRequest) (*apimodel.Transaction, error)
	GetTrade(ctx context.Context, id int64) (*apimodel.Transaction, error)
	CancelTrade(ctx context.Context, id int64) error
}

// tradingClient handles trading-related requests
type tradingClient struct {
	gw *gateway.Gateway
}

// NewTradingClient creates a new trading client
func NewTradingClient(gw *gateway.Gateway) Trading {
	return &tradingClient{gw: gw}
}

// Portfolio retrieves the user's portfolio. The backend exposes portfolios as
// a list endpoint but every user has exactly one.
func (c *tradingClient) Portfolio(ctx context.Context) (*apimodel.Portfolio, error) {
	body, err := c.gw.Get(ctx, "/api/trading/portfolio/", nil)
	if err != nil {
		return nil, err
	}

	var portfolios []apimodel.Portfolio
	if err := decode(body, &portfolios); err != nil {
		return nil, err
	}
	if len(portfolios) == 0 {
		return nil, errors.Wrap(errs.ErrNotFound, "no portfolio for current user")
	}
	return &portfolios[0], nil
}

// Positions retrieves all open positions.
func (c *tradingClient) Positions(ctx context.Context) ([]apimodel.Position, error) {
	body, err := c.gw.Get(ctx, "/api/trading/positions/", nil)
	if err != nil {
		return nil, err
	}

	var positions []apimodel.Position
	if err := decode(body, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// Trades retrieves the trade history.
func (c *tradingClient) Trades(ctx context.Context) ([]apimodel.Transaction, error) {
	body, err := c.gw.Get(ctx, "/api/trading/trades/", nil)
	if err != nil {
		return nil, err
	}

	var trades []apimodel.Transaction
	if err := decode(body, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// PlaceTrade executes a paper trade.
func (c *tradingClient) PlaceTrade(ctx context.Context, trade apimodel.TradeRequest) (*apimodel.Transaction, error) {
	body, err := c.gw.Post(ctx, "/api/trading/trades/", trade)
	if err != nil {
		return nil, err
	}

	var result apimodel.Transaction
	if err := decode(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTrade retrieves one trade by ID.
func (c *tradingClient) GetTrade(ctx context.Context, id int64) (*apimodel.Transaction, error) {
	body, err := c.gw.Get(ctx, fmt.Sprintf("/api/trading/trades/%d/", id), nil)
	if err != nil {
		return nil, err
	}

	var trade apimodel.Transaction
	if err := decode(body, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

// CancelTrade cancels a pending trade.
func (c *tradingClient) CancelTrade(ctx context.Context, id int64) error {
	_, err := c.gw.Delete(ctx, fmt.Sprintf("/api/trading/trades/%d/", id))
	return err
}
