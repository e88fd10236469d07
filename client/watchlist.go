package client

import (
	"context"
	"fmt"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	"github.com/Hernannavarro13/psystock-go/gateway"
)

// Watchlist defines the watchlist operations
type Watchlist interface {
	List(ctx context.Context) ([]apimodel.WatchlistItem, error)
	Add(ctx context.Context, symbol, notes string) (*apimodel.WatchlistItem, error)
	Remove(ctx context.Context, id int64) error
}

// watchlistClient handles watchlist-related requests
type watchlistClient struct {
	gw *gateway.Gateway
}

// NewWatchlistClient creates a new watchlist client
func NewWatchlistClient(gw *gateway.Gateway) Watchlist {
	return &watchlistClient{gw: gw}
}

// List retrieves the user's watchlist.
func (c *watchlistClient) List(ctx context.Context) ([]apimodel.WatchlistItem, error) {
	body, err := c.gw.Get(ctx, "/api/watchlist/", nil)
	if err != nil {
		return nil, err
	}

	var items []apimodel.WatchlistItem
	if err := decode(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add puts a stock on the watchlist.
func (c *watchlistClient) Add(ctx context.Context, symbol, notes string) (*apimodel.WatchlistItem, error) {
	body, err := c.gw.Post(ctx, "/api/watchlist/", apimodel.WatchlistAdd{Symbol: symbol, Notes: notes})
	if err != nil {
		return nil, err
	}

	var item apimodel.WatchlistItem
	if err := decode(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove deletes a watchlist entry by ID.
func (c *watchlistClient) Remove(ctx context.Context, id int64) error {
	_, err := c.gw.Delete(ctx, fmt.Sprintf("/api/watchlist/%d/", id))
	return err
}
