package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	"github.com/Hernannavarro13/psystock-go/client"
	"github.com/Hernannavarro13/psystock-go/gateway"
	errs "github.com/Hernannavarro13/psystock-go/internal/errors"
	"github.com/Hernannavarro13/psystock-go/session"
	"github.com/Hernannavarro13/psystock-go/session/repofake"
)

// testBackend is a scripted stand-in for the real API used by the full
// stack: session manager, gateway, resource clients.
type testBackend struct {
	mux          *http.ServeMux
	server       *httptest.Server
	validToken   string
	refreshCalls int64
}

func setupBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{mux: http.NewServeMux(), validToken: "T1"}
	b.mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&b.refreshCalls, 1)
		b.validToken = "T2"
		w.Write([]byte(`{"access":"T2"}`))
	})
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

// authenticated wraps a handler with the backend's bearer check.
func (b *testBackend) authenticated(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		handler(w, r)
	}
}

func setupClient(t *testing.T, b *testBackend, accessToken string) *client.Client {
	t.Helper()
	repo := repofake.NewFakeSessionRepo()
	require.NoError(t, repo.Upsert(&session.Session{AccessToken: accessToken, RefreshToken: "R1"}))

	manager, err := session.NewManager(repo, b.server.URL)
	require.NoError(t, err)

	gw, err := gateway.New(b.server.URL, manager)
	require.NoError(t, err)
	return client.New(gw)
}

func TestStocksSearch(t *testing.T) {
	b := setupBackend(t)
	b.mux.HandleFunc("/api/stocks/search/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "apple", r.URL.Query().Get("query"))
		w.Write([]byte(`[{"symbol":"AAPL","name":"Apple Inc.","current_price":182.5}]`))
	}))

	api := setupClient(t, b, "T1")
	stocks, err := api.Stocks.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	require.Equal(t, "AAPL", stocks[0].Symbol)
	require.InDelta(t, 182.5, stocks[0].CurrentPrice, 0.001)
}

func TestStocksHistoryTimeframe(t *testing.T) {
	b := setupBackend(t)
	b.mux.HandleFunc("/api/stocks/AAPL/history/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "1M", r.URL.Query().Get("timeframe"))
		w.Write([]byte(`{"symbol":"AAPL","prices":[{"date":"2026-08-01","close":180.0}]}`))
	}))

	api := setupClient(t, b, "T1")
	history, err := api.Stocks.History(context.Background(), "AAPL", "1M")
	require.NoError(t, err)
	require.Len(t, history.Prices, 1)
}

func TestPredictionsDefaultTimeframe(t *testing.T) {
	b := setupBackend(t)
	b.mux.HandleFunc("/api/predictions/predict/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "MSFT", r.URL.Query().Get("symbol"))
		require.Equal(t, apimodel.Timeframe1W, r.URL.Query().Get("timeframe"))
		w.Write([]byte(`{"predicted_price":512.4,"confidence_level":71.5,"timeframe":"1W","prediction_date":"2026-09-06"}`))
	}))

	api := setupClient(t, b, "T1")
	prediction, err := api.Predictions.Predict(context.Background(), "MSFT", "")
	require.NoError(t, err)
	require.InDelta(t, 512.4, prediction.PredictedPrice, 0.001)
}

func TestTradingPortfolioUnwrapsList(t *testing.T) {
	b := setupBackend(t)
	b.mux.HandleFunc("/api/trading/portfolio/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"cash_balance":95000.0,"total_value":101200.0}]`))
	}))

	api := setupClient(t, b, "T1")
	portfolio, err := api.Trading.Portfolio(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), portfolio.ID)
	require.InDelta(t, 95000.0, portfolio.CashBalance, 0.001)
}

func TestTradingPortfolioEmptyList(t *testing.T) {
	b := setupBackend(t)
	b.mux.HandleFunc("/api/trading/portfolio/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	api := setupClient(t, b, "T1")
	_, err := api.Trading.Portfolio(context.Background())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPlaceTrade(t *testing.T) {
	b := setupBackend(t)
	b.mux.HandleFunc("/api/trading/trades/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var trade apimodel.TradeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&trade))
		require.Equal(t, apimodel.TradeBuy, trade.TradeType)
		w.Write([]byte(`{"id":11,"transaction_type":"BUY","stock_symbol":"AAPL","quantity":5,"price":182.5,"total_amount":912.5}`))
	}))

	api := setupClient(t, b, "T1")
	result, err := api.Trading.PlaceTrade(context.Background(), apimodel.TradeRequest{
		Symbol:    "AAPL",
		TradeType: apimodel.TradeBuy,
		Quantity:  5,
	})
	require.NoError(t, err)
	require.Equal(t, int64(11), result.ID)
	require.InDelta(t, 912.5, result.TotalAmount, 0.001)
}

func TestWatchlistAddAndRemove(t *testing.T) {
	b := setupBackend(t)
	var deleted string
	b.mux.HandleFunc("/api/watchlist/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		var add apimodel.WatchlistAdd
		require.NoError(t, json.NewDecoder(r.Body).Decode(&add))
		require.Equal(t, "NVDA", add.Symbol)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":4,"symbol":"NVDA"}`))
	}))
	b.mux.HandleFunc("/api/watchlist/4/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		deleted = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))

	api := setupClient(t, b, "T1")
	item, err := api.Watchlist.Add(context.Background(), "NVDA", "earnings soon")
	require.NoError(t, err)
	require.Equal(t, int64(4), item.ID)

	require.NoError(t, api.Watchlist.Remove(context.Background(), 4))
	require.Equal(t, http.MethodDelete, deleted)
}

// A watchlist fetch sent with an expired access token must transparently
// refresh once and return the intended payload.
func TestWatchlistFetchWithExpiredToken(t *testing.T) {
	b := setupBackend(t)
	b.mux.HandleFunc("/api/watchlist/", b.authenticated(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"symbol":"AAPL"}]`))
	}))

	// The stored token predates the backend's current one.
	api := setupClient(t, b, "expired")
	items, err := api.Watchlist.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(1), atomic.LoadInt64(&b.refreshCalls), "refresh endpoint invoked exactly once")
}
