package client

import (
	"context"
	"net/url"

	"github.com/Hernannavarro13/psystock-go/apimodel"
	"github.com/Hernannavarro13/psystock-go/gateway"
)

// Predictions defines the prediction operations
type Predictions interface {
	List(ctx context.Context) ([]apimodel.Prediction, error)
	Predict(ctx context.Context, symbol, timeframe string) (*apimodel.Prediction, error)
}

// predictionsClient handles prediction-related requests
type predictionsClient struct {
	gw *gateway.Gateway
}

// NewPredictionsClient creates a new predictions client
func NewPredictionsClient(gw *gateway.Gateway) Predictions {
	return &predictionsClient{gw: gw}
}

// List retrieves stored predictions.
func (c *predictionsClient) List(ctx context.Context) ([]apimodel.Prediction, error) {
	body, err := c.gw.Get(ctx, "/api/predictions/", nil)
	if err != nil {
		return nil, err
	}

	var predictions []apimodel.Prediction
	if err := decode(body, &predictions); err != nil {
		return nil, err
	}
	return predictions, nil
}

// Predict retrieves (or generates) a price prediction for the symbol.
// Timeframe defaults to one week when empty.
func (c *predictionsClient) Predict(ctx context.Context, symbol, timeframe string) (*apimodel.Prediction, error) {
	if timeframe == "" {
		timeframe = apimodel.Timeframe1W
	}
	params := url.Values{
		"symbol":    []string{symbol},
		"timeframe": []string{timeframe},
	}
	body, err := c.gw.Get(ctx, "/api/predictions/predict/", params)
	if err != nil {
		return nil, err
	}

	var prediction apimodel.Prediction
	if err := decode(body, &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}
