package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

func (c *Client) LastTradePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var payload quoteResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/quotes/%s/", symbol), nil, &payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("Client.LastTradePrice %s: %w", symbol, err)
	}

	px, err := decimal.NewFromString(payload.LastTradePrice)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("Client.LastTradePrice %s: %q: %w", symbol, payload.LastTradePrice, err)
	}
	return px, nil
}
