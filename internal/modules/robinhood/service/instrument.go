package service

import (
	"context"
	"fmt"

	"equity_trader/internal/models"
)

func (c *Client) Instrument(ctx context.Context, symbol string) (models.Instrument, error) {
	var payload instrumentsResponse
	if err := c.getJSON(ctx, "/instruments/", map[string]string{"symbol": symbol}, &payload); err != nil {
		return models.Instrument{}, fmt.Errorf("Client.Instrument %s: %w", symbol, err)
	}
	if len(payload.Results) == 0 {
		return models.Instrument{}, fmt.Errorf("Client.Instrument %s: %w", symbol, ErrNotFound)
	}

	inst := payload.Results[0]
	return models.Instrument{
		ID:     inst.ID,
		URL:    inst.URL,
		Symbol: symbol,
	}, nil
}
