package service

import (
	"context"
	"errors"
	"fmt"

	"equity_trader/internal/models"

	"github.com/shopspring/decimal"
)

// Position returns the held quantity of inst. An account that never held it gets a zero position.
func (c *Client) Position(ctx context.Context, acc models.Account, inst models.Instrument) (models.Position, error) {
	zero := models.Position{
		InstrumentID:  inst.ID,
		InstrumentURL: inst.URL,
		Quantity:      decimal.Zero,
	}

	var payload positionResponse
	path := fmt.Sprintf("/positions/%s/%s/", acc.Number, inst.ID)
	err := c.getJSON(ctx, path, nil, &payload)
	if errors.Is(err, ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return models.Position{}, fmt.Errorf("Client.Position: %w", err)
	}

	qty, err := decimal.NewFromString(payload.Quantity)
	if err != nil {
		return models.Position{}, fmt.Errorf("Client.Position: quantity %q: %w", payload.Quantity, err)
	}

	pos := zero
	pos.Quantity = qty
	if payload.Instrument != "" {
		pos.InstrumentURL = payload.Instrument
	}
	return pos, nil
}
