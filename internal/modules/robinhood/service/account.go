package service

import (
	"context"
	"fmt"

	"equity_trader/internal/models"

	"github.com/shopspring/decimal"
)

// Account returns the first brokerage account with its current buying power.
func (c *Client) Account(ctx context.Context) (models.Account, error) {
	var payload accountsResponse
	if err := c.getJSON(ctx, "/accounts/", nil, &payload); err != nil {
		return models.Account{}, fmt.Errorf("Client.Account: %w", err)
	}
	if len(payload.Results) == 0 {
		return models.Account{}, fmt.Errorf("Client.Account: %w", ErrNotFound)
	}

	acc := payload.Results[0]
	bp, err := decimal.NewFromString(acc.BuyingPower)
	if err != nil {
		return models.Account{}, fmt.Errorf("Client.Account: buying_power %q: %w", acc.BuyingPower, err)
	}

	url := acc.URL
	if url == "" {
		url = fmt.Sprintf("%s/accounts/%s/", c.baseURL, acc.AccountNumber)
	}

	return models.Account{
		Number:      acc.AccountNumber,
		URL:         url,
		BuyingPower: bp,
	}, nil
}
