package service

import (
	"context"
	"fmt"
	"net/http"

	"equity_trader/internal/models"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// PlaceOrder submits order and returns the brokerage order id. Only 201 counts as accepted.
// Once accepted the call never fails: an unreadable body yields an empty id.
func (c *Client) PlaceOrder(ctx context.Context, order models.Order) (string, error) {
	if !order.Quantity.IsPositive() {
		return "", fmt.Errorf("Client.PlaceOrder %s: quantity must be positive, got %s", order.Symbol, order.Quantity)
	}

	body := orderRequest{
		Account:     order.AccountURL,
		Instrument:  order.InstrumentURL,
		Symbol:      order.Symbol,
		Type:        string(order.Type),
		Trigger:     string(order.Trigger),
		Quantity:    order.Quantity.String(),
		Side:        string(order.Side),
		TimeInForce: string(order.TimeInForce),
	}
	if order.Side == models.OrderSideBuy && !order.Price.IsZero() {
		body.Price = order.Price.StringFixed(2)
	}

	payload, err := sonic.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("Client.PlaceOrder marshal: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/orders/")
	if err != nil {
		return "", fmt.Errorf("Client.PlaceOrder %s: %w", order.Symbol, err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("Client.PlaceOrder %s: unexpected status %s: %s", order.Symbol, resp.Status(), resp.String())
	}

	var created orderResponse
	if err := sonic.Unmarshal(resp.Body(), &created); err != nil {
		c.log.Warn("order accepted, response unreadable",
			zap.String("symbol", order.Symbol),
			zap.String("side", string(order.Side)),
			zap.Error(err),
		)
		return "", nil
	}
	return created.ID, nil
}
