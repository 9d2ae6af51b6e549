package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"equity_trader/internal/models"

	"github.com/bytedance/sonic"
)

const macdSection = "Technical Analysis: MACD"

var (
	ErrNoData   = errors.New("alphavantage: no indicator data")
	ErrAPILimit = errors.New("alphavantage: api limit")
)

type macdPoint struct {
	MACD       string `json:"MACD"`
	MACDSignal string `json:"MACD_Signal"`
	MACDHist   string `json:"MACD_Hist"`
}

type macdResponse struct {
	ErrorMessage string               `json:"Error Message"`
	Note         string               `json:"Note"`
	Information  string               `json:"Information"`
	Series       map[string]macdPoint `json:"Technical Analysis: MACD"`
}

// Reading returns the most recent daily MACD line and MACD signal line for symbol.
func (c *Client) Reading(ctx context.Context, symbol string) (reading models.IndicatorReading, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Client.Reading %s: %w", symbol, err)
		}
	}()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":    "MACD",
			"symbol":      symbol,
			"interval":    "daily",
			"series_type": "close",
			"apikey":      c.apiKey,
		}).
		Get("/query")
	if err != nil {
		return reading, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode()/100 != 2 {
		return reading, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}

	return parseMACD(resp.Body())
}

func parseMACD(body []byte) (models.IndicatorReading, error) {
	var payload macdResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return models.IndicatorReading{}, fmt.Errorf("decode: %w", err)
	}

	switch {
	case payload.ErrorMessage != "":
		return models.IndicatorReading{}, fmt.Errorf("api error: %s", payload.ErrorMessage)
	case payload.Note != "":
		return models.IndicatorReading{}, fmt.Errorf("%w: %s", ErrAPILimit, payload.Note)
	case payload.Information != "" && len(payload.Series) == 0:
		return models.IndicatorReading{}, fmt.Errorf("%w: %s", ErrAPILimit, payload.Information)
	}

	date, point, ok := latest(payload.Series)
	if !ok {
		return models.IndicatorReading{}, ErrNoData
	}

	fast, err := strconv.ParseFloat(point.MACD, 64)
	if err != nil {
		return models.IndicatorReading{}, fmt.Errorf("MACD on %s: %w", date, err)
	}
	baseline, err := strconv.ParseFloat(point.MACDSignal, 64)
	if err != nil {
		return models.IndicatorReading{}, fmt.Errorf("MACD_Signal on %s: %w", date, err)
	}

	return models.IndicatorReading{Fast: fast, Baseline: baseline}, nil
}

// latest picks the newest key; ISO dates order lexically.
func latest(series map[string]macdPoint) (string, macdPoint, bool) {
	var (
		bestKey string
		best    macdPoint
	)
	for k, v := range series {
		if k > bestKey {
			bestKey, best = k, v
		}
	}
	return bestKey, best, bestKey != ""
}
