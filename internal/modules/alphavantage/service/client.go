package service

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://www.alphavantage.co"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client reads technical indicators from Alpha Vantage.
type Client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	h := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &Client{http: h, apiKey: cfg.APIKey}
}
