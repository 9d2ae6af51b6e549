package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.robinhood.com"

var ErrNotFound = errors.New("robinhood: not found")

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	Log *zap.Logger
}

// Client is a thin Robinhood REST client; every call reads live state.
type Client struct {
	http    *resty.Client
	baseURL string
	log     *zap.Logger
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	h := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Token "+cfg.Token).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &Client{http: h, baseURL: base, log: log.Named("robinhood")}
}

// getJSON expects 200 and decodes the body into out. 404 maps to ErrNotFound.
func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, out any) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	default:
		return fmt.Errorf("GET %s: unexpected status %s: %s", path, resp.Status(), resp.String())
	}

	if err := sonic.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("GET %s decode: %w", path, err)
	}
	return nil
}
