package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"equity_trader/internal/models"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Token: "secret"})
}

func TestClient_Account(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"results":[{"account_number":"5RY82436","buying_power":"1000.0000","url":""}]}`)
	})
	c := newTestClient(t, mux)

	acc, err := c.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5RY82436", acc.Number)
	assert.True(t, decimal.NewFromInt(1000).Equal(acc.BuyingPower))
	assert.Equal(t, c.baseURL+"/accounts/5RY82436/", acc.URL)
}

func TestClient_Account_Empty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[]}`)
	})
	c := newTestClient(t, mux)

	_, err := c.Account(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Invalid token."}`)
	})
	c := newTestClient(t, mux)

	_, err := c.Account(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_InstrumentAndQuote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/instruments/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		_, _ = io.WriteString(w, `{"results":[{"id":"450dfc6d","url":"https://api.robinhood.com/instruments/450dfc6d/","symbol":"AAPL"}]}`)
	})
	mux.HandleFunc("/quotes/AAPL/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"symbol":"AAPL","last_trade_price":"171.2350"}`)
	})
	c := newTestClient(t, mux)

	inst, err := c.Instrument(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "450dfc6d", inst.ID)
	assert.Equal(t, "https://api.robinhood.com/instruments/450dfc6d/", inst.URL)

	px, err := c.LastTradePrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "171.235", px.String())
}

func TestClient_Position(t *testing.T) {
	acc := models.Account{Number: "ACC1"}
	inst := models.Instrument{ID: "I1", URL: "https://x/instruments/I1/"}

	t.Run("held", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/positions/ACC1/I1/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"instrument":"https://x/instruments/I1/","quantity":"10.0000"}`)
		})
		c := newTestClient(t, mux)

		pos, err := c.Position(context.Background(), acc, inst)
		require.NoError(t, err)
		assert.True(t, pos.Held())
		assert.True(t, decimal.NewFromInt(10).Equal(pos.Quantity))
	})

	t.Run("never held", func(t *testing.T) {
		c := newTestClient(t, http.NewServeMux())

		pos, err := c.Position(context.Background(), acc, inst)
		require.NoError(t, err)
		assert.False(t, pos.Held())
		assert.Equal(t, inst.URL, pos.InstrumentURL)
	})
}

func TestClient_PlaceOrder(t *testing.T) {
	var got orderRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, sonic.Unmarshal(b, &got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"ord-1","state":"queued"}`)
	})
	c := newTestClient(t, mux)

	acc := models.Account{Number: "ACC1", URL: "https://x/accounts/ACC1/"}
	inst := models.Instrument{ID: "I1", URL: "https://x/instruments/I1/", Symbol: "AAPL"}
	order := models.NewMarketOrder(acc, inst, models.OrderSideBuy, decimal.NewFromInt(6))
	order.Price = decimal.RequireFromString("50.004")

	id, err := c.PlaceOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "ord-1", id)

	assert.Equal(t, orderRequest{
		Account:     "https://x/accounts/ACC1/",
		Instrument:  "https://x/instruments/I1/",
		Symbol:      "AAPL",
		Type:        "market",
		Trigger:     "immediate",
		Quantity:    "6",
		Price:       "50.00",
		Side:        "buy",
		TimeInForce: "gtc",
	}, got)
}

func TestClient_PlaceOrder_RejectsNon201(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{}`)
	})
	c := newTestClient(t, mux)

	order := models.NewMarketOrder(models.Account{}, models.Instrument{Symbol: "AAPL"}, models.OrderSideSell, decimal.NewFromInt(1))
	_, err := c.PlaceOrder(context.Background(), order)
	assert.Error(t, err)
}

func TestClient_PlaceOrder_AcceptedWithUnreadableBody(t *testing.T) {
	for name, body := range map[string]string{
		"empty":    "",
		"not json": "<html>ok</html>",
	} {
		t.Run(name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, body)
			})
			srv := httptest.NewServer(mux)
			t.Cleanup(srv.Close)

			core, logs := observer.New(zap.WarnLevel)
			c := NewClient(Config{BaseURL: srv.URL, Token: "secret", Log: zap.New(core)})

			order := models.NewMarketOrder(models.Account{}, models.Instrument{Symbol: "AAPL"}, models.OrderSideBuy, decimal.NewFromInt(6))
			id, err := c.PlaceOrder(context.Background(), order)
			require.NoError(t, err)
			assert.Empty(t, id)

			entries := logs.FilterMessage("order accepted, response unreadable").All()
			require.Len(t, entries, 1)
			assert.Equal(t, "AAPL", entries[0].ContextMap()["symbol"])
		})
	}
}
