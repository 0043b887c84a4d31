package crypto

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/betbot/gohood/pkg/persistence"
	"github.com/betbot/gohood/pkg/robinhood"
)

type memStore struct {
	data []byte
}

func (m *memStore) Save(data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.data = b
	return nil
}

func (m *memStore) Load(data interface{}) error {
	if m.data == nil {
		return persistence.ErrNotExists
	}
	return json.Unmarshal(m.data, data)
}

// fakeVenue fakes the crypto endpoints the trader touches.
type fakeVenue struct {
	srv *httptest.Server

	quoteCalls   int
	accountCalls int
	orderBody    map[string]any // decoded JSON of the last order POST
	cancelHits   int
}

func newFakeVenue(t *testing.T) *fakeVenue {
	t.Helper()
	fv := &fakeVenue{}
	mux := http.NewServeMux()
	mux.HandleFunc("/marketdata/forex/quotes/", func(w http.ResponseWriter, r *http.Request) {
		fv.quoteCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"BTCUSD","ask_price":"50000.00","bid_price":"49900.00","mark_price":"49950.00"}`))
	})
	mux.HandleFunc("/accounts/", func(w http.ResponseWriter, r *http.Request) {
		fv.accountCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"crypto-acct-1","status":"active"}]}`))
	})
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/orders/":
			body, _ := io.ReadAll(r.Body)
			fv.orderBody = map[string]any{}
			_ = json.Unmarshal(body, &fv.orderBody)
			_, _ = w.Write([]byte(`{"id":"co-1","state":"unconfirmed","cancel_url":"` + fv.srv.URL + `/orders/co-1/cancel/"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/orders/co-1/":
			_, _ = w.Write([]byte(`{"id":"co-1","state":"filled","cancel_url":""}`))
		case r.Method == http.MethodPost && r.URL.Path == "/orders/co-1/cancel/":
			fv.cancelHits++
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	fv.srv = httptest.NewServer(mux)
	t.Cleanup(fv.srv.Close)
	return fv
}

func newTestTrader(t *testing.T, fv *fakeVenue) *Trader {
	t.Helper()
	client := robinhood.NewClient(robinhood.WithEndpoints(robinhood.Endpoints{
		APIBase:    fv.srv.URL,
		CryptoBase: fv.srv.URL,
	}))
	store := &memStore{}
	require.NoError(t, store.Save(robinhood.SessionState{AccessToken: "at-1"}))
	require.NoError(t, client.RestoreSession(store))
	return NewTrader(client)
}

func TestPlaceOrderNotionalBuy(t *testing.T) {
	fv := newFakeVenue(t)
	trader := newTestTrader(t, fv)

	amount := decimal.NewFromInt(100)
	order, err := trader.Buy(context.Background(), PlaceOrderRequest{
		Symbol:          "BTC",
		AmountInDollars: &amount,
	})
	require.NoError(t, err)
	require.Equal(t, "co-1", order.ID)

	body := fv.orderBody
	require.Equal(t, "crypto-acct-1", body["account_id"])
	require.Equal(t, "3d961844-d360-45fc-989b-f6fca761d511", body["currency_pair_id"])
	require.Equal(t, "0.00200000", body["quantity"]) // 100 / 50000 at 8 places
	require.Equal(t, "buy", body["side"])
	require.Equal(t, "market", body["type"])
	require.Equal(t, "gtc", body["time_in_force"])
	require.NotContains(t, body, "price", "market orders must not carry a price")

	refID, ok := body["ref_id"].(string)
	require.True(t, ok)
	require.Len(t, refID, 32)
	require.Regexp(t, "^[0-9a-f]{32}$", refID)

	require.Equal(t, 1, fv.quoteCalls, "notional conversion fetches the ask once")
	require.Equal(t, 1, fv.accountCalls)
}

func TestPlaceOrderLimitSell(t *testing.T) {
	fv := newFakeVenue(t)
	trader := newTestTrader(t, fv)

	qty := decimal.RequireFromString("0.5")
	price := decimal.RequireFromString("25000")
	_, err := trader.Sell(context.Background(), PlaceOrderRequest{
		Symbol:   "btc", // lowercase resolves too
		Quantity: &qty,
		Price:    &price,
	})
	require.NoError(t, err)

	body := fv.orderBody
	require.Equal(t, "limit", body["type"])
	require.Equal(t, "sell", body["side"])
	require.Equal(t, "25000.00", body["price"]) // pair price precision
	require.Equal(t, "0.5", body["quantity"])
	require.Equal(t, 0, fv.quoteCalls, "explicit quantity needs no quote")
}

func TestPlaceOrderNotionalAtLimitPrice(t *testing.T) {
	fv := newFakeVenue(t)
	trader := newTestTrader(t, fv)

	amount := decimal.NewFromInt(100)
	price := decimal.NewFromInt(40000)
	_, err := trader.Buy(context.Background(), PlaceOrderRequest{
		Symbol:          "BTC",
		AmountInDollars: &amount,
		Price:           &price,
	})
	require.NoError(t, err)
	// Notional converts at the limit price, not the ask.
	require.Equal(t, "0.00250000", fv.orderBody["quantity"])
	require.Equal(t, 0, fv.quoteCalls)
}

func TestPlaceOrderDogePrecision(t *testing.T) {
	fv := newFakeVenue(t)
	trader := newTestTrader(t, fv)

	qty := decimal.NewFromInt(1000)
	price := decimal.RequireFromString("0.123456")
	_, err := trader.Buy(context.Background(), PlaceOrderRequest{
		Symbol:   "DOGE",
		Quantity: &qty,
		Price:    &price,
	})
	require.NoError(t, err)
	require.Equal(t, "1ef78e1b-049b-4f12-90e5-555dcf2fe204", fv.orderBody["currency_pair_id"])
	require.Equal(t, "0.123456", fv.orderBody["price"])
}

func TestPlaceOrderValidation(t *testing.T) {
	fv := newFakeVenue(t)
	trader := newTestTrader(t, fv)

	qty := decimal.NewFromInt(1)
	amount := decimal.NewFromInt(100)
	zero := decimal.Zero

	cases := []struct {
		name string
		req  PlaceOrderRequest
		want error
	}{
		{"both sizes", PlaceOrderRequest{Symbol: "BTC", Side: robinhood.SideBuy, Quantity: &qty, AmountInDollars: &amount}, robinhood.ErrInvalidArgument},
		{"neither size", PlaceOrderRequest{Symbol: "BTC", Side: robinhood.SideBuy}, robinhood.ErrInvalidArgument},
		{"no side", PlaceOrderRequest{Symbol: "BTC", Quantity: &qty}, robinhood.ErrInvalidArgument},
		{"zero quantity", PlaceOrderRequest{Symbol: "BTC", Side: robinhood.SideBuy, Quantity: &zero}, robinhood.ErrInvalidArgument},
		{"zero amount", PlaceOrderRequest{Symbol: "BTC", Side: robinhood.SideBuy, AmountInDollars: &zero}, robinhood.ErrInvalidArgument},
		{"zero price", PlaceOrderRequest{Symbol: "BTC", Side: robinhood.SideBuy, Quantity: &qty, Price: &zero}, robinhood.ErrInvalidArgument},
		{"bad tif", PlaceOrderRequest{Symbol: "BTC", Side: robinhood.SideBuy, Quantity: &qty, TimeInForce: "ioc"}, robinhood.ErrInvalidArgument},
		{"unknown pair", PlaceOrderRequest{Symbol: "XYZ", Side: robinhood.SideBuy, Quantity: &qty}, robinhood.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fv.orderBody = nil
			_, err := trader.PlaceOrder(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.want)
			require.Nil(t, fv.orderBody, "invalid order must not reach the wire")
		})
	}
}

func TestPlaceOrderRequiresLogin(t *testing.T) {
	fv := newFakeVenue(t)
	client := robinhood.NewClient(robinhood.WithEndpoints(robinhood.Endpoints{
		APIBase:    fv.srv.URL,
		CryptoBase: fv.srv.URL,
	}))
	trader := NewTrader(client)

	qty := decimal.NewFromInt(1)
	_, err := trader.PlaceOrder(context.Background(), PlaceOrderRequest{
		Symbol: "BTC", Side: robinhood.SideBuy, Quantity: &qty,
	})
	require.ErrorIs(t, err, robinhood.ErrAuthRequired)
	require.Equal(t, 0, fv.quoteCalls+fv.accountCalls)
}

func TestOrderCancelAndRefresh(t *testing.T) {
	fv := newFakeVenue(t)
	trader := newTestTrader(t, fv)

	qty := decimal.NewFromInt(1)
	order, err := trader.Buy(context.Background(), PlaceOrderRequest{Symbol: "BTC", Quantity: &qty})
	require.NoError(t, err)

	require.NoError(t, order.Cancel(context.Background()))
	require.Equal(t, 1, fv.cancelHits)

	require.NoError(t, order.Refresh(context.Background()))
	require.Equal(t, "filled", order.State)
	require.Empty(t, order.CancelURL)

	err = order.Cancel(context.Background())
	require.ErrorIs(t, err, robinhood.ErrNotCancellable)
}

func TestLookupPair(t *testing.T) {
	p, err := LookupPair("btc")
	require.NoError(t, err)
	require.Equal(t, "BTC", p.Symbol)

	_, err = LookupPair("XYZ")
	require.ErrorIs(t, err, robinhood.ErrNotFound)
}
