package crypto

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/betbot/gohood/pkg/logger"
	"github.com/betbot/gohood/pkg/robinhood"
)

// Trader places and manages crypto orders through an authenticated equity
// client. The crypto venue reuses the equity bearer token but lives on its
// own host with its own account record.
type Trader struct {
	client *robinhood.Client
}

func NewTrader(client *robinhood.Client) *Trader {
	return &Trader{client: client}
}

// PlaceOrderRequest specifies a crypto order. Exactly one of Quantity and
// AmountInDollars must be set; a set Price makes the order a limit order.
type PlaceOrderRequest struct {
	Symbol          string
	Side            robinhood.Side
	Quantity        *decimal.Decimal
	AmountInDollars *decimal.Decimal
	Price           *decimal.Decimal
	TimeInForce     robinhood.TimeInForce
}

func (t *Trader) requireAuth() error {
	if !t.client.IsLoggedIn() {
		return errors.Wrap(robinhood.ErrAuthRequired, "login required for crypto trading")
	}
	return nil
}

// Quote fetches the current quote for a currency pair.
func (t *Trader) Quote(ctx context.Context, symbol string) (*Quote, error) {
	pair, err := LookupPair(symbol)
	if err != nil {
		return nil, err
	}
	var quote Quote
	if err := t.client.Get(ctx, t.client.Endpoints().CryptoQuote(pair.ID), nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// Account fetches the crypto trading account. The venue reports one account
// per user; an empty listing is ErrLookupFailed.
func (t *Trader) Account(ctx context.Context) (*Account, error) {
	if err := t.requireAuth(); err != nil {
		return nil, err
	}
	var resp listResponse[Account]
	if err := t.client.Get(ctx, t.client.Endpoints().CryptoAccounts(), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, errors.Wrap(robinhood.ErrLookupFailed, "crypto account list is empty")
	}
	return &resp.Results[0], nil
}

// Orders fetches the crypto order history.
func (t *Trader) Orders(ctx context.Context) ([]*Order, error) {
	if err := t.requireAuth(); err != nil {
		return nil, err
	}
	var resp listResponse[OrderData]
	if err := t.client.Get(ctx, t.client.Endpoints().CryptoOrders(), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*Order, len(resp.Results))
	for i := range resp.Results {
		out[i] = &Order{OrderData: resp.Results[i], trader: t}
	}
	return out, nil
}

// Order fetches a single crypto order by id.
func (t *Trader) Order(ctx context.Context, orderID string) (*Order, error) {
	if err := t.requireAuth(); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, errors.Wrap(robinhood.ErrInvalidArgument, "order id is required")
	}
	var data OrderData
	if err := t.client.Get(ctx, t.client.Endpoints().CryptoOrder(orderID), nil, &data); err != nil {
		return nil, err
	}
	return &Order{OrderData: data, trader: t}, nil
}

// PlaceOrder composes and submits a crypto order. The order size comes from
// either an exact quantity or a dollar notional converted at the current ask;
// a set price makes it a limit order, otherwise it goes out at market.
func (t *Trader) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if err := t.requireAuth(); err != nil {
		return nil, err
	}
	side := robinhood.Side(strings.ToLower(string(req.Side)))
	if side != robinhood.SideBuy && side != robinhood.SideSell {
		return nil, errors.Wrapf(robinhood.ErrInvalidArgument, "invalid side %q", req.Side)
	}
	if (req.Quantity != nil) == (req.AmountInDollars != nil) {
		return nil, errors.Wrap(robinhood.ErrInvalidArgument, "set exactly one of quantity and amount in dollars")
	}

	pair, err := LookupPair(req.Symbol)
	if err != nil {
		return nil, err
	}

	tif := robinhood.TimeInForce(strings.ToLower(string(req.TimeInForce)))
	if tif == "" {
		tif = robinhood.TimeInForceGTC
	}
	if tif != robinhood.TimeInForceGTC && tif != robinhood.TimeInForceGFD {
		return nil, errors.Wrapf(robinhood.ErrInvalidArgument, "invalid time in force %q", tif)
	}

	orderType := robinhood.OrderTypeMarket
	price := req.Price
	if price != nil {
		if !price.IsPositive() {
			return nil, errors.Wrap(robinhood.ErrInvalidArgument, "price must be a positive number")
		}
		orderType = robinhood.OrderTypeLimit
	}

	var quantity string
	switch {
	case req.Quantity != nil:
		if !req.Quantity.IsPositive() {
			return nil, errors.Wrap(robinhood.ErrInvalidArgument, "quantity must be a positive number")
		}
		quantity = req.Quantity.String()
	default:
		if !req.AmountInDollars.IsPositive() {
			return nil, errors.Wrap(robinhood.ErrInvalidArgument, "amount in dollars must be a positive number")
		}
		// Convert the notional at the limit price when given, otherwise at
		// the current ask.
		ref := price
		if ref == nil {
			quote, err := t.Quote(ctx, req.Symbol)
			if err != nil {
				return nil, err
			}
			ref = &quote.AskPrice
		}
		quantity = req.AmountInDollars.Div(*ref).StringFixed(8)
	}

	account, err := t.Account(ctx)
	if err != nil {
		return nil, err
	}

	payload := orderPayload{
		AccountID:      account.ID,
		CurrencyPairID: pair.ID,
		Quantity:       quantity,
		RefID:          newRefID(),
		Side:           string(side),
		TimeInForce:    string(tif),
		Type:           string(orderType),
	}
	// The venue rejects market orders that carry a price, so it only rides
	// along on limit orders.
	if orderType == robinhood.OrderTypeLimit {
		payload.Price = price.StringFixed(pair.PricePrecision)
	}

	logger.Infof("[crypto] submit %s %s %s qty=%s", side, orderType, pair.Symbol, quantity)
	var data OrderData
	if err := t.client.PostJSON(ctx, t.client.Endpoints().CryptoOrders(), payload, &data); err != nil {
		return nil, err
	}
	return &Order{OrderData: data, trader: t}, nil
}

// Buy places a buy order for the pair.
func (t *Trader) Buy(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	req.Side = robinhood.SideBuy
	return t.PlaceOrder(ctx, req)
}

// Sell places a sell order for the pair.
func (t *Trader) Sell(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	req.Side = robinhood.SideSell
	return t.PlaceOrder(ctx, req)
}

func newRefID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
