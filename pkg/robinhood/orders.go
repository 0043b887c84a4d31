package robinhood

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/betbot/gohood/pkg/logger"
)

// OrderRequest is a partial equity order specification. Type, Trigger and
// TimeInForce may be left empty: SubmitOrder infers the type from the price
// fields, defaults the trigger to immediate and the time in force to gfd.
type OrderRequest struct {
	Symbol      string
	Side        Side
	Quantity    int64
	Type        OrderType
	Trigger     Trigger
	Price       *decimal.Decimal
	StopPrice   *decimal.Decimal
	TimeInForce TimeInForce
}

// SubmitOrder validates a partial order specification, infers the missing
// fields, resolves the instrument and emits the order. The quote lookup runs
// before validation because market orders need the current bid as their
// collared price; the instrument search runs exactly once per attempt.
func (c *Client) SubmitOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if req.Symbol == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "order has no symbol")
	}
	if req.Side == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "order is neither buy nor sell")
	}

	quote, err := c.Quote(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}
	instrument, err := c.Instrument(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(req.Symbol)
	orderType := OrderType(strings.ToLower(string(req.Type)))
	trigger := Trigger(strings.ToLower(string(req.Trigger)))
	side := Side(strings.ToLower(string(req.Side)))
	tif := TimeInForce(strings.ToLower(string(req.TimeInForce)))

	if orderType == "" && req.Price == nil {
		if req.StopPrice == nil {
			orderType = OrderTypeMarket
		} else {
			orderType = OrderTypeLimit
		}
	}
	if trigger == "" {
		trigger = TriggerImmediate
	}
	if tif == "" {
		tif = TimeInForceGFD
	}

	if orderType != OrderTypeMarket && orderType != OrderTypeLimit {
		return nil, errors.Wrapf(ErrInvalidArgument, "invalid order type %q", orderType)
	}
	if trigger != TriggerImmediate && trigger != TriggerStop {
		return nil, errors.Wrapf(ErrInvalidArgument, "invalid trigger %q", trigger)
	}
	if side != SideBuy && side != SideSell {
		return nil, errors.Wrapf(ErrInvalidArgument, "invalid side %q", side)
	}
	if tif != TimeInForceGFD && tif != TimeInForceGTC {
		return nil, errors.Wrapf(ErrInvalidArgument, "invalid time in force %q", tif)
	}

	if orderType == OrderTypeLimit {
		if req.Price == nil {
			return nil, errors.Wrap(ErrInvalidArgument, "limit order has no price")
		}
		if !req.Price.IsPositive() {
			return nil, errors.Wrap(ErrInvalidArgument, "price must be a positive number")
		}
	}
	if trigger == TriggerStop {
		if req.StopPrice == nil {
			return nil, errors.Wrap(ErrInvalidArgument, "stop order has no stop price")
		}
		if !req.StopPrice.IsPositive() {
			return nil, errors.Wrap(ErrInvalidArgument, "stop price must be a positive number")
		}
	}
	if req.StopPrice != nil && trigger != TriggerStop {
		return nil, errors.Wrap(ErrInvalidArgument, "stop price set on a non-stop order")
	}

	price := req.Price
	if price != nil {
		if orderType == OrderTypeMarket {
			return nil, errors.Wrap(ErrInvalidArgument, "market order carries a price limit")
		}
	} else if orderType != OrderTypeLimit {
		// Price is required by the API even for market orders; fall back to
		// the current bid fetched above.
		bid := quote.BidPrice
		price = &bid
	}

	if req.Quantity <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "quantity must be a positive number")
	}

	account, err := c.Account(ctx)
	if err != nil {
		return nil, err
	}

	// Fixed field order, nulls never emitted.
	form := newOrderedForm()
	form.add("account", account.URL)
	form.add("instrument", instrument.URL)
	form.add("symbol", symbol)
	form.add("type", string(orderType))
	form.add("time_in_force", string(tif))
	form.add("trigger", string(trigger))
	form.addOpt("price", decimalString(price))
	form.addOpt("stop_price", decimalString(req.StopPrice))
	form.add("quantity", strconv.FormatInt(req.Quantity, 10))
	form.add("side", string(side))

	logger.Infof("[robinhood] submit %s %s %s x%d", side, orderType, symbol, req.Quantity)
	var order Order
	if err := c.postForm(ctx, c.endpoints.Orders(), form, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PlaceMarketBuyOrder buys quantity shares at the current market price.
func (c *Client) PlaceMarketBuyOrder(ctx context.Context, symbol string, quantity int64, tif TimeInForce) (*Order, error) {
	return c.SubmitOrder(ctx, OrderRequest{
		Symbol: symbol, Side: SideBuy, Quantity: quantity,
		Type: OrderTypeMarket, Trigger: TriggerImmediate, TimeInForce: tif,
	})
}

// PlaceLimitBuyOrder buys quantity shares at price or better.
func (c *Client) PlaceLimitBuyOrder(ctx context.Context, symbol string, quantity int64, price decimal.Decimal, tif TimeInForce) (*Order, error) {
	return c.SubmitOrder(ctx, OrderRequest{
		Symbol: symbol, Side: SideBuy, Quantity: quantity,
		Type: OrderTypeLimit, Trigger: TriggerImmediate, Price: &price, TimeInForce: tif,
	})
}

// PlaceStopLossBuyOrder buys at market once the stop price is crossed.
func (c *Client) PlaceStopLossBuyOrder(ctx context.Context, symbol string, quantity int64, stopPrice decimal.Decimal, tif TimeInForce) (*Order, error) {
	return c.SubmitOrder(ctx, OrderRequest{
		Symbol: symbol, Side: SideBuy, Quantity: quantity,
		Type: OrderTypeMarket, Trigger: TriggerStop, StopPrice: &stopPrice, TimeInForce: tif,
	})
}

// PlaceStopLimitBuyOrder buys at price or better once the stop price is crossed.
func (c *Client) PlaceStopLimitBuyOrder(ctx context.Context, symbol string, quantity int64, price, stopPrice decimal.Decimal, tif TimeInForce) (*Order, error) {
	return c.SubmitOrder(ctx, OrderRequest{
		Symbol: symbol, Side: SideBuy, Quantity: quantity,
		Type: OrderTypeLimit, Trigger: TriggerStop, Price: &price, StopPrice: &stopPrice, TimeInForce: tif,
	})
}

// PlaceMarketSellOrder sells quantity shares at the current market price.
func (c *Client) PlaceMarketSellOrder(ctx context.Context, symbol string, quantity int64, tif TimeInForce) (*Order, error) {
	return c.SubmitOrder(ctx, OrderRequest{
		Symbol: symbol, Side: SideSell, Quantity: quantity,
		Type: OrderTypeMarket, Trigger: TriggerImmediate, TimeInForce: tif,
	})
}

// PlaceLimitSellOrder sells quantity shares at price or better.
func (c *Client) PlaceLimitSellOrder(ctx context.Context, symbol string, quantity int64, price decimal.Decimal, tif TimeInForce) (*Order, error) {
	return c.SubmitOrder(ctx, OrderRequest{
		Symbol: symbol, Side: SideSell, Quantity: quantity,
		Type: OrderTypeLimit, Trigger: TriggerImmediate, Price: &price, TimeInForce: tif,
	})
}

// PlaceStopLossSellOrder sells at market once the stop price is crossed.
func (c *Client) PlaceStopLossSellOrder(ctx context.Context, symbol string, quantity int64, stopPrice decimal.Decimal, tif TimeInForce) (*Order, error) {
	return c.SubmitOrder(ctx, OrderRequest{
		Symbol: symbol, Side: SideSell, Quantity: quantity,
		Type: OrderTypeMarket, Trigger: TriggerStop, StopPrice: &stopPrice, TimeInForce: tif,
	})
}

// PlaceStopLimitSellOrder sells at price or better once the stop price is crossed.
func (c *Client) PlaceStopLimitSellOrder(ctx context.Context, symbol string, quantity int64, price, stopPrice decimal.Decimal, tif TimeInForce) (*Order, error) {
	return c.SubmitOrder(ctx, OrderRequest{
		Symbol: symbol, Side: SideSell, Quantity: quantity,
		Type: OrderTypeLimit, Trigger: TriggerStop, Price: &price, StopPrice: &stopPrice, TimeInForce: tif,
	})
}

// CancelOrder fetches the order and invokes its cancel action. The fetch
// failing is ErrLookupFailed; a missing cancel action is ErrNotCancellable.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "order id is required")
	}
	var order Order
	if err := c.Get(ctx, c.endpoints.Order(orderID), nil, &order); err != nil {
		return nil, errors.Wrapf(ErrLookupFailed, "fetch order %s: %v", orderID, err)
	}
	if order.CancelURL == "" {
		return nil, errors.Wrapf(ErrNotCancellable, "order %s has no cancel action", orderID)
	}
	var cancelled Order
	if err := c.postForm(ctx, order.CancelURL, nil, &cancelled); err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// Cancel accepts either an order id or a previously fetched order record.
func (c *Client) Cancel(ctx context.Context, order any) (*Order, error) {
	switch v := order.(type) {
	case string:
		return c.CancelOrder(ctx, v)
	case Order:
		return c.CancelOrder(ctx, v.ID)
	case *Order:
		if v == nil {
			return nil, errors.Wrap(ErrInvalidArgument, "nil order record")
		}
		return c.CancelOrder(ctx, v.ID)
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "cancel needs an order id or order record, got %T", order)
	}
}
