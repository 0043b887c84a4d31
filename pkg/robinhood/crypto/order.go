package crypto

import (
	"context"

	"github.com/pkg/errors"

	"github.com/betbot/gohood/pkg/robinhood"
)

// Order is a crypto order handle bound to the trader that produced it.
type Order struct {
	OrderData

	trader *Trader
}

// Cancel invokes the order's cancel action. Orders that are already in a
// terminal state have no cancel action and return ErrNotCancellable.
func (o *Order) Cancel(ctx context.Context) error {
	if o.CancelURL == "" {
		return errors.Wrapf(robinhood.ErrNotCancellable, "order %s has no cancel action", o.ID)
	}
	return o.trader.client.PostJSON(ctx, o.CancelURL, nil, nil)
}

// Refresh re-fetches the order record in place.
func (o *Order) Refresh(ctx context.Context) error {
	fresh, err := o.trader.Order(ctx, o.ID)
	if err != nil {
		return err
	}
	o.OrderData = fresh.OrderData
	return nil
}
