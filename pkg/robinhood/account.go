package robinhood

import (
	"context"

	"github.com/pkg/errors"
)

// Account returns the caller's brokerage account. Requires login.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	var res listResponse[Account]
	if err := c.Get(ctx, c.endpoints.Accounts(), nil, &res); err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, errors.Wrap(ErrLookupFailed, "account list is empty")
	}
	return &res.Results[0], nil
}

// Portfolio returns the account's aggregate value snapshot.
func (c *Client) Portfolio(ctx context.Context) (*Portfolio, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	var res listResponse[Portfolio]
	if err := c.Get(ctx, c.endpoints.Portfolios(), nil, &res); err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, errors.Wrap(ErrLookupFailed, "portfolio list is empty")
	}
	return &res.Results[0], nil
}

// OrderHistory returns the account's equity orders, most recent first.
func (c *Client) OrderHistory(ctx context.Context) ([]Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	var res listResponse[Order]
	if err := c.Get(ctx, c.endpoints.Orders(), nil, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "order id is required")
	}
	var out Order
	if err := c.Get(ctx, c.endpoints.Order(orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dividends returns the account's dividend records.
func (c *Client) Dividends(ctx context.Context) ([]Dividend, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	var res listResponse[Dividend]
	if err := c.Get(ctx, c.endpoints.Dividends(), nil, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}
