package robinhood

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Quote fetches the current quote for one symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	quotes, err := c.Quotes(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "no quote for %q", symbol)
	}
	return &quotes[0], nil
}

// Quotes fetches quotes for several symbols in a single call.
func (c *Client) Quotes(ctx context.Context, symbols ...string) ([]Quote, error) {
	if len(symbols) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "at least one symbol is required")
	}
	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}
	var res listResponse[Quote]
	err := c.Get(ctx, c.endpoints.Quotes(), map[string]string{
		"symbols": strings.Join(upper, ","),
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

// Instrument resolves a symbol to its unique tradable instrument. Matching
// is exact and case-insensitive; near-miss search results are skipped.
func (c *Client) Instrument(ctx context.Context, symbol string) (*Instrument, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "symbol is required")
	}
	var res listResponse[Instrument]
	err := c.Get(ctx, c.endpoints.Instruments(), map[string]string{
		"symbol": strings.ToUpper(symbol),
	}, &res)
	if err != nil {
		return nil, err
	}
	for i := range res.Results {
		if strings.EqualFold(res.Results[i].Symbol, symbol) {
			return &res.Results[i], nil
		}
	}
	return nil, errors.Wrapf(ErrInvalidArgument, "symbol %q not found", symbol)
}

// HistoricalQuotes fetches the candle series for a symbol.
//
// Valid interval/span combinations mirror the API:
// 5minute|10minute with day|week, day with year, week.
func (c *Client) HistoricalQuotes(ctx context.Context, symbol, interval, span string, bounds Bounds) (*Historicals, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "symbol is required")
	}
	if bounds == "" {
		bounds = BoundsRegular
	}
	params := map[string]string{
		"symbols":  strings.ToUpper(symbol),
		"interval": interval,
		"span":     span,
		"bounds":   string(bounds),
	}
	var res listResponse[Historicals]
	if err := c.Get(ctx, c.endpoints.Historicals(), params, &res); err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "no historicals for %q", symbol)
	}
	return &res.Results[0], nil
}

// Fundamentals fetches company statistics for a symbol.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "symbol is required")
	}
	var out Fundamentals
	if err := c.Get(ctx, c.endpoints.Fundamentals(strings.ToUpper(symbol)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
