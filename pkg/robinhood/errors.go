package robinhood

import "errors"

// Validation and lookup failures fall into a small fixed taxonomy so callers
// can branch with errors.Is. Transport and HTTP failures are surfaced as-is,
// without translation.
var (
	// ErrInvalidArgument marks a malformed or contradictory order
	// specification, or any other bad input.
	ErrInvalidArgument = errors.New("robinhood: invalid argument")

	// ErrAuthRequired marks an operation that needs an authenticated session.
	ErrAuthRequired = errors.New("robinhood: authentication required")

	// ErrNotFound marks a symbol, instrument or currency pair that could not
	// be resolved.
	ErrNotFound = errors.New("robinhood: not found")

	// ErrLookupFailed marks a dependent read that failed, e.g. fetching an
	// order before cancelling it.
	ErrLookupFailed = errors.New("robinhood: lookup failed")

	// ErrNotCancellable marks an order with no cancel action left.
	ErrNotCancellable = errors.New("robinhood: order not cancellable")
)
