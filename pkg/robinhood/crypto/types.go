package crypto

import "github.com/shopspring/decimal"

// Quote is a crypto pair quote snapshot.
type Quote struct {
	AskPrice  decimal.Decimal `json:"ask_price"`
	BidPrice  decimal.Decimal `json:"bid_price"`
	MarkPrice decimal.Decimal `json:"mark_price"`
	HighPrice decimal.Decimal `json:"high_price"`
	LowPrice  decimal.Decimal `json:"low_price"`
	OpenPrice decimal.Decimal `json:"open_price"`
	Volume    decimal.Decimal `json:"volume"`
	Symbol    string          `json:"symbol"`
	ID        string          `json:"id"`
}

// Account is the crypto trading account, distinct from the equity account.
type Account struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UserID       string `json:"user_id"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	StatusReason string `json:"status_reason_code"`
}

// OrderData is the venue's record of a crypto order.
type OrderData struct {
	ID             string           `json:"id"`
	AccountID      string           `json:"account_id"`
	CurrencyPairID string           `json:"currency_pair_id"`
	RefID          string           `json:"ref_id"`
	Side           string           `json:"side"`
	Type           string           `json:"type"`
	TimeInForce    string           `json:"time_in_force"`
	State          string           `json:"state"`
	Price          *decimal.Decimal `json:"price"`
	Quantity       *decimal.Decimal `json:"quantity"`
	CumQuantity    *decimal.Decimal `json:"cumulative_quantity"`
	AveragePrice   *decimal.Decimal `json:"average_price"`
	CancelURL      string           `json:"cancel_url"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
}

// orderPayload is the JSON write shape for order placement. Unset optional
// fields drop from the body entirely, matching the venue's falsy-drop
// convention for this endpoint.
type orderPayload struct {
	AccountID      string `json:"account_id,omitempty"`
	CurrencyPairID string `json:"currency_pair_id,omitempty"`
	Price          string `json:"price,omitempty"`
	Quantity       string `json:"quantity,omitempty"`
	RefID          string `json:"ref_id,omitempty"`
	Side           string `json:"side,omitempty"`
	TimeInForce    string `json:"time_in_force,omitempty"`
	Type           string `json:"type,omitempty"`
}

type listResponse[T any] struct {
	Results  []T     `json:"results"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}
