package robinhood

import "github.com/shopspring/decimal"

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType is the order execution type.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// Trigger is the order condition class. Immediate orders execute per their
// type right away; stop orders activate once the stop price is crossed.
type Trigger string

const (
	TriggerImmediate Trigger = "immediate"
	TriggerStop      Trigger = "stop"
)

// TimeInForce is the order lifetime policy.
type TimeInForce string

const (
	TimeInForceGFD TimeInForce = "gfd" // good for day
	TimeInForceGTC TimeInForce = "gtc" // good till cancelled
)

// Bounds selects regular or extended trading hours for historical queries.
type Bounds string

const (
	BoundsRegular  Bounds = "regular"
	BoundsExtended Bounds = "extended"
)

// listResponse is the common paginated envelope of the API.
type listResponse[T any] struct {
	Results  []T    `json:"results"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// Quote is a point-in-time bid/ask snapshot for a symbol. It is only valid
// for the instant of the call and is never cached.
type Quote struct {
	Symbol                      string           `json:"symbol"`
	BidPrice                    decimal.Decimal  `json:"bid_price"`
	AskPrice                    decimal.Decimal  `json:"ask_price"`
	BidSize                     int64            `json:"bid_size"`
	AskSize                     int64            `json:"ask_size"`
	LastTradePrice              decimal.Decimal  `json:"last_trade_price"`
	LastExtendedHoursTradePrice *decimal.Decimal `json:"last_extended_hours_trade_price"`
	PreviousClose               decimal.Decimal  `json:"previous_close"`
	PreviousCloseDate           string           `json:"previous_close_date"`
	TradingHalted               bool             `json:"trading_halted"`
	UpdatedAt                   string           `json:"updated_at"`
	InstrumentURL               string           `json:"instrument"`
}

// Instrument is the tradable-instrument identity a symbol resolves to. The
// URL is the opaque resource identifier order payloads reference.
type Instrument struct {
	URL         string `json:"url"`
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	SimpleName  string `json:"simple_name"`
	Country     string `json:"country"`
	Type        string `json:"type"`
	State       string `json:"state"`
	ListDate    string `json:"list_date"`
	Tradeable   bool   `json:"tradeable"`
	MarketURL   string `json:"market"`
	QuoteURL    string `json:"quote"`
	Fundamental string `json:"fundamentals"`
}

// Account is the caller's brokerage account.
type Account struct {
	URL                   string          `json:"url"`
	AccountNumber         string          `json:"account_number"`
	Type                  string          `json:"type"`
	BuyingPower           decimal.Decimal `json:"buying_power"`
	Cash                  decimal.Decimal `json:"cash"`
	CashHeldForOrders     decimal.Decimal `json:"cash_held_for_orders"`
	UnclearedDeposits     decimal.Decimal `json:"uncleared_deposits"`
	UnsettledFunds        decimal.Decimal `json:"unsettled_funds"`
	Deactivated           bool            `json:"deactivated"`
	DepositHalted         bool            `json:"deposit_halted"`
	OnlyPositionClosing   bool            `json:"only_position_closing_trades"`
	SweepEnabled          bool            `json:"sweep_enabled"`
	WithdrawalHalted      bool            `json:"withdrawal_halted"`
	MaxACHEarlyAccess     decimal.Decimal `json:"max_ach_early_access_amount"`
	PositionsURL          string          `json:"positions"`
	PortfolioURL          string          `json:"portfolio"`
	CanDowngradeToCashURL string          `json:"can_downgrade_to_cash"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
}

// Portfolio is the account's aggregate value snapshot.
type Portfolio struct {
	URL                        string           `json:"url"`
	AccountURL                 string           `json:"account"`
	Equity                     decimal.Decimal  `json:"equity"`
	ExtendedHoursEquity        *decimal.Decimal `json:"extended_hours_equity"`
	MarketValue                decimal.Decimal  `json:"market_value"`
	ExtendedHoursMarketValue   *decimal.Decimal `json:"extended_hours_market_value"`
	LastCoreEquity             decimal.Decimal  `json:"last_core_equity"`
	LastCoreMarketValue        decimal.Decimal  `json:"last_core_market_value"`
	EquityPreviousClose        decimal.Decimal  `json:"equity_previous_close"`
	AdjustedEquityPreviousC    decimal.Decimal  `json:"adjusted_equity_previous_close"`
	ExcessMaintenance          decimal.Decimal  `json:"excess_maintenance"`
	ExcessMargin               decimal.Decimal  `json:"excess_margin"`
	WithdrawableAmount         decimal.Decimal  `json:"withdrawable_amount"`
	UnwithdrawableDeposits     decimal.Decimal  `json:"unwithdrawable_deposits"`
	StartDate                  string           `json:"start_date"`
	MarketValueUpdatedAt       string           `json:"updated_at"`
}

// Fundamentals is the per-symbol company/market statistics bundle.
type Fundamentals struct {
	Open          decimal.Decimal  `json:"open"`
	High          decimal.Decimal  `json:"high"`
	Low           decimal.Decimal  `json:"low"`
	Volume        decimal.Decimal  `json:"volume"`
	AverageVolume decimal.Decimal  `json:"average_volume"`
	High52Weeks   decimal.Decimal  `json:"high_52_weeks"`
	Low52Weeks    decimal.Decimal  `json:"low_52_weeks"`
	MarketCap     *decimal.Decimal `json:"market_cap"`
	PERatio       *decimal.Decimal `json:"pe_ratio"`
	DividendYield *decimal.Decimal `json:"dividend_yield"`
	Description   string           `json:"description"`
	InstrumentURL string           `json:"instrument"`
}

// HistoricalBar is one candle of historical quote data.
type HistoricalBar struct {
	BeginsAt     string          `json:"begins_at"`
	OpenPrice    decimal.Decimal `json:"open_price"`
	ClosePrice   decimal.Decimal `json:"close_price"`
	HighPrice    decimal.Decimal `json:"high_price"`
	LowPrice     decimal.Decimal `json:"low_price"`
	Volume       int64           `json:"volume"`
	Session      string          `json:"session"`
	Interpolated bool            `json:"interpolated"`
}

// Historicals is the historical-quote series for one symbol.
type Historicals struct {
	Symbol      string          `json:"symbol"`
	Interval    string          `json:"interval"`
	Span        string          `json:"span"`
	Bounds      Bounds          `json:"bounds"`
	OpenPrice   decimal.Decimal `json:"open_price"`
	OpenTime    string          `json:"open_time"`
	Historicals []HistoricalBar `json:"historicals"`
}

// Dividend is one dividend record for the account.
type Dividend struct {
	ID            string          `json:"id"`
	URL           string          `json:"url"`
	AccountURL    string          `json:"account"`
	InstrumentURL string          `json:"instrument"`
	Amount        decimal.Decimal `json:"amount"`
	Rate          decimal.Decimal `json:"rate"`
	Position      decimal.Decimal `json:"position"`
	Withholding   decimal.Decimal `json:"withholding"`
	RecordDate    string          `json:"record_date"`
	PayableDate   string          `json:"payable_date"`
	PaidAt        string          `json:"paid_at"`
	State         string          `json:"state"`
}

// Order is a placed (or historical) equity order as returned by the API.
// CancelURL is empty once the order reaches a terminal state.
type Order struct {
	ID                 string           `json:"id"`
	URL                string           `json:"url"`
	AccountURL         string           `json:"account"`
	InstrumentURL      string           `json:"instrument"`
	CancelURL          string           `json:"cancel"`
	Type               OrderType        `json:"type"`
	Side               Side             `json:"side"`
	TimeInForce        TimeInForce      `json:"time_in_force"`
	Trigger            Trigger          `json:"trigger"`
	Price              *decimal.Decimal `json:"price"`
	StopPrice          *decimal.Decimal `json:"stop_price"`
	Quantity           decimal.Decimal  `json:"quantity"`
	CumulativeQuantity decimal.Decimal  `json:"cumulative_quantity"`
	AveragePrice       *decimal.Decimal `json:"average_price"`
	Fees               decimal.Decimal  `json:"fees"`
	State              string           `json:"state"`
	RejectReason       string           `json:"reject_reason"`
	CreatedAt          string           `json:"created_at"`
	UpdatedAt          string           `json:"updated_at"`
}
