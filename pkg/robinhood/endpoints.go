package robinhood

const (
	defaultAPIBase    = "https://api.robinhood.com"
	defaultCryptoBase = "https://nummus.robinhood.com"
)

// Endpoints maps logical resource names to URL strings. All methods are pure;
// the bases are only swapped out by tests.
type Endpoints struct {
	APIBase    string
	CryptoBase string
}

// DefaultEndpoints returns the production hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{APIBase: defaultAPIBase, CryptoBase: defaultCryptoBase}
}

func (e Endpoints) Login() string       { return e.APIBase + "/oauth2/token/" }
func (e Endpoints) Logout() string      { return e.APIBase + "/oauth2/revoke_token/" }
func (e Endpoints) Instruments() string { return e.APIBase + "/instruments/" }
func (e Endpoints) Quotes() string      { return e.APIBase + "/quotes/" }
func (e Endpoints) Historicals() string { return e.APIBase + "/quotes/historicals/" }
func (e Endpoints) Accounts() string    { return e.APIBase + "/accounts/" }
func (e Endpoints) Portfolios() string  { return e.APIBase + "/portfolios/" }
func (e Endpoints) Orders() string      { return e.APIBase + "/orders/" }
func (e Endpoints) Dividends() string   { return e.APIBase + "/dividends/" }

func (e Endpoints) Order(orderID string) string { return e.Orders() + orderID + "/" }

func (e Endpoints) Fundamentals(symbol string) string {
	return e.APIBase + "/fundamentals/" + symbol + "/"
}

// Crypto order routing lives on a separate host; crypto market data does not.

func (e Endpoints) CryptoAccounts() string { return e.CryptoBase + "/accounts/" }
func (e Endpoints) CryptoOrders() string   { return e.CryptoBase + "/orders/" }

func (e Endpoints) CryptoOrder(orderID string) string { return e.CryptoOrders() + orderID + "/" }

func (e Endpoints) CryptoQuote(pairID string) string {
	return e.APIBase + "/marketdata/forex/quotes/" + pairID + "/"
}
