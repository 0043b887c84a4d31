package crypto

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/betbot/gohood/pkg/robinhood"
)

// Pair identifies a tradable currency pair on the crypto venue. The ids are
// venue-assigned and stable; price precision is the number of decimal places
// the venue accepts for a limit price on that pair.
type Pair struct {
	Symbol         string
	ID             string
	PricePrecision int32
}

var pairs = map[string]Pair{
	"BTC":  {Symbol: "BTC", ID: "3d961844-d360-45fc-989b-f6fca761d511", PricePrecision: 2},
	"ETH":  {Symbol: "ETH", ID: "76637d50-c702-4ed1-bcb5-5b0732a81f48", PricePrecision: 2},
	"ETC":  {Symbol: "ETC", ID: "7b577ce3-489d-4269-9408-796a0d1abb3a", PricePrecision: 2},
	"BCH":  {Symbol: "BCH", ID: "2f2b77c4-e426-4271-ae49-18d5cb296d3a", PricePrecision: 2},
	"BSV":  {Symbol: "BSV", ID: "086a8f9f-6c39-43fa-ac9f-57952f4a1ba6", PricePrecision: 2},
	"LTC":  {Symbol: "LTC", ID: "383280b1-ff53-43fc-9c84-f01afd0989cd", PricePrecision: 2},
	"DOGE": {Symbol: "DOGE", ID: "1ef78e1b-049b-4f12-90e5-555dcf2fe204", PricePrecision: 6},
}

// LookupPair resolves a currency symbol like "BTC" (case-insensitive) to its
// venue pair. Unknown symbols are ErrNotFound.
func LookupPair(symbol string) (Pair, error) {
	p, ok := pairs[strings.ToUpper(symbol)]
	if !ok {
		return Pair{}, errors.Wrapf(robinhood.ErrNotFound, "unknown currency pair %q", symbol)
	}
	return p, nil
}

// Pairs lists every supported currency symbol.
func Pairs() []string {
	out := make([]string, 0, len(pairs))
	for sym := range pairs {
		out = append(out, sym)
	}
	return out
}
