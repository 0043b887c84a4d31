package robinhood

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderedFormKeepsDeclarationOrder(t *testing.T) {
	form := newOrderedForm()
	form.add("zebra", "1")
	form.add("alpha", "2")
	form.add("mango", "3")

	if got, want := form.Encode(), "zebra=1&alpha=2&mango=3"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestOrderedFormEscaping(t *testing.T) {
	form := newOrderedForm()
	form.add("account", "https://api.example.com/accounts/A1/")
	form.add("note", "a b&c")

	want := "account=https%3A%2F%2Fapi.example.com%2Faccounts%2FA1%2F&note=a+b%26c"
	if got := form.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestOrderedFormAddOpt(t *testing.T) {
	price := decimal.RequireFromString("100.10")
	form := newOrderedForm()
	form.add("type", "market")
	form.addOpt("price", decimalString(&price))
	form.addOpt("stop_price", decimalString(nil))
	form.add("side", "buy")

	if got, want := form.Encode(), "type=market&price=100.1&side=buy"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestOrderedFormEmpty(t *testing.T) {
	if got := newOrderedForm().Encode(); got != "" {
		t.Errorf("Encode() = %q, want empty", got)
	}
}
