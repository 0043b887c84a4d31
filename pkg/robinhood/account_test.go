package robinhood

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAccountFirstOfList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"results":[
			{"url":"https://api.example.com/accounts/A1/","account_number":"A1","buying_power":"2500.00"},
			{"url":"https://api.example.com/accounts/A2/","account_number":"A2"}
		]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	acct, err := c.Account(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if acct.AccountNumber != "A1" {
		t.Errorf("account = %q, want the first of the list", acct.AccountNumber)
	}
}

func TestAccountEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"results":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	if _, err := c.Account(context.Background()); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("err = %v, want ErrLookupFailed", err)
	}
}

func TestAccountRequiresLogin(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		writeJSON(t, w, `{"results":[]}`)
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(Endpoints{APIBase: srv.URL, CryptoBase: srv.URL}))
	for name, call := range map[string]func() error{
		"account":   func() error { _, err := c.Account(context.Background()); return err },
		"portfolio": func() error { _, err := c.Portfolio(context.Background()); return err },
		"orders":    func() error { _, err := c.OrderHistory(context.Background()); return err },
		"dividends": func() error { _, err := c.Dividends(context.Background()); return err },
	} {
		if err := call(); !errors.Is(err, ErrAuthRequired) {
			t.Errorf("%s: err = %v, want ErrAuthRequired", name, err)
		}
	}
	if hits != 0 {
		t.Errorf("unauthenticated reads made %d API calls, want 0", hits)
	}
}

func TestDividends(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(t, w, `{"results":[{"id":"d1","amount":"1.23","state":"paid"}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	divs, err := c.Dividends(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/dividends/" {
		t.Errorf("path = %q, want /dividends/", gotPath)
	}
	if len(divs) != 1 || divs[0].Amount.String() != "1.23" {
		t.Errorf("dividends = %+v", divs)
	}
}
