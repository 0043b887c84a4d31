package robinhood

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// fakeOAuth scripts the token endpoint: responses are served in order.
type fakeOAuth struct {
	srv       *httptest.Server
	responses []string
	bodies    []string
	revokes   int
}

func newFakeOAuth(t *testing.T, responses ...string) *fakeOAuth {
	t.Helper()
	fo := &fakeOAuth{responses: responses}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fo.bodies = append(fo.bodies, string(body))
		if len(fo.responses) == 0 {
			t.Error("unexpected token request")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		next := fo.responses[0]
		fo.responses = fo.responses[1:]
		if next == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"invalid credentials"}`))
			return
		}
		writeJSON(t, w, next)
	})
	mux.HandleFunc("/oauth2/revoke_token/", func(w http.ResponseWriter, r *http.Request) {
		fo.revokes++
		writeJSON(t, w, `{}`)
	})
	fo.srv = httptest.NewServer(mux)
	t.Cleanup(fo.srv.Close)
	return fo
}

func (fo *fakeOAuth) lastForm(t *testing.T) url.Values {
	t.Helper()
	if len(fo.bodies) == 0 {
		t.Fatal("no token request captured")
	}
	vals, err := url.ParseQuery(fo.bodies[len(fo.bodies)-1])
	if err != nil {
		t.Fatal(err)
	}
	return vals
}

func newAuthTestClient(srv *httptest.Server) *Client {
	return NewClient(WithEndpoints(Endpoints{APIBase: srv.URL, CryptoBase: srv.URL}))
}

func TestLoginSuccess(t *testing.T) {
	fo := newFakeOAuth(t, `{"access_token":"at-1","refresh_token":"rt-1","expires_in":603995}`)
	c := newAuthTestClient(fo.srv)

	state, err := c.Login(context.Background(), "user@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if state != AuthStateAuthenticated {
		t.Fatalf("state = %s", state)
	}
	if !c.IsLoggedIn() {
		t.Error("client should report logged in")
	}

	vals := fo.lastForm(t)
	for k, want := range map[string]string{
		"username":       "user@example.com",
		"password":       "hunter2",
		"grant_type":     "password",
		"token_type":     "Bearer",
		"expires_in":     "603995",
		"scope":          "internal",
		"client_id":      clientID,
		"challenge_type": "sms",
	} {
		if got := vals.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if vals.Get("device_token") != c.DeviceToken() {
		t.Error("device_token mismatch")
	}
	if vals.Has("mfa_code") {
		t.Error("first login attempt must not carry mfa_code")
	}
}

func TestLoginMFAFlow(t *testing.T) {
	fo := newFakeOAuth(t,
		`{"mfa_required":true,"mfa_type":"sms"}`,
		`{"access_token":"at-1","refresh_token":"rt-1"}`,
	)
	c := newAuthTestClient(fo.srv)

	state, err := c.Login(context.Background(), "user@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if state != AuthStateAwaitingMFA {
		t.Fatalf("state = %s, want awaiting_mfa", state)
	}
	if c.IsLoggedIn() {
		t.Error("client must not report logged in while awaiting mfa")
	}

	state, err = c.SubmitMFA(context.Background(), "123456")
	if err != nil {
		t.Fatal(err)
	}
	if state != AuthStateAuthenticated {
		t.Fatalf("state = %s", state)
	}

	vals := fo.lastForm(t)
	if got := vals.Get("mfa_code"); got != "123456" {
		t.Errorf("mfa_code = %q", got)
	}
	// Credentials are resubmitted alongside the code.
	if got := vals.Get("username"); got != "user@example.com" {
		t.Errorf("username = %q", got)
	}
	// Both attempts present the same device identity.
	first, _ := url.ParseQuery(fo.bodies[0])
	if first.Get("device_token") != vals.Get("device_token") {
		t.Error("device_token changed between login and mfa submit")
	}
}

func TestLoginFailure(t *testing.T) {
	fo := newFakeOAuth(t, "") // scripted 401
	c := newAuthTestClient(fo.srv)

	state, err := c.Login(context.Background(), "user@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if state != AuthStateFailed {
		t.Fatalf("state = %s, want failed", state)
	}
	if c.IsLoggedIn() {
		t.Error("failed login must not leave a usable session")
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	fo := newFakeOAuth(t)
	c := newAuthTestClient(fo.srv)

	if _, err := c.Login(context.Background(), "", "pw"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if len(fo.bodies) != 0 {
		t.Error("no request should reach the wire")
	}
}

func TestSubmitMFAWrongState(t *testing.T) {
	fo := newFakeOAuth(t)
	c := newAuthTestClient(fo.srv)

	if _, err := c.SubmitMFA(context.Background(), "123456"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestLoginNoTokens(t *testing.T) {
	fo := newFakeOAuth(t, `{}`)
	c := newAuthTestClient(fo.srv)

	state, err := c.Login(context.Background(), "user@example.com", "hunter2")
	if err == nil {
		t.Fatal("expected error for tokenless response")
	}
	if state != AuthStateFailed {
		t.Fatalf("state = %s, want failed", state)
	}
}

func TestRefresh(t *testing.T) {
	fo := newFakeOAuth(t,
		`{"access_token":"at-1","refresh_token":"rt-1"}`,
		`{"access_token":"at-2","refresh_token":"rt-2"}`,
	)
	c := newAuthTestClient(fo.srv)

	if _, err := c.Login(context.Background(), "user@example.com", "hunter2"); err != nil {
		t.Fatal(err)
	}
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	vals := fo.lastForm(t)
	if got := vals.Get("grant_type"); got != "refresh_token" {
		t.Errorf("grant_type = %q", got)
	}
	if got := vals.Get("refresh_token"); got != "rt-1" {
		t.Errorf("refresh_token = %q", got)
	}
	if c.auth.token != "at-2" || c.auth.refreshToken != "rt-2" {
		t.Error("tokens not rotated")
	}
}

func TestRefreshWithoutToken(t *testing.T) {
	fo := newFakeOAuth(t)
	c := newAuthTestClient(fo.srv)

	if err := c.Refresh(context.Background()); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
}

func TestLogout(t *testing.T) {
	fo := newFakeOAuth(t, `{"access_token":"at-1","refresh_token":"rt-1"}`)
	c := newAuthTestClient(fo.srv)

	if _, err := c.Login(context.Background(), "user@example.com", "hunter2"); err != nil {
		t.Fatal(err)
	}
	device := c.DeviceToken()
	if err := c.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if fo.revokes != 1 {
		t.Errorf("revoke endpoint hit %d times", fo.revokes)
	}
	if c.IsLoggedIn() {
		t.Error("client still logged in after logout")
	}
	if c.State() != AuthStateAwaitingCredentials {
		t.Errorf("state = %s", c.State())
	}
	if c.DeviceToken() != device {
		t.Error("device token must survive logout")
	}
}

func TestDeviceToken(t *testing.T) {
	c := NewClient()
	token := c.DeviceToken()
	if len(token) != 32 {
		t.Fatalf("device token length = %d, want 32", len(token))
	}
	for _, r := range token {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("device token %q is not lowercase hex", token)
		}
	}
	if c.DeviceToken() != token {
		t.Error("device token must be stable per client")
	}

	c2 := NewClient()
	c2.SetDeviceToken("feedface00000000000000000000cafe")
	if c2.DeviceToken() != "feedface00000000000000000000cafe" {
		t.Error("installed device token not used")
	}
}
