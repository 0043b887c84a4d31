package robinhood

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/betbot/gohood/pkg/logger"
)

// AuthState is the login state machine. Login starts the password-grant
// flow; when the account requires a one-time code the machine parks in
// AuthStateAwaitingMFA and SubmitMFA is the explicit re-entry transition.
type AuthState int

const (
	AuthStateAwaitingCredentials AuthState = iota
	AuthStateAwaitingMFA
	AuthStateAuthenticated
	AuthStateFailed
)

func (s AuthState) String() string {
	switch s {
	case AuthStateAwaitingCredentials:
		return "awaiting_credentials"
	case AuthStateAwaitingMFA:
		return "awaiting_mfa"
	case AuthStateAuthenticated:
		return "authenticated"
	case AuthStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// authSession holds the mutable auth state. Credentials are retained only
// between Login and SubmitMFA and cleared on every terminal transition.
type authSession struct {
	state        AuthState
	token        string
	refreshToken string
	deviceToken  string
	username     string
	password     string
}

func newAuthSession() *authSession {
	return &authSession{state: AuthStateAwaitingCredentials}
}

func (a *authSession) fail() {
	a.state = AuthStateFailed
	a.token = ""
	a.refreshToken = ""
	a.username = ""
	a.password = ""
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	MFARequired  bool   `json:"mfa_required"`
	MFAType      string `json:"mfa_type"`
}

// State returns the current auth state.
func (c *Client) State() AuthState { return c.auth.state }

// DeviceToken returns the device token used for login, generating one on
// first use. The token is stable for the lifetime of the client (and across
// restarts when the session is persisted).
func (c *Client) DeviceToken() string {
	if c.auth.deviceToken == "" {
		c.auth.deviceToken = newDeviceToken()
	}
	return c.auth.deviceToken
}

// SetDeviceToken installs a previously issued device token, e.g. one kept in
// a credential store so the API keeps recognizing this "device".
func (c *Client) SetDeviceToken(token string) { c.auth.deviceToken = token }

// Login runs the password grant. The returned state is AuthStateAuthenticated
// on success or AuthStateAwaitingMFA when a one-time code is required; in the
// latter case complete the flow with SubmitMFA.
func (c *Client) Login(ctx context.Context, username, password string) (AuthState, error) {
	if username == "" || password == "" {
		return c.auth.state, errors.Wrap(ErrInvalidArgument, "username and password are required")
	}
	form := c.loginForm(username, password)
	form.add("challenge_type", "sms")
	return c.finishLogin(ctx, username, password, form)
}

// SubmitMFA resubmits the stored credentials together with the one-time code.
// Only valid in AuthStateAwaitingMFA.
func (c *Client) SubmitMFA(ctx context.Context, code string) (AuthState, error) {
	if c.auth.state != AuthStateAwaitingMFA {
		return c.auth.state, errors.Wrapf(ErrInvalidArgument, "mfa code submitted in state %s", c.auth.state)
	}
	if code == "" {
		return c.auth.state, errors.Wrap(ErrInvalidArgument, "mfa code is required")
	}
	form := c.loginForm(c.auth.username, c.auth.password)
	form.add("mfa_code", code)
	return c.finishLogin(ctx, c.auth.username, c.auth.password, form)
}

func (c *Client) loginForm(username, password string) *orderedForm {
	form := newOrderedForm()
	form.add("username", username)
	form.add("password", password)
	form.add("grant_type", "password")
	form.add("device_token", c.DeviceToken())
	form.add("token_type", "Bearer")
	form.add("expires_in", strconv.Itoa(603995))
	form.add("scope", "internal")
	form.add("client_id", clientID)
	return form
}

func (c *Client) finishLogin(ctx context.Context, username, password string, form *orderedForm) (AuthState, error) {
	var res loginResponse
	if err := c.postForm(ctx, c.endpoints.Login(), form, &res); err != nil {
		c.auth.fail()
		return AuthStateFailed, err
	}

	if res.MFARequired {
		c.auth.state = AuthStateAwaitingMFA
		c.auth.username = username
		c.auth.password = password
		logger.Infof("[robinhood] mfa required (type=%s)", res.MFAType)
		return AuthStateAwaitingMFA, nil
	}

	if res.AccessToken == "" || res.RefreshToken == "" {
		c.auth.fail()
		return AuthStateFailed, errors.New("login response carries no tokens")
	}

	c.auth.state = AuthStateAuthenticated
	c.auth.token = res.AccessToken
	c.auth.refreshToken = res.RefreshToken
	c.auth.username = ""
	c.auth.password = ""
	logger.Infof("[robinhood] logged in, token expires in %ds", res.ExpiresIn)
	return AuthStateAuthenticated, nil
}

// Refresh trades the refresh token for a fresh bearer token.
func (c *Client) Refresh(ctx context.Context) error {
	if c.auth.refreshToken == "" {
		return errors.Wrap(ErrAuthRequired, "no refresh token held")
	}
	form := newOrderedForm()
	form.add("grant_type", "refresh_token")
	form.add("refresh_token", c.auth.refreshToken)
	form.add("scope", "internal")
	form.add("client_id", clientID)
	form.add("device_token", c.DeviceToken())

	var res loginResponse
	if err := c.postForm(ctx, c.endpoints.Login(), form, &res); err != nil {
		return err
	}
	if res.AccessToken == "" {
		return errors.New("refresh response carries no access token")
	}
	c.auth.state = AuthStateAuthenticated
	c.auth.token = res.AccessToken
	if res.RefreshToken != "" {
		c.auth.refreshToken = res.RefreshToken
	}
	return nil
}

// Logout revokes the refresh token and drops all token state. The device
// token survives so a later login reuses the same device identity.
func (c *Client) Logout(ctx context.Context) error {
	form := newOrderedForm()
	form.add("client_id", clientID)
	form.add("token", c.auth.refreshToken)

	err := c.postForm(ctx, c.endpoints.Logout(), form, nil)
	if err != nil {
		logger.Warnf("[robinhood] logout: %v", err)
	}
	c.auth.state = AuthStateAwaitingCredentials
	c.auth.token = ""
	c.auth.refreshToken = ""
	c.auth.username = ""
	c.auth.password = ""
	return err
}

func newDeviceToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
