package robinhood

import (
	"time"

	"github.com/pkg/errors"

	"github.com/betbot/gohood/pkg/persistence"
)

// SessionState is the serializable part of an authenticated session: tokens
// and device identity only. The transport itself is never persisted.
type SessionState struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	DeviceToken  string    `json:"device_token"`
	SavedAt      time.Time `json:"saved_at"`
}

// SaveSession writes the current session state through the given store.
func (c *Client) SaveSession(store persistence.Store) error {
	if !c.IsLoggedIn() {
		return errors.Wrap(ErrAuthRequired, "no session to save")
	}
	return store.Save(SessionState{
		AccessToken:  c.auth.token,
		RefreshToken: c.auth.refreshToken,
		DeviceToken:  c.auth.deviceToken,
		SavedAt:      time.Now(),
	})
}

// RestoreSession loads a previously saved session state into the client and
// marks it authenticated. The token may of course have expired server-side;
// the first authenticated call surfaces that as a transport error.
func (c *Client) RestoreSession(store persistence.Store) error {
	var st SessionState
	if err := store.Load(&st); err != nil {
		return err
	}
	if st.AccessToken == "" {
		return errors.Wrap(ErrInvalidArgument, "session state carries no access token")
	}
	c.auth.state = AuthStateAuthenticated
	c.auth.token = st.AccessToken
	c.auth.refreshToken = st.RefreshToken
	c.auth.deviceToken = st.DeviceToken
	return nil
}
