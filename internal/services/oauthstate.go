package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	StateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
)

var ErrInvalidState = errors.New("invalid or expired oauth state")

// StateCodec signs the OAuth state into a short lived cookie so the callback
// can be checked without server side storage.
type StateCodec struct {
	sc *securecookie.SecureCookie
}

// NewStateCodec uses hashKey for signing and the optional blockKey for
// encryption. An empty hashKey gets a random per-process key.
func NewStateCodec(hashKey, blockKey []byte) *StateCodec {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if len(blockKey) == 0 {
		// a non-nil empty key would enable AES with an invalid key
		blockKey = nil
	}
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(stateTTL.Seconds()))
	return &StateCodec{sc: sc}
}

// Issue returns a fresh state value and the encoded cookie carrying it.
func (c *StateCodec) Issue() (state, cookie string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	state = base64.RawURLEncoding.EncodeToString(buf)

	cookie, err = c.sc.Encode(StateCookieName, state)
	if err != nil {
		return "", "", err
	}
	return state, cookie, nil
}

// Verify checks that cookie was issued by Issue and carries state.
func (c *StateCodec) Verify(cookie, state string) error {
	if cookie == "" || state == "" {
		return ErrInvalidState
	}
	var stored string
	if err := c.sc.Decode(StateCookieName, cookie, &stored); err != nil {
		return ErrInvalidState
	}
	if stored != state {
		return ErrInvalidState
	}
	return nil
}

// TTL is the cookie lifetime.
func (c *StateCodec) TTL() time.Duration {
	return stateTTL
}
