package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the name of the login session cookie.
const SessionName = "stockroom_session"

// sessionKeyUserID is the session value carrying the authenticated user ID.
const sessionKeyUserID = "user_id"

// SessionStore issues and reads the signed login session cookie.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore builds a cookie-based session store.
//
// The secret can be any passphrase; it is SHA-256 hashed to derive a 32-byte
// signing key. It must be consistent across restarts and across servers in a
// load-balanced deployment. maxAge is the session lifetime in seconds.
// secure controls the Secure cookie flag and should be true whenever the
// service is reached over HTTPS.
func NewSessionStore(secret string, maxAge int, secure bool) *SessionStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionStore{store: store}
}

// SignIn writes the user ID into a fresh session cookie.
func (s *SessionStore) SignIn(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// A stale or tampered cookie yields an error alongside a fresh
		// session; sign-in proceeds with the fresh one.
		session, _ = s.store.New(r, SessionName)
	}
	session.Values[sessionKeyUserID] = userID.String()
	return session.Save(r, w)
}

// SignOut expires the session cookie.
func (s *SessionStore) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	session.Options.MaxAge = -1
	delete(session.Values, sessionKeyUserID)
	return session.Save(r, w)
}

// UserID extracts the authenticated user ID from the session cookie.
// Returns uuid.Nil and false for absent, expired or malformed sessions.
func (s *SessionStore) UserID(r *http.Request) (uuid.UUID, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return uuid.Nil, false
	}

	raw, ok := session.Values[sessionKeyUserID].(string)
	if !ok || raw == "" {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
