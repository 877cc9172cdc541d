package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "marketplace-session"

	userIDSessionKey       = "userID"
	impersonatorSessionKey = "impersonatorID"
)

type SessionStore interface {
	GetUserID(r *http.Request) string
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearUserID(w http.ResponseWriter, r *http.Request) error

	GetImpersonatorID(r *http.Request) string
	SetImpersonatorID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearImpersonatorID(w http.ResponseWriter, r *http.Request) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) (*sessions.Session, error) {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session, nil
}

func (c *CookieSessionStore) getValue(r *http.Request, key string) string {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return ""
	}
	value, ok := session.Values[key].(string)
	if !ok {
		return ""
	}
	return value
}

func (c *CookieSessionStore) setValue(w http.ResponseWriter, r *http.Request, key, value string) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values[key] = value
	return session.Save(r, w)
}

func (c *CookieSessionStore) clearValue(w http.ResponseWriter, r *http.Request, key string) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	delete(session.Values, key)
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	return c.getValue(r, userIDSessionKey)
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	return c.setValue(w, r, userIDSessionKey, userID)
}

func (c *CookieSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	return c.clearValue(w, r, userIDSessionKey)
}

func (c *CookieSessionStore) GetImpersonatorID(r *http.Request) string {
	return c.getValue(r, impersonatorSessionKey)
}

func (c *CookieSessionStore) SetImpersonatorID(w http.ResponseWriter, r *http.Request, userID string) error {
	return c.setValue(w, r, impersonatorSessionKey, userID)
}

func (c *CookieSessionStore) ClearImpersonatorID(w http.ResponseWriter, r *http.Request) error {
	return c.clearValue(w, r, impersonatorSessionKey)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
