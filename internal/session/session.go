// Package session owns the operator's token. Begin and End are the only
// writers; everything else reads the derived Session.
package session

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	CookieName = "token"
	FlashName  = "flash"
	localsKey  = "session"
)

// Session is a read-only view of the current token.
type Session struct {
	token string
}

func (s Session) Token() string { return s.token }

// Valid reports whether a token is present. Expiry is not checked.
func (s Session) Valid() bool { return s.token != "" }

// Owner is a stable, non-reversible key for data stored on behalf of this
// session.
func (s Session) Owner() string {
	if s.token == "" {
		return ""
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.token)).String()
}

type Manager struct {
	Secure bool
	MaxAge time.Duration
}

func NewManager(secure bool) *Manager {
	return &Manager{Secure: secure, MaxAge: 24 * time.Hour}
}

func (m *Manager) cookie(name, value string, maxAge int, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   m.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// Begin stores token for the rest of this request and in the response cookie.
func (m *Manager) Begin(c *fiber.Ctx, token string) Session {
	s := Session{token: token}
	c.Cookie(m.cookie(CookieName, token, int(m.MaxAge.Seconds()), time.Time{}))
	c.Locals(localsKey, s)
	return s
}

// End clears the cookie and the derived Session, returning what was cleared.
func (m *Manager) End(c *fiber.Ctx) Session {
	prev := m.Load(c)
	c.Cookie(m.cookie(CookieName, "", -1, time.Unix(0, 0)))
	c.Locals(localsKey, Session{})
	return prev
}

// Load returns the Session for this request, reading the cookie once.
func (m *Manager) Load(c *fiber.Ctx) Session {
	if s, ok := c.Locals(localsKey).(Session); ok {
		return s
	}
	s := Session{token: strings.TrimSpace(c.Cookies(CookieName))}
	c.Locals(localsKey, s)
	return s
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Kind    string
	Message string
}

func (m *Manager) SetFlash(c *fiber.Ctx, kind, message string) {
	value := url.QueryEscape(kind + "|" + message)
	c.Cookie(m.cookie(FlashName, value, 60, time.Time{}))
}

// PopFlash returns the pending flash and clears it.
func (m *Manager) PopFlash(c *fiber.Ctx) (Flash, bool) {
	raw := c.Cookies(FlashName)
	if raw == "" {
		return Flash{}, false
	}
	c.Cookie(m.cookie(FlashName, "", -1, time.Unix(0, 0)))
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return Flash{}, false
	}
	kind, message, ok := strings.Cut(decoded, "|")
	if !ok || message == "" {
		return Flash{}, false
	}
	return Flash{Kind: kind, Message: message}, true
}
