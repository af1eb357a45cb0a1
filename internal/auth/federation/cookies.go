package federation

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	StateCookie    = "oauth2_auth_request"
	RedirectCookie = "redirect_uri"
)

// Cookies keeps the handshake between the authorization redirect and the
// callback in two short-lived cookies.
type Cookies struct {
	Sealer *Sealer
	Secure bool
}

// Save writes the sealed state and, when set, the post-login redirect
// target.
func (c *Cookies) Save(w http.ResponseWriter, st HandshakeState, redirectURI string) error {
	sealed, err := c.Sealer.Seal(st)
	if err != nil {
		return err
	}
	http.SetCookie(w, c.cookie(StateCookie, sealed, int(HandshakeTTL.Seconds())))
	if redirectURI != "" {
		http.SetCookie(w, c.cookie(RedirectCookie, url.QueryEscape(redirectURI), int(HandshakeTTL.Seconds())))
	}
	return nil
}

// Load returns the handshake state. found is false when no state cookie was
// sent; a cookie that is present but does not open yields
// ErrCookieDeserializationFailed.
func (c *Cookies) Load(r *http.Request) (st HandshakeState, found bool, err error) {
	ck, err := r.Cookie(StateCookie)
	if err != nil || ck.Value == "" {
		return HandshakeState{}, false, nil
	}
	st, err = c.Sealer.Open(ck.Value)
	if err != nil {
		return HandshakeState{}, true, err
	}
	return st, true, nil
}

// RedirectURI returns the stored redirect target, if any.
func (c *Cookies) RedirectURI(r *http.Request) string {
	ck, err := r.Cookie(RedirectCookie)
	if err != nil {
		return ""
	}
	v, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return ""
	}
	return v
}

// Clear expires both handshake cookies.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(StateCookie, "", -1))
	http.SetCookie(w, c.cookie(RedirectCookie, "", -1))
}

func (c *Cookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RedirectAllowlist holds the origins a login may hand its token to.
// Relative paths on this service are always allowed.
type RedirectAllowlist []string

func (a RedirectAllowlist) Allows(target string) bool {
	if target == "" {
		return true
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//")
	}
	origin := strings.ToLower(u.Scheme + "://" + u.Host)
	for _, allowed := range a {
		if strings.ToLower(strings.TrimRight(allowed, "/")) == origin {
			return true
		}
	}
	return false
}
