package federation_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/gatehouse/internal/auth/federation"
	"github.com/stretchr/testify/require"
)

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/login/oauth2/code/github", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestCookiesRoundTrip(t *testing.T) {
	c := &federation.Cookies{Sealer: newSealer(t), Secure: true}

	rec := httptest.NewRecorder()
	require.NoError(t, c.Save(rec, sampleState(), "https://app.example.com/done?x=1&y=2"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, ck := range cookies {
		require.Equal(t, "/", ck.Path)
		require.True(t, ck.HttpOnly)
		require.True(t, ck.Secure)
		require.Equal(t, 180, ck.MaxAge)
		require.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	}

	r := requestWith(cookies)
	st, found, err := c.Load(r)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "state-123", st.State)
	require.Equal(t, "https://app.example.com/done?x=1&y=2", c.RedirectURI(r))
}

func TestCookiesRedirectSurvivesCookieUnsafeBytes(t *testing.T) {
	c := &federation.Cookies{Sealer: newSealer(t)}
	target := `https://app.example.com/done?note="a b";c=d`

	rec := httptest.NewRecorder()
	require.NoError(t, c.Save(rec, sampleState(), target))
	require.Equal(t, target, c.RedirectURI(requestWith(rec.Result().Cookies())))
}

func TestCookiesWithoutRedirect(t *testing.T) {
	c := &federation.Cookies{Sealer: newSealer(t)}

	rec := httptest.NewRecorder()
	require.NoError(t, c.Save(rec, sampleState(), ""))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, federation.StateCookie, cookies[0].Name)
	require.Empty(t, c.RedirectURI(requestWith(cookies)))
}

func TestCookiesLoad(t *testing.T) {
	c := &federation.Cookies{Sealer: newSealer(t)}

	_, found, err := c.Load(requestWith(nil))
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = c.Load(requestWith([]*http.Cookie{{Name: federation.StateCookie, Value: "forged"}}))
	require.True(t, found)
	require.ErrorIs(t, err, federation.ErrCookieDeserializationFailed)
}

func TestCookiesClear(t *testing.T) {
	c := &federation.Cookies{Sealer: newSealer(t)}

	rec := httptest.NewRecorder()
	c.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
		require.Empty(t, ck.Value)
		require.Negative(t, ck.MaxAge)
	}
	require.True(t, names[federation.StateCookie])
	require.True(t, names[federation.RedirectCookie])
}

func TestRedirectAllowlist(t *testing.T) {
	a := federation.RedirectAllowlist{"https://app.example.com/"}

	require.True(t, a.Allows(""))
	require.True(t, a.Allows("/dashboard"))
	require.True(t, a.Allows("https://app.example.com/callback?next=1"))
	require.True(t, a.Allows("HTTPS://APP.example.com/x"))
	require.False(t, a.Allows("//evil.example.com/x"))
	require.False(t, a.Allows("https://evil.example.com/"))
	require.False(t, a.Allows("http://app.example.com/"))
	require.False(t, a.Allows("dashboard"))
}
