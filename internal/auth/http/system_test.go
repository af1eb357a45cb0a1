package http_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
)

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var health authsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Cache)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestJWKS(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var jwks authsdk.JWKSResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jwks))
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "test-kid", jwks.Keys[0].Kid)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, `gatehouse_http_requests_total{method="GET",route="GET /livez",status="200"} 1`), body)
}

func TestSwaggerDocument(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/swagger/doc.json", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc struct {
		Swagger string `json:"swagger"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Equal(t, "2.0", doc.Swagger)
	require.Equal(t, "Gatehouse Authentication Service API", doc.Info.Title)

	for path, method := range map[string]string{
		"/auth/login":                      "post",
		"/auth/refresh":                    "put",
		"/2fa/login":                       "post",
		"/login/oauth2/code/{provider}":    "get",
		"/internal/users/{email}":          "get",
		"/oauth2/authorization/{provider}": "get",
	} {
		require.Contains(t, doc.Paths, path)
		require.Contains(t, doc.Paths[path], method, path)
	}
}
