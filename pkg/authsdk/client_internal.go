package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// LookupUser fetches a user's credential record from the internal route.
// The client's PrivateSecret must be set.
func (c *SDKClient) LookupUser(ctx context.Context, email string) (*UserCredentials, error) {
	if c.PrivateSecret == "" {
		return nil, errors.New("authsdk: PrivateSecret is not configured")
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/internal/users/"+url.PathEscape(email), nil, map[string]string{
		PrivateSecretHeader: c.PrivateSecret,
	})
	if err != nil {
		return nil, err
	}

	var creds UserCredentials
	if err := decodeJSON(resp, &creds, http.StatusOK); err != nil {
		return nil, err
	}
	return &creds, nil
}
