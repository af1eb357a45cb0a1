/*
Package authsdk provides a client SDK for the gatehouse authentication service.

# SDKClient vs Session

  - SDKClient: unauthenticated operations and the entry points that create sessions
  - Session: operations that need a bearer token, with automatic access token renewal

Sign in with a password, finishing with a TOTP code when the account has
two-factor enabled:

	client := authsdk.NewSDKClient("https://auth.example.com")

	session, err := client.AuthenticateWithPassword(ctx, "ada@example.com", "password")
	if errors.Is(err, authsdk.ErrTwoFactorRequired) {
		session, err = client.AuthenticateWithTwoFactor(ctx, "ada@example.com", otpCode)
	}

# Token Renewal

Access tokens are short lived. Before each call the Session checks the expiry
(with a 30-second buffer) and exchanges its refresh token at PUT /auth/access
when needed. The refresh token itself is only replaced by ConfirmEmailChange or
an explicit SDKClient.Refresh.

# Verifying Tokens in Other Services

	keys, err := client.KeySet(ctx)
	verifier, err := jwtx.NewVerifierRSA(keys, "gatehouse-auth")

# Internal Routes

Routes under /internal require the shared secret in the PrivateSecret header:

	client.PrivateSecret = os.Getenv("AUTH_PRIVATE_SECRET")
	creds, err := client.LookupUser(ctx, "ada@example.com")

# Error Handling

Non-success responses are returned as *APIError. Use IsCode to branch:

	if authsdk.IsCode(err, authsdk.ErrorCodeBannedUser) { ... }

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
