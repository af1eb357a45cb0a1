package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/domain"
	"github.com/aussiebroadwan/gatehouse/internal/auth/events"
	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store"
	"github.com/aussiebroadwan/gatehouse/pkg/cryptox"
	"github.com/aussiebroadwan/gatehouse/pkg/httpx"
	"github.com/aussiebroadwan/gatehouse/pkg/idx"
	"github.com/aussiebroadwan/gatehouse/pkg/jwtx"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

const (
	// MinPasswordLength applies to registration and password resets.
	MinPasswordLength = 8

	// EmailChangeTTL bounds how long a change-email code can be redeemed.
	EmailChangeTTL = time.Hour
)

// AccountService owns the local-account flows: registration, password
// login, email confirmation, email change and password reset.
type AccountService struct {
	Store       store.Store
	Cache       cache.Cache
	Events      events.Publisher
	Tokens      *TokenIssuer
	Sessions    *SessionService
	TwoFactor   *TwoFactorService
	Revocations *Revocations
	Metrics     *metrics.Metrics

	// VerificationTTL is the lifetime of confirmation and reset tokens.
	VerificationTTL time.Duration
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates a local account and signs the new user in. An email
// confirmation token travels with the account-creation event.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.TokenPair, error) {
	email, err := parseEmail(in.Email)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || len(in.Password) < MinPasswordLength {
		return nil, ErrInvalidRequest
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	verification, err := s.Tokens.IssueFor(email, s.VerificationTTL, map[string]bool{jwtx.ExtVerification: true})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, s.Metrics, events.TopicAccountCreation, email, events.AccountCreated{
		UserID:            u.ID,
		Email:             email,
		Username:          username,
		VerificationToken: verification,
	})

	slogx.FromContext(ctx).Info("account registered", "user_id", u.ID)
	return s.Sessions.IssuePair(ctx, email)
}

// Login checks a password. Accounts with two-factor enabled get a pending
// challenge instead of tokens.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		cryptox.BurnPasswordCheck(password)
		s.Metrics.Login(metrics.LoginFailure)
		return domain.LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	// Federated accounts have no password to check.
	if u.PasswordHash == "" || cryptox.VerifyPassword(password, u.PasswordHash) != nil {
		s.Metrics.Login(metrics.LoginFailure)
		return domain.LoginResult{}, ErrInvalidCredentials
	}
	if u.Banned {
		s.Metrics.Login(metrics.LoginFailure)
		return domain.LoginResult{}, ErrBannedUser
	}

	if u.TwoFactorEnabled {
		if err := s.TwoFactor.BeginChallenge(ctx, u.Email); err != nil {
			return domain.LoginResult{}, err
		}
		s.Metrics.Login(metrics.LoginTwoFactor)
		return domain.LoginResult{TwoFactorRequired: true}, nil
	}

	pair, err := s.Sessions.IssuePair(ctx, u.Email)
	if err != nil {
		return domain.LoginResult{}, err
	}
	s.Metrics.Login(metrics.LoginSuccess)
	return domain.LoginResult{Tokens: pair}, nil
}

// ConfirmEmail redeems a verification token. The token is single use: it is
// revoked once the account is marked verified.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) (*domain.TokenPair, error) {
	token = strings.TrimSpace(token)
	claims, err := s.restrictedClaims(ctx, token, jwtx.ExtVerification)
	if err != nil {
		return nil, err
	}

	u, err := lookupUser(ctx, s.Store.Users(), claims.Subject)
	if err != nil {
		return nil, err
	}
	if u.Banned {
		return nil, ErrBannedUser
	}

	if err := s.Store.Users().MarkVerified(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	if err := s.Revocations.Revoke(ctx, token); err != nil {
		return nil, err
	}
	publish(ctx, s.Events, s.Metrics, events.TopicAccountVerification, u.Email,
		events.AccountVerified{Email: u.Email})

	return s.Sessions.IssuePair(ctx, u.Email)
}

// RequestEmailChange sends a 4-digit code to newEmail. Only one pending
// request per target address may exist at a time.
func (s *AccountService) RequestEmailChange(ctx context.Context, p httpx.Principal, newEmail string) error {
	target, err := parseEmail(newEmail)
	if err != nil {
		return err
	}

	u, err := lookupUser(ctx, s.Store.Users(), p.Subject)
	if err != nil {
		return err
	}
	if u.Banned {
		return ErrBannedUser
	}
	if target == u.Email {
		return ErrInvalidRequest
	}

	_, err = s.Store.Users().GetUserByEmail(ctx, target)
	switch {
	case err == nil:
		return ErrUserAlreadyExists
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("load user: %w", err)
	}

	key := cache.PrefixEmailChange + target
	pending, err := s.Cache.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check email change: %w", err)
	}
	if pending {
		return ErrUserAlreadyExists
	}

	n, err := cryptox.RandomInt(1000, 9999)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	code := strconv.Itoa(n)

	if err := s.Cache.Set(ctx, key, code+"|"+u.Email, EmailChangeTTL); err != nil {
		return fmt.Errorf("store email change: %w", err)
	}
	publish(ctx, s.Events, s.Metrics, events.TopicEmailChange, u.Email, events.EmailChangeRequested{
		CurrentEmail: u.Email,
		NewEmail:     target,
		Code:         code,
	})
	return nil
}

// ConfirmEmailChange moves the caller's account to newEmail. The access
// token used for the call is revoked and a pair for the new subject issued.
func (s *AccountService) ConfirmEmailChange(ctx context.Context, p httpx.Principal, newEmail, code string) (*domain.TokenPair, error) {
	target := normalizeEmail(newEmail)
	key := cache.PrefixEmailChange + target

	stored, err := s.Cache.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrInvalidVerificationCode
	}
	if err != nil {
		return nil, fmt.Errorf("load email change: %w", err)
	}

	wantCode, owner, _ := strings.Cut(stored, "|")
	if wantCode != strings.TrimSpace(code) || owner != normalizeEmail(p.Subject) {
		return nil, ErrInvalidVerificationCode
	}

	u, err := lookupUser(ctx, s.Store.Users(), p.Subject)
	if err != nil {
		return nil, err
	}
	if u.Banned {
		return nil, ErrBannedUser
	}

	if err := s.Store.Users().UpdateEmail(ctx, u.ID, target); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("update email: %w", err)
	}
	if err := s.Cache.Delete(ctx, key); err != nil && !errors.Is(err, cache.ErrNotFound) {
		slogx.FromContext(ctx).Warn("email change marker not cleared", "err", err)
	}
	if err := s.Revocations.Revoke(ctx, p.Token); err != nil {
		return nil, err
	}

	return s.Sessions.IssuePair(ctx, target)
}

// ForgotPassword emits a password-reset event carrying a restricted token.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	u, err := lookupUser(ctx, s.Store.Users(), email)
	if err != nil {
		return err
	}
	if u.Banned {
		return ErrBannedUser
	}
	if u.AuthProvider != domain.ProviderLocal {
		return ErrProviderMismatch
	}

	token, err := s.Tokens.IssueFor(u.Email, s.VerificationTTL, map[string]bool{jwtx.ExtPasswordReset: true})
	if err != nil {
		return err
	}
	publish(ctx, s.Events, s.Metrics, events.TopicPasswordReset, u.Email, events.PasswordResetRequested{
		Email:      u.Email,
		ResetToken: token,
	})
	return nil
}

// ResetPassword redeems a reset token. The reset token and, when the caller
// also presented one, their bearer token are revoked.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword, bearer string) error {
	token = strings.TrimSpace(token)
	claims, err := s.restrictedClaims(ctx, token, jwtx.ExtPasswordReset)
	if err != nil {
		return err
	}
	if len(newPassword) < MinPasswordLength {
		return ErrInvalidRequest
	}

	u, err := lookupUser(ctx, s.Store.Users(), claims.Subject)
	if err != nil {
		return err
	}
	if u.Banned {
		return ErrBannedUser
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.Revocations.Revoke(ctx, token); err != nil {
		return err
	}
	if bearer != "" {
		if err := s.Revocations.Revoke(ctx, bearer); err != nil {
			return err
		}
	}
	return nil
}

// Credentials returns the internal lookup projection for email.
func (s *AccountService) Credentials(ctx context.Context, email string) (domain.UserCredentials, error) {
	u, err := lookupUser(ctx, s.Store.Users(), email)
	if err != nil {
		return domain.UserCredentials{}, err
	}
	return u.Credentials(), nil
}

// restrictedClaims verifies a purpose-restricted token carrying ext and
// checks it has not already been redeemed.
func (s *AccountService) restrictedClaims(ctx context.Context, token, ext string) (jwtx.Claims, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if !claims.Extension(ext) {
		return jwtx.Claims{}, ErrTokenMalformed
	}
	revoked, err := s.Revocations.IsRevokedID(ctx, claims.ID)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if revoked {
		return jwtx.Claims{}, ErrTokenRevoked
	}
	return claims, nil
}

func parseEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidRequest
	}
	return normalizeEmail(addr.Address), nil
}
