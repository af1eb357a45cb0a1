package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/cache"
	"github.com/aussiebroadwan/gatehouse/internal/auth/domain"
	"github.com/aussiebroadwan/gatehouse/internal/auth/events"
	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// ChallengeTTL is how long a password-verified login waits for its OTP.
const ChallengeTTL = 5 * time.Minute

// DefaultQRURLTemplate renders the otpauth URI through an external QR service.
const DefaultQRURLTemplate = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=%s"

type TwoFactorService struct {
	Store    store.Store
	Cache    cache.Cache
	Events   events.Publisher
	Sessions *SessionService
	Metrics  *metrics.Metrics

	Issuer        string // TOTP issuer label
	QRURLTemplate string // fmt template with one %s for the escaped URI

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TwoFactorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Setup provisions a new TOTP secret. It does NOT enable two-factor login
// yet; the caller must prove possession with Enable.
func (s *TwoFactorService) Setup(ctx context.Context, subject string) (domain.TwoFactorSetup, error) {
	u, err := lookupUser(ctx, s.Store.Users(), subject)
	if err != nil {
		return domain.TwoFactorSetup{}, err
	}
	if u.Banned {
		return domain.TwoFactorSetup{}, ErrBannedUser
	}
	if !u.Verified {
		return domain.TwoFactorSetup{}, ErrUnverifiedUser
	}
	if u.TwoFactorEnabled {
		return domain.TwoFactorSetup{}, ErrTwoFactorAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: u.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.Store.Users().UpdateTwoFactorSecret(ctx, u.ID, key.Secret()); err != nil {
		return domain.TwoFactorSetup{}, fmt.Errorf("store totp secret: %w", err)
	}
	publish(ctx, s.Events, s.Metrics, events.TopicTwoFactorSecretSave, u.Email,
		events.TwoFactorSecretSaved{Email: u.Email})

	tmpl := s.QRURLTemplate
	if tmpl == "" {
		tmpl = DefaultQRURLTemplate
	}
	return domain.TwoFactorSetup{
		OTPAuthURL: key.URL(),
		QRCodeURL:  fmt.Sprintf(tmpl, url.QueryEscape(key.URL())),
	}, nil
}

// VerifyCode checks code against the subject's current TOTP window.
func (s *TwoFactorService) VerifyCode(ctx context.Context, subject, code string) error {
	u, err := lookupUser(ctx, s.Store.Users(), subject)
	if err != nil {
		return err
	}
	return s.verify(u, code)
}

func (s *TwoFactorService) verify(u domain.User, code string) error {
	if !u.HasTwoFactorSecret() {
		return ErrInvalidOtp
	}

	code = strings.TrimSpace(code)
	// Numeric inputs sometimes lose their leading zero
	if len(code) == 5 {
		code = "0" + code
	}

	ok, err := totp.ValidateCustom(code, *u.TwoFactorSecret, s.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		return ErrInvalidOtp
	}
	return nil
}

// Enable turns on two-factor login once the user proves they hold the secret.
func (s *TwoFactorService) Enable(ctx context.Context, subject, code string) error {
	u, err := lookupUser(ctx, s.Store.Users(), subject)
	if err != nil {
		return err
	}
	if err := s.verify(u, code); err != nil {
		return err
	}
	if err := s.Store.Users().EnableTwoFactor(ctx, u.ID); err != nil {
		return fmt.Errorf("enable two-factor: %w", err)
	}
	publish(ctx, s.Events, s.Metrics, events.TopicTwoFactorEnabled, u.Email,
		events.TwoFactorEnabled{Email: u.Email})
	return nil
}

// BeginChallenge records that subject passed the password step and now owes
// an OTP. The marker expires after ChallengeTTL.
func (s *TwoFactorService) BeginChallenge(ctx context.Context, subject string) error {
	if err := s.Cache.Set(ctx, cache.PrefixTwoFactor+normalizeEmail(subject), "", ChallengeTTL); err != nil {
		return fmt.Errorf("begin two-factor challenge: %w", err)
	}
	return nil
}

// LoginSecondFactor completes a pending challenge. The marker is consumed on
// success, so a replay fails with ErrTwoFactorNotRequired.
func (s *TwoFactorService) LoginSecondFactor(ctx context.Context, subject, code string) (*domain.TokenPair, error) {
	key := cache.PrefixTwoFactor + normalizeEmail(subject)

	pending, err := s.Cache.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check two-factor challenge: %w", err)
	}
	if !pending {
		return nil, ErrTwoFactorNotRequired
	}

	u, err := lookupUser(ctx, s.Store.Users(), subject)
	if err != nil {
		return nil, err
	}
	if u.Banned {
		return nil, ErrBannedUser
	}
	if err := s.verify(u, code); err != nil {
		return nil, err
	}

	if err := s.Cache.Delete(ctx, key); err != nil && !errors.Is(err, cache.ErrNotFound) {
		return nil, fmt.Errorf("consume two-factor challenge: %w", err)
	}
	return s.Sessions.IssuePair(ctx, u.Email)
}
