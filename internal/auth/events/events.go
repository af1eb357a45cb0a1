// Package events publishes account notifications for the user-record and
// mail collaborators. Publishing never waits for consumers.
package events

import (
	"context"
	"time"
)

// Topic names a notification stream.
type Topic string

const (
	TopicAccountCreation     Topic = "account-creation"
	TopicPasswordReset       Topic = "password-reset"
	TopicEmailChange         Topic = "email-change"
	TopicTwoFactorSecretSave Topic = "2fa-secret-save"
	TopicTwoFactorEnabled    Topic = "2fa-enabled"
	TopicAccountVerification Topic = "account-verification"
)

// Publisher emits events. Implementations must not block on delivery.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, key string, payload any) error
	Close() error
}

// Envelope is the JSON value written for every event.
type Envelope struct {
	Name       string    `json:"name"`
	Payload    any       `json:"payload"`
	Metadata   any       `json:"metadata,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AccountCreated is sent after registration; the token confirms the address.
type AccountCreated struct {
	UserID            string `json:"user_id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	VerificationToken string `json:"verification_token,omitempty"`
}

type AccountVerified struct {
	Email string `json:"email"`
}

// PasswordResetRequested carries a password_reset restricted token.
type PasswordResetRequested struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

// EmailChangeRequested carries the 4-digit code sent to the new address.
type EmailChangeRequested struct {
	CurrentEmail string `json:"current_email"`
	NewEmail     string `json:"new_email"`
	Code         string `json:"code"`
}

// TwoFactorSecretSaved tells the user-record collaborator that a fresh
// secret was provisioned; the secret itself stays in the auth store.
type TwoFactorSecretSaved struct {
	Email string `json:"email"`
}

type TwoFactorEnabled struct {
	Email string `json:"email"`
}
