package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/domain"
	"github.com/aussiebroadwan/gatehouse/internal/auth/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, username, password_hash, avatar_url, auth_provider,
	verified, banned, two_factor_enabled, two_factor_secret, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u      domain.User
		secret sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.AvatarURL, &u.AuthProvider,
		&u.Verified, &u.Banned, &u.TwoFactorEnabled, &secret, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.TwoFactorSecret = mapNullStringPtr(secret)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, normalizeEmail(email)))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if u.AuthProvider == "" {
		u.AuthProvider = domain.ProviderLocal
	}

	var secret sql.NullString
	if u.TwoFactorSecret != nil {
		secret = stringToNullString(*u.TwoFactorSecret)
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, normalizeEmail(u.Email), u.Username, u.PasswordHash, u.AvatarURL, u.AuthProvider,
		u.Verified, u.Banned, u.TwoFactorEnabled, secret, u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateEmail(ctx context.Context, userID, newEmail string) error {
	return r.exec(ctx, `UPDATE users SET email = ?, updated_at = ? WHERE id = ?`,
		normalizeEmail(newEmail), time.Now().UTC(), userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) MarkVerified(ctx context.Context, userID string) error {
	return r.exec(ctx, `UPDATE users SET verified = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetBanned(ctx context.Context, userID string, banned bool) error {
	return r.exec(ctx, `UPDATE users SET banned = ?, updated_at = ? WHERE id = ?`,
		banned, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdateTwoFactorSecret(ctx context.Context, userID, secret string) error {
	return r.exec(ctx, `UPDATE users SET two_factor_secret = ?, updated_at = ? WHERE id = ?`,
		stringToNullString(secret), time.Now().UTC(), userID)
}

func (r *usersRepo) EnableTwoFactor(ctx context.Context, userID string) error {
	return r.exec(ctx, `UPDATE users SET two_factor_enabled = 1, updated_at = ?
		WHERE id = ? AND two_factor_secret IS NOT NULL`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = ?`, userID)
}

// exec runs a single-row mutation, reporting ErrNotFound when nothing matched.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
