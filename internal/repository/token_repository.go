package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrRefreshInvalid covers every way a refresh token can be unusable:
// unknown hash, revoked, or expired. Callers get no finer distinction so a
// stolen token leaks nothing about why it stopped working.
var ErrRefreshInvalid = errors.New("refresh token invalid")

// TokenRepo stores refresh tokens by their SHA-256 hash; raw tokens never
// touch the database.
type TokenRepo struct {
	db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// StoreRefresh records a refresh token hash for the user. Expiry is
// normalized to UTC to match how the rest of the schema stores time.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp.UTC())
	return err
}

// ValidateRefresh resolves a token hash to its user. Revoked and expired
// rows are filtered in the query itself, so there is exactly one failure
// mode: ErrRefreshInvalid.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM refresh_tokens
		 WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?
		 LIMIT 1`,
		tokenHash, time.Now().UTC()).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrRefreshInvalid
		}
		return 0, err
	}
	return userID, nil
}

// RevokeByHash revokes a single token. Revoking an unknown or already
// revoked hash is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL",
		time.Now().UTC(), tokenHash)
	return err
}

// RevokeAllForUser revokes every active token of one user, used when the
// account is deleted.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL",
		time.Now().UTC(), userID)
	return err
}
