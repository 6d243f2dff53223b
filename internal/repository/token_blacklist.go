package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type TokenBlacklistRepository interface {
	BlacklistToken(token string, userID int64, expiresAt time.Time) error
	IsBlacklisted(token string) (bool, error)
	DeleteExpired(now time.Time) (int64, error)
}

type tokenBlacklistRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTokenBlacklistRepository(db *sqlx.DB, logger *zap.Logger) TokenBlacklistRepository {
	return &tokenBlacklistRepository{db: db, logger: logger}
}

// BlacklistToken inserts a revocation entry. Revoking an already
// revoked token is a no-op: the token is blacklisted either way, so
// the unique-token conflict is not an error.
func (r *tokenBlacklistRepository) BlacklistToken(token string, userID int64, expiresAt time.Time) error {
	query := `INSERT INTO token_blacklist (token, user_id, expires_at) VALUES ($1, $2, $3)
	          ON CONFLICT (token) DO NOTHING`
	_, err := r.db.Exec(query, token, userID, expiresAt)
	return err
}

// IsBlacklisted does a point lookup by the exact bearer string.
func (r *tokenBlacklistRepository) IsBlacklisted(token string) (bool, error) {
	var id int64
	query := `SELECT id FROM token_blacklist WHERE token = $1`
	err := r.db.Get(&id, query, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *tokenBlacklistRepository) DeleteExpired(now time.Time) (int64, error) {
	query := `DELETE FROM token_blacklist WHERE expires_at < $1`
	res, err := r.db.Exec(query, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
