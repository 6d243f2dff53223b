package models

import "time"

// BlacklistedToken is a revoked bearer token. Rows are kept for the
// configured retention window and purged by the sweeper afterwards.
type BlacklistedToken struct {
	ID        int64     `db:"id"`
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
