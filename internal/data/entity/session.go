package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the auth boundary: the engine only consumes sessions issued
// elsewhere, to resolve the acting user and role for each request.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	Role      UserRole   `db:"role"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
