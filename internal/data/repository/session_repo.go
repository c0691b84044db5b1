package repository

import (
	"context"
	"fmt"

	"service-marketplace/internal/data/entity"
	"service-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	// FindValidByToken returns nil when the token is unknown, expired or revoked.
	FindValidByToken(ctx context.Context, token uuid.UUID) (*entity.Session, error)
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) FindValidByToken(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	query := `
		SELECT id, user_id, token, role, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.Role,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session by token", zap.Error(err))
		return nil, fmt.Errorf("find session by token: %w", err)
	}

	return &session, nil
}
