package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type postgresSessionRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresSessionRepository(db *sql.DB, logger *logrus.Logger) domain.SessionRepository {
	return &postgresSessionRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresSessionRepository) CreateSession(session *domain.Session) error {
	query := `
        INSERT INTO sessions (token, user_id, expires_at)
        VALUES ($1, $2, $3)
        RETURNING created_at`
	err := r.db.QueryRow(query, session.Token, session.UserID, session.ExpiresAt).Scan(&session.CreatedAt)
	if err != nil {
		r.log.Errorf("Failed to create session for user %d: %v", session.UserID, err)
		return fmt.Errorf("could not create session: %w", err)
	}
	r.log.Infof("Session created for user %d", session.UserID)
	return nil
}

func (r *postgresSessionRepository) GetSession(token string) (*domain.Session, error) {
	session := &domain.Session{}
	query := `SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`
	err := r.db.QueryRow(query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %w", domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get session: %v", err)
		return nil, fmt.Errorf("could not retrieve session: %w", err)
	}
	return session, nil
}

func (r *postgresSessionRepository) DeleteSessionsForUser(userID int64) error {
	if _, err := r.db.Exec(`DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		r.log.Errorf("Failed to delete sessions for user %d: %v", userID, err)
		return fmt.Errorf("could not delete sessions: %w", err)
	}
	return nil
}
