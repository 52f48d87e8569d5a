package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a Store backed by the sessions table. The
// schema is managed by the migrations directory.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (p *postgresStore) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	const query = `
		SELECT user_id, state, language, display_name, phone, payment_evidence, created_at, updated_at
		FROM sessions
		WHERE user_id = $1
	`
	var session domain.Session
	if err := p.db.GetContext(ctx, &session, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session %d: %w", userID, err)
	}
	return &session, nil
}

func (p *postgresStore) Put(ctx context.Context, session *domain.Session) error {
	const query = `
		INSERT INTO sessions (user_id, state, language, display_name, phone, payment_evidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET state = EXCLUDED.state,
		    language = EXCLUDED.language,
		    display_name = EXCLUDED.display_name,
		    phone = EXCLUDED.phone,
		    payment_evidence = EXCLUDED.payment_evidence,
		    updated_at = EXCLUDED.updated_at
	`
	session.UpdatedAt = time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}
	if _, err := p.db.ExecContext(ctx, query,
		session.UserID, session.State, session.Language,
		session.DisplayName, session.Phone, session.PaymentEvidence,
		session.CreatedAt, session.UpdatedAt,
	); err != nil {
		return fmt.Errorf("put session %d: %w", session.UserID, err)
	}
	return nil
}

func (p *postgresStore) Reset(ctx context.Context, userID int64) error {
	const query = `DELETE FROM sessions WHERE user_id = $1`
	if _, err := p.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("reset session %d: %w", userID, err)
	}
	return nil
}
