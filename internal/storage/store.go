// Package storage holds the session store implementations. A store keeps one
// conversation record per user; writes are total overwrites, never merges.
package storage

import (
	"context"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
)

// Store is the session persistence contract used by the flow engine and the
// authorization resolver. Get returns domain.ErrNotFound for unknown users.
type Store interface {
	Get(ctx context.Context, userID int64) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Reset(ctx context.Context, userID int64) error
}
