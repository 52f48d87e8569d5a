// Package approval funnels both decision sources, the human reviewer and the
// payment provider, into one authorization step per user.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ADhailu/Biruh-ken-bot/core/logger"
	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
	"github.com/ADhailu/Biruh-ken-bot/internal/flow"
	"github.com/ADhailu/Biruh-ken-bot/internal/gateway"
	"github.com/ADhailu/Biruh-ken-bot/internal/grant"
	"github.com/ADhailu/Biruh-ken-bot/internal/messages"
	"github.com/ADhailu/Biruh-ken-bot/internal/storage"
)

var (
	// ErrUnauthorized is returned for reviewer decisions issued by anyone
	// other than the configured operator. Session state is untouched.
	ErrUnauthorized = errors.New("unauthorized decision actor")
	// ErrAlreadyDecided marks a duplicate decision for a user whose session
	// is already terminal. No second grant or notification is produced.
	ErrAlreadyDecided = errors.New("decision already applied")
)

// Resolver applies authorization decisions to sessions.
type Resolver struct {
	store      storage.Store
	gw         gateway.Gateway
	issuer     *grant.Issuer
	locks      *flow.UserLocks
	operatorID int64
}

// NewResolver wires the resolver. The lock table must be the same instance
// the flow engine uses so decisions serialize with inbound events.
func NewResolver(store storage.Store, gw gateway.Gateway, issuer *grant.Issuer, locks *flow.UserLocks, operatorID int64) *Resolver {
	return &Resolver{
		store:      store,
		gw:         gw,
		issuer:     issuer,
		locks:      locks,
		operatorID: operatorID,
	}
}

// Resolve applies one decision. Approval moves the session to terminal and
// invokes the grant issuer exactly once; rejection moves to terminal and
// leaves the restart path open. Duplicate decisions are dropped.
func (r *Resolver) Resolve(ctx context.Context, d domain.Decision) error {
	if d.Source == domain.SourceReviewer && d.ActorID != r.operatorID {
		logger.Warn(ctx, "approval", "decision.unauthorized",
			slog.Int64("user_id", d.UserID),
			slog.Int64("actor_id", d.ActorID),
		)
		return ErrUnauthorized
	}

	release := r.locks.Acquire(d.UserID)
	defer release()

	session, err := r.store.Get(ctx, d.UserID)
	if err != nil {
		return fmt.Errorf("load session for decision: %w", err)
	}
	if session.State == domain.StateTerminal {
		logger.Info(ctx, "approval", "decision.duplicate",
			slog.Int64("user_id", d.UserID),
			slog.String("source", string(d.Source)),
		)
		return ErrAlreadyDecided
	}

	if d.Source == domain.SourceProvider && d.ProviderRef != "" && session.PaymentEvidence == "" {
		session.PaymentEvidence = d.ProviderRef
	}
	session.State = domain.StateTerminal
	if err := r.store.Put(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	logger.Info(ctx, "approval", "decision.applied",
		slog.Int64("user_id", d.UserID),
		slog.String("decision", string(d.Outcome)),
		slog.String("source", string(d.Source)),
	)

	switch d.Outcome {
	case domain.OutcomeApproved:
		if _, err := r.issuer.Issue(ctx, session); err != nil {
			return err
		}
		return nil
	case domain.OutcomeRejected:
		return r.gw.SendText(ctx, d.UserID, messages.Rejected(session.Language))
	default:
		return fmt.Errorf("unknown decision outcome %q", d.Outcome)
	}
}
