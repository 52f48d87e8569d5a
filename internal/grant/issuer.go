// Package grant turns an approved authorization into exactly one single-use
// access credential.
package grant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ADhailu/Biruh-ken-bot/core/logger"
	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
	"github.com/ADhailu/Biruh-ken-bot/internal/gateway"
	"github.com/ADhailu/Biruh-ken-bot/internal/messages"
)

// ErrLinkCreation marks a failure to mint the invite link. The user and the
// operator have already been notified when this is returned; the caller only
// decides how to surface it on the reviewer side.
var ErrLinkCreation = errors.New("invite link creation failed")

// Issuer mints and delivers single-use invite links.
type Issuer struct {
	gw         gateway.Gateway
	operatorID int64
	now        func() time.Time
}

// NewIssuer wires the issuer to the gateway and the operator of record.
func NewIssuer(gw gateway.Gateway, operatorID int64) *Issuer {
	return &Issuer{gw: gw, operatorID: operatorID, now: time.Now}
}

// Issue creates a member-limit-1 invite link, delivers it to the user in
// their language, and notifies the operator. A failed grant is not retried
// here: the operator is alerted so they can remediate out-of-band.
func (i *Issuer) Issue(ctx context.Context, session *domain.Session) (domain.AccessGrant, error) {
	link, err := i.gw.CreateInviteLink(ctx)
	if err != nil {
		logger.Error(ctx, "grant", "invite.create.fail",
			slog.Int64("user_id", session.UserID),
			slog.String("err", err.Error()),
		)
		_ = i.gw.SendText(ctx, session.UserID, messages.GrantFailed(session.Language))
		_ = i.gw.NotifyOperator(ctx, i.operatorID,
			messages.OperatorGrantFailure(session.DisplayName, session.UserID, err.Error()))
		return domain.AccessGrant{}, fmt.Errorf("%w: %v", ErrLinkCreation, err)
	}

	grant := domain.AccessGrant{
		UserID:     session.UserID,
		InviteLink: link,
		IssuedAt:   i.now(),
	}

	if err := i.gw.SendText(ctx, session.UserID, messages.Approved(session.Language, link)); err != nil {
		logger.Error(ctx, "grant", "invite.deliver.fail",
			slog.Int64("user_id", session.UserID),
			slog.String("err", err.Error()),
		)
		_ = i.gw.NotifyOperator(ctx, i.operatorID,
			messages.OperatorGrantFailure(session.DisplayName, session.UserID, err.Error()))
		return grant, fmt.Errorf("deliver invite to %d: %w", session.UserID, err)
	}

	logger.Info(ctx, "grant", "invite.issued",
		slog.Int64("user_id", session.UserID),
	)
	_ = i.gw.NotifyOperator(ctx, i.operatorID,
		messages.OperatorGrantNotice(session.DisplayName, session.UserID))
	return grant, nil
}
