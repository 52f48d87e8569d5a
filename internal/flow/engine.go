// Package flow implements the per-user onboarding state machine. The engine
// owns every session mutation: it consults the store, decides the transition
// for the (state, event) pair, requests side effects from the gateway, and
// writes the new state back.
package flow

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
	"github.com/ADhailu/Biruh-ken-bot/internal/storage"
)

// Config carries the deployment knobs the engine branches on.
type Config struct {
	// Mode selects the authorization branch after the phone step.
	Mode domain.Mode
	// OperatorID bypasses the flow and receives forwarded receipts.
	OperatorID int64
	// Amount and Currency describe the fixed access fee.
	Amount   int
	Currency string
	// Accounts are listed in the manual-mode payment instructions.
	Accounts []messages.DepositAccount
}

// Engine drives sessions through the onboarding pipeline.
type Engine struct {
	store storage.Store
	gw    gateway.Gateway
	cfg   Config
	locks *UserLocks
	now   func() time.Time
}

// NewEngine wires the engine to its store and gateway. The lock table is
// shared with the authorization resolver.
func NewEngine(store storage.Store, gw gateway.Gateway, locks *UserLocks, cfg Config) *Engine {
	return &Engine{
		store: store,
		gw:    gw,
		cfg:   cfg,
		locks: locks,
		now:   time.Now,
	}
}

// Handle applies one inbound event to the user's session. Events from the
// same user are applied in arrival order; the per-user lock is held across
// the store write and the gateway calls for that user only.
func (e *Engine) Handle(ctx context.Context, userID int64, ev domain.Event) error {
	release := e.locks.Acquire(userID)
	defer release()

	if ev.Kind == domain.EventStart {
		return e.handleStart(ctx, userID)
	}

	session, err := e.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown user talking without /start: nothing to advance.
			logger.Debug(ctx, "flow", "fsm.skip",
				slog.Int64("user_id", userID),
				slog.String("reason", "no_session"),
			)
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	switch session.State {
	case domain.StateChoosingLanguage:
		return e.handleLanguage(ctx, session, ev)
	case domain.StateAwaitingName:
		return e.handleName(ctx, session, ev)
	case domain.StateAwaitingPhone:
		return e.handlePhone(ctx, session, ev)
	case domain.StateAwaitingPaymentProof:
		return e.handlePaymentProof(ctx, session, ev)
	case domain.StatePendingApproval:
		return e.gw.SendText(ctx, userID, messages.StillUnderReview(session.Language))
	case domain.StatePendingPayment, domain.StateTerminal, domain.StateInitial:
		logger.Debug(ctx, "flow", "fsm.skip",
			slog.Int64("user_id", userID),
			slog.String("state", string(session.State)),
			slog.String("event", string(ev.Kind)),
		)
		return nil
	default:
		return fmt.Errorf("unknown session state %q for user %d", session.State, userID)
	}
}

// handleStart implements the entry command: operator bypass, or an
// unconditional reset to the language step discarding any partial data.
func (e *Engine) handleStart(ctx context.Context, userID int64) error {
	if userID == e.cfg.OperatorID {
		session := domain.NewSession(userID, e.now())
		session.State = domain.StateTerminal
		if err := e.store.Put(ctx, session); err != nil {
			return fmt.Errorf("store operator session: %w", err)
		}
		return e.gw.SendText(ctx, userID, messages.ReviewerWelcome())
	}

	if err := e.store.Reset(ctx, userID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	session := domain.NewSession(userID, e.now())
	session.State = domain.StateChoosingLanguage
	if err := e.store.Put(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	e.logTransition(ctx, userID, domain.StateInitial, domain.StateChoosingLanguage, domain.EventStart)

	return e.gw.SendLanguageMenu(ctx, userID, messages.ChooseLanguage(),
		messages.LabelEnglish, messages.LabelAmharic)
}

func (e *Engine) handleLanguage(ctx context.Context, session *domain.Session, ev domain.Event) error {
	if ev.Kind != domain.EventText || ev.Text == "" {
		return nil
	}

	session.Language = messages.DetectLanguage(ev.Text)
	session.State = domain.StateAwaitingName
	if err := e.store.Put(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	e.logTransition(ctx, session.UserID, domain.StateChoosingLanguage, session.State, ev.Kind)

	return e.gw.SendText(ctx, session.UserID, messages.EnterName(session.Language))
}

func (e *Engine) handleName(ctx context.Context, session *domain.Session, ev domain.Event) error {
	if ev.Kind != domain.EventText || ev.Text == "" {
		return nil
	}

	if session.DisplayName == "" {
		session.DisplayName = ev.Text
	}
	session.State = domain.StateAwaitingPhone
	if err := e.store.Put(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	e.logTransition(ctx, session.UserID, domain.StateAwaitingName, session.State, ev.Kind)

	return e.gw.RequestContact(ctx, session.UserID,
		messages.SharePhone(session.Language),
		messages.SharePhoneButton(session.Language))
}

// handlePhone accepts only contact-share payloads; free text is rejected
// without advancing the state.
func (e *Engine) handlePhone(ctx context.Context, session *domain.Session, ev domain.Event) error {
	if ev.Kind != domain.EventContact || ev.Phone == "" {
		return e.gw.SendText(ctx, session.UserID, messages.UseContactButton(session.Language))
	}

	if session.Phone == "" {
		session.Phone = ev.Phone
	}

	if e.cfg.Mode == domain.ModeInvoice {
		return e.issueInvoice(ctx, session)
	}

	session.State = domain.StateAwaitingPaymentProof
	if err := e.store.Put(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	e.logTransition(ctx, session.UserID, domain.StateAwaitingPhone, session.State, ev.Kind)

	text := messages.PaymentInstructions(session.Language, e.cfg.Amount, e.cfg.Currency, e.cfg.Accounts)
	return e.gw.SendMarkdown(ctx, session.UserID, text)
}

func (e *Engine) issueInvoice(ctx context.Context, session *domain.Session) error {
	session.State = domain.StatePendingPayment
	if err := e.store.Put(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	e.logTransition(ctx, session.UserID, domain.StateAwaitingPhone, session.State, domain.EventContact)

	inv := gateway.Invoice{
		Title:       messages.InvoiceTitle(session.Language),
		Description: messages.InvoiceDescription(session.Language, e.cfg.Amount, e.cfg.Currency),
		Payload:     domain.NewInvoicePayload(session.UserID),
		Currency:    e.cfg.Currency,
		Amount:      e.cfg.Amount,
	}
	if err := e.gw.SendInvoice(ctx, session.UserID, inv); err != nil {
		logger.Error(ctx, "flow", "invoice.fail",
			slog.Int64("user_id", session.UserID),
			slog.String("err", err.Error()),
		)
		_ = e.gw.SendText(ctx, session.UserID, messages.InvoiceFailed(session.Language))
		_ = e.gw.NotifyOperator(ctx, e.cfg.OperatorID,
			messages.OperatorInvoiceFailure(session.DisplayName, session.UserID, err.Error()))
		return fmt.Errorf("send invoice: %w", err)
	}
	return nil
}

func (e *Engine) handlePaymentProof(ctx context.Context, session *domain.Session, ev domain.Event) error {
	if ev.Kind != domain.EventPhoto || ev.PhotoID == "" {
		return e.gw.SendText(ctx, session.UserID, messages.SendPhotoPlease(session.Language))
	}

	session.PaymentEvidence = ev.PhotoID
	session.State = domain.StatePendingApproval
	if err := e.store.Put(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	e.logTransition(ctx, session.UserID, domain.StateAwaitingPaymentProof, session.State, ev.Kind)

	caption := messages.ReviewCaption(session.DisplayName, session.Phone, session.UserID)
	if err := e.gw.ForwardReceipt(ctx, e.cfg.OperatorID, session.UserID, ev.PhotoID, caption); err != nil {
		logger.Error(ctx, "flow", "receipt.forward.fail",
			slog.Int64("user_id", session.UserID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("forward receipt: %w", err)
	}

	return e.gw.SendText(ctx, session.UserID, messages.ProofSubmitted(session.Language))
}

func (e *Engine) logTransition(ctx context.Context, userID int64, from, to domain.State, ev domain.EventKind) {
	logger.Info(ctx, "flow", "fsm.transition",
		slog.Int64("user_id", userID),
		slog.String("from_state", string(from)),
		slog.String("to_state", string(to)),
		slog.String("event", string(ev)),
	)
}
