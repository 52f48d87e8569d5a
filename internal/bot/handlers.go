// Package bot binds telebot updates to the onboarding services: it converts
// transport payloads into domain events for the flow engine and reviewer or
// provider actions into decisions for the resolver.
package bot

import (
	"errors"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/ADhailu/Biruh-ken-bot/core/logger"
	tg "github.com/ADhailu/Biruh-ken-bot/core/telegram"
	"github.com/ADhailu/Biruh-ken-bot/core/telegram/callbacks"
	"github.com/ADhailu/Biruh-ken-bot/core/telegram/commands"
	tghelpers "github.com/ADhailu/Biruh-ken-bot/core/telegram/helpers"
	"github.com/ADhailu/Biruh-ken-bot/core/telegram/router"
	"github.com/ADhailu/Biruh-ken-bot/internal/approval"
	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
	"github.com/ADhailu/Biruh-ken-bot/internal/flow"
	"github.com/ADhailu/Biruh-ken-bot/internal/gateway"
	"github.com/ADhailu/Biruh-ken-bot/internal/grant"
	"github.com/ADhailu/Biruh-ken-bot/internal/messages"
)

// Handlers owns the update-to-domain translation layer.
type Handlers struct {
	engine   *flow.Engine
	resolver *approval.Resolver
}

// NewHandlers wires the handlers to the engine and resolver.
func NewHandlers(engine *flow.Engine, resolver *approval.Resolver) *Handlers {
	return &Handlers{engine: engine, resolver: resolver}
}

// Register adds the entry command and the reviewer decision callbacks.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.onStart,
		Description: "Start or restart onboarding",
	})
	_ = reg.RegisterCallback(gateway.CallbackApprove, h.decisionCallback(domain.OutcomeApproved))
	_ = reg.RegisterCallback(gateway.CallbackReject, h.decisionCallback(domain.OutcomeRejected))
}

// Routes exposes the raw update endpoints the flow consumes.
func (h *Handlers) Routes() []tg.Route {
	return []tg.Route{
		router.UpdateRoute(tele.OnText, "flow_text", h.onText),
		router.UpdateRoute(tele.OnContact, "flow_contact", h.onContact),
		router.UpdateRoute(tele.OnPhoto, "flow_photo", h.onPhoto),
		router.UpdateRoute(tele.OnCheckout, "checkout", h.onCheckout),
		router.UpdateRoute(tele.OnPayment, "payment", h.onPayment),
	}
}

func (h *Handlers) dispatch(c tele.Context, ev domain.Event) error {
	ctx := tghelpers.BuildContext(c)
	return h.engine.Handle(ctx, c.Sender().ID, ev)
}

func (h *Handlers) onStart(c tele.Context) error {
	return h.dispatch(c, domain.Event{Kind: domain.EventStart})
}

func (h *Handlers) onText(c tele.Context) error {
	return h.dispatch(c, domain.Event{Kind: domain.EventText, Text: c.Text()})
}

func (h *Handlers) onContact(c tele.Context) error {
	contact := c.Message().Contact
	if contact == nil {
		return h.dispatch(c, domain.Event{Kind: domain.EventOther})
	}
	return h.dispatch(c, domain.Event{Kind: domain.EventContact, Phone: contact.PhoneNumber})
}

func (h *Handlers) onPhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return h.dispatch(c, domain.Event{Kind: domain.EventOther})
	}
	return h.dispatch(c, domain.Event{Kind: domain.EventPhoto, PhotoID: photo.FileID})
}

// onCheckout is the provider's synchronous pre-authorization step. No
// inventory or fraud check happens here, so it always accepts.
func (h *Handlers) onCheckout(c tele.Context) error {
	return c.Accept()
}

// onPayment is the provider's final confirmation. The invoice payload binds
// it back to the originating user.
func (h *Handlers) onPayment(c tele.Context) error {
	payment := c.Message().Payment
	if payment == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	userID, err := domain.ParseInvoicePayload(payment.Payload)
	if err != nil {
		logger.Warn(ctx, "bot", "payment.payload.invalid",
			slog.Int64("sender_id", c.Sender().ID),
			slog.String("err", err.Error()),
		)
		return nil
	}

	decision := domain.Decision{
		UserID:      userID,
		Outcome:     domain.OutcomeApproved,
		Source:      domain.SourceProvider,
		ProviderRef: payment.ProviderChargeID,
		At:          time.Now(),
	}
	if err := h.resolver.Resolve(ctx, decision); err != nil {
		if errors.Is(err, approval.ErrAlreadyDecided) {
			return nil
		}
		return err
	}
	return nil
}

// decisionCallback handles one reviewer button. The callback payload carries
// the target user ID; the resolver enforces the operator gate.
func (h *Handlers) decisionCallback(outcome domain.Outcome) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)

		target, err := callbacks.PayloadInt64(c)
		if err != nil {
			logger.Warn(ctx, "bot", "decision.payload.invalid",
				slog.String("err", err.Error()),
			)
			return c.Respond()
		}

		decision := domain.Decision{
			UserID:  target,
			Outcome: outcome,
			Source:  domain.SourceReviewer,
			ActorID: c.Sender().ID,
			At:      time.Now(),
		}

		switch err := h.resolver.Resolve(ctx, decision); {
		case errors.Is(err, approval.ErrUnauthorized):
			return c.Respond(&tele.CallbackResponse{Text: messages.Unauthorized, ShowAlert: true})
		case errors.Is(err, approval.ErrAlreadyDecided):
			return c.Respond()
		case errors.Is(err, grant.ErrLinkCreation):
			_ = c.Respond()
			return c.EditCaption(messages.CaptionApprovedLinkFailed)
		case err != nil:
			_ = c.Respond()
			return err
		}

		_ = c.Respond()
		if outcome == domain.OutcomeApproved {
			return c.EditCaption(messages.CaptionApproved)
		}
		return c.EditCaption(messages.CaptionRejected)
	}
}
