// Package gateway is the boundary between the onboarding services and the
// chat transport. The engine, resolver, and issuer only see this interface;
// the telebot implementation lives in telebot.go.
package gateway

import "context"

// Callback uniques for the reviewer's inline decision buttons. The payload
// carries the target user ID.
const (
	CallbackApprove = "adm_approve"
	CallbackReject  = "adm_reject"
)

// Invoice describes a provider invoice for the fixed access fee. Amount is in
// whole currency units; the transport converts to the provider's minor units.
type Invoice struct {
	Title       string
	Description string
	// Payload binds the provider's confirmation back to the originating user.
	Payload  string
	Currency string
	Amount   int
}

// Gateway sends outbound chat traffic and mints invite links. Every method
// reports failure as an error; nothing is fire-and-forget at this boundary.
type Gateway interface {
	// SendText delivers plain text and clears any pending reply keyboard.
	SendText(ctx context.Context, userID int64, text string) error
	// SendMarkdown delivers Markdown-formatted text, keyboard cleared.
	SendMarkdown(ctx context.Context, userID int64, text string) error
	// SendLanguageMenu shows a one-time reply keyboard with language labels.
	SendLanguageMenu(ctx context.Context, userID int64, prompt string, labels ...string) error
	// RequestContact shows a one-time keyboard with a contact-share button.
	RequestContact(ctx context.Context, userID int64, prompt, buttonLabel string) error
	// ForwardReceipt sends the receipt photo to the reviewer with
	// approve/reject buttons bound to the submitting user.
	ForwardReceipt(ctx context.Context, reviewerID, userID int64, photoID, caption string) error
	// CreateInviteLink mints a single-use invite to the restricted channel.
	CreateInviteLink(ctx context.Context) (string, error)
	// SendInvoice issues a provider invoice to the user.
	SendInvoice(ctx context.Context, userID int64, inv Invoice) error
	// NotifyOperator delivers an operational notice to the operator.
	// Delivery is best-effort and may be asynchronous; a nil return does not
	// guarantee receipt.
	NotifyOperator(ctx context.Context, operatorID int64, text string) error
}
