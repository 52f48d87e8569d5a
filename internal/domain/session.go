package domain

import (
	"errors"
	"time"
)

// State identifies the step a user currently occupies in the onboarding flow.
type State string

const (
	// StateInitial is the implicit state of a user the bot has never seen.
	StateInitial State = "initial"
	// StateChoosingLanguage waits for the user to pick English or Amharic.
	StateChoosingLanguage State = "choosing_language"
	// StateAwaitingName waits for the user's full name as free text.
	StateAwaitingName State = "awaiting_name"
	// StateAwaitingPhone waits for a contact-share payload with a verified phone.
	StateAwaitingPhone State = "awaiting_phone"
	// StateAwaitingPaymentProof waits for a receipt photo (manual mode).
	StateAwaitingPaymentProof State = "awaiting_payment_proof"
	// StatePendingPayment waits for the provider's payment confirmation (invoice mode).
	StatePendingPayment State = "pending_payment"
	// StatePendingApproval waits for the reviewer's approve/reject decision.
	StatePendingApproval State = "pending_approval"
	// StateTerminal ends the flow: approved, rejected, or reviewer bypass.
	StateTerminal State = "terminal"
)

// Language selects which set of localized strings the user receives.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageAmharic Language = "amharic"
)

// Session is the per-user conversation record. Language, DisplayName and
// Phone are write-once: the engine never overwrites a non-zero value except
// on an explicit reset.
type Session struct {
	UserID          int64     `db:"user_id"`
	State           State     `db:"state"`
	Language        Language  `db:"language"`
	DisplayName     string    `db:"display_name"`
	Phone           string    `db:"phone"`
	PaymentEvidence string    `db:"payment_evidence"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// NewSession returns a fresh session in the initial state.
func NewSession(userID int64, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		State:     StateInitial,
		Language:  LanguageEnglish,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ErrNotFound is returned by session stores when no record exists for a user.
var ErrNotFound = errors.New("session not found")
