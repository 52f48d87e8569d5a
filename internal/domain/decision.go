package domain

import "time"

// Outcome is the result of an authorization decision.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// Source identifies who produced a decision.
type Source string

const (
	// SourceReviewer is an explicit approve/reject action by the operator.
	SourceReviewer Source = "reviewer"
	// SourceProvider is a payment-provider confirmation callback.
	SourceProvider Source = "provider"
)

// Decision is a one-shot authorization event. It drives exactly one
// transition and is never persisted or queryable afterwards.
type Decision struct {
	UserID  int64
	Outcome Outcome
	Source  Source
	// ActorID is the identity that issued a reviewer decision. Ignored for
	// provider confirmations.
	ActorID int64
	// ProviderRef is the provider's payment identifier for provider-sourced
	// decisions. Stored as the session's payment evidence.
	ProviderRef string
	At          time.Time
}

// AccessGrant is the single-use credential produced for an approved user.
// Ownership is transient: once delivered, no component keeps a reference.
type AccessGrant struct {
	UserID     int64
	InviteLink string
	IssuedAt   time.Time
}
