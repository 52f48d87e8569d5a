package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
	"github.com/ADhailu/Biruh-ken-bot/internal/flow"
	"github.com/ADhailu/Biruh-ken-bot/internal/gateway"
	"github.com/ADhailu/Biruh-ken-bot/internal/grant"
	"github.com/ADhailu/Biruh-ken-bot/internal/storage"
)

const (
	testUser     int64 = 100
	testOperator int64 = 999
	testIntruder int64 = 666
)

type fakeGateway struct {
	texts   map[int64][]string
	links   int
	linkErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{texts: make(map[int64][]string)}
}

func (f *fakeGateway) SendText(_ context.Context, userID int64, text string) error {
	f.texts[userID] = append(f.texts[userID], text)
	return nil
}

func (f *fakeGateway) SendMarkdown(_ context.Context, userID int64, text string) error {
	f.texts[userID] = append(f.texts[userID], text)
	return nil
}

func (f *fakeGateway) SendLanguageMenu(_ context.Context, _ int64, _ string, _ ...string) error {
	return nil
}

func (f *fakeGateway) RequestContact(_ context.Context, _ int64, _, _ string) error { return nil }

func (f *fakeGateway) ForwardReceipt(_ context.Context, _, _ int64, _, _ string) error { return nil }

func (f *fakeGateway) CreateInviteLink(_ context.Context) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	f.links++
	return "https://t.me/+invite", nil
}

func (f *fakeGateway) SendInvoice(_ context.Context, _ int64, _ gateway.Invoice) error { return nil }

func (f *fakeGateway) NotifyOperator(_ context.Context, operatorID int64, text string) error {
	f.texts[operatorID] = append(f.texts[operatorID], text)
	return nil
}

func newTestResolver(t *testing.T) (*Resolver, storage.Store, *fakeGateway) {
	t.Helper()
	store := storage.NewMemoryStore()
	gw := newFakeGateway()
	issuer := grant.NewIssuer(gw, testOperator)
	resolver := NewResolver(store, gw, issuer, flow.NewUserLocks(), testOperator)
	return resolver, store, gw
}

func seedPending(t *testing.T, store storage.Store) {
	t.Helper()
	session := domain.NewSession(testUser, time.Now())
	session.State = domain.StatePendingApproval
	session.DisplayName = "Alem"
	session.Phone = "+251911"
	session.PaymentEvidence = "photo-1"
	require.NoError(t, store.Put(context.Background(), session))
}

func reviewerDecision(outcome domain.Outcome, actorID int64) domain.Decision {
	return domain.Decision{
		UserID:  testUser,
		Outcome: outcome,
		Source:  domain.SourceReviewer,
		ActorID: actorID,
		At:      time.Now(),
	}
}

func TestApproveIssuesGrantAndTerminates(t *testing.T) {
	resolver, store, gw := newTestResolver(t)
	seedPending(t, store)

	require.NoError(t, resolver.Resolve(context.Background(), reviewerDecision(domain.OutcomeApproved, testOperator)))

	session, err := store.Get(context.Background(), testUser)
	require.NoError(t, err)
	require.Equal(t, domain.StateTerminal, session.State)
	require.Equal(t, 1, gw.links)

	require.NotEmpty(t, gw.texts[testUser])
	require.Contains(t, gw.texts[testUser][0], "https://t.me/+invite")
}

func TestRejectTerminatesWithoutGrant(t *testing.T) {
	resolver, store, gw := newTestResolver(t)
	seedPending(t, store)

	require.NoError(t, resolver.Resolve(context.Background(), reviewerDecision(domain.OutcomeRejected, testOperator)))

	session, err := store.Get(context.Background(), testUser)
	require.NoError(t, err)
	require.Equal(t, domain.StateTerminal, session.State)
	require.Zero(t, gw.links)
	require.NotEmpty(t, gw.texts[testUser])
}

func TestNonOperatorReviewerIsRejected(t *testing.T) {
	resolver, store, gw := newTestResolver(t)
	seedPending(t, store)

	err := resolver.Resolve(context.Background(), reviewerDecision(domain.OutcomeApproved, testIntruder))
	require.ErrorIs(t, err, ErrUnauthorized)

	// Zero side effects: state untouched, no link, no messages.
	session, getErr := store.Get(context.Background(), testUser)
	require.NoError(t, getErr)
	require.Equal(t, domain.StatePendingApproval, session.State)
	require.Zero(t, gw.links)
	require.Empty(t, gw.texts)
}

func TestDuplicateDecisionProducesOneGrant(t *testing.T) {
	resolver, store, gw := newTestResolver(t)
	seedPending(t, store)
	ctx := context.Background()

	require.NoError(t, resolver.Resolve(ctx, reviewerDecision(domain.OutcomeApproved, testOperator)))
	err := resolver.Resolve(ctx, reviewerDecision(domain.OutcomeApproved, testOperator))
	require.ErrorIs(t, err, ErrAlreadyDecided)

	require.Equal(t, 1, gw.links)
}

func TestApproveThenRejectKeepsFirstOutcome(t *testing.T) {
	resolver, store, gw := newTestResolver(t)
	seedPending(t, store)
	ctx := context.Background()

	require.NoError(t, resolver.Resolve(ctx, reviewerDecision(domain.OutcomeApproved, testOperator)))
	userMessages := len(gw.texts[testUser])

	err := resolver.Resolve(ctx, reviewerDecision(domain.OutcomeRejected, testOperator))
	require.ErrorIs(t, err, ErrAlreadyDecided)
	require.Len(t, gw.texts[testUser], userMessages)

	session, getErr := store.Get(ctx, testUser)
	require.NoError(t, getErr)
	require.Equal(t, domain.StateTerminal, session.State)
}

func TestProviderConfirmationApprovesAndStoresReference(t *testing.T) {
	resolver, store, gw := newTestResolver(t)

	session := domain.NewSession(testUser, time.Now())
	session.State = domain.StatePendingPayment
	session.DisplayName = "Alem"
	require.NoError(t, store.Put(context.Background(), session))

	decision := domain.Decision{
		UserID:      testUser,
		Outcome:     domain.OutcomeApproved,
		Source:      domain.SourceProvider,
		ProviderRef: "charge-123",
		At:          time.Now(),
	}
	require.NoError(t, resolver.Resolve(context.Background(), decision))

	stored, err := store.Get(context.Background(), testUser)
	require.NoError(t, err)
	require.Equal(t, domain.StateTerminal, stored.State)
	require.Equal(t, "charge-123", stored.PaymentEvidence)
	require.Equal(t, 1, gw.links)
}

func TestApproveWithLinkFailureReturnsGrantError(t *testing.T) {
	resolver, store, gw := newTestResolver(t)
	seedPending(t, store)
	gw.linkErr = errors.New("bot lacks invite permission")

	err := resolver.Resolve(context.Background(), reviewerDecision(domain.OutcomeApproved, testOperator))
	require.ErrorIs(t, err, grant.ErrLinkCreation)

	// The decision still lands: the session is terminal and both parties
	// were told about the degraded grant.
	session, getErr := store.Get(context.Background(), testUser)
	require.NoError(t, getErr)
	require.Equal(t, domain.StateTerminal, session.State)
	require.NotEmpty(t, gw.texts[testUser])
	require.NotEmpty(t, gw.texts[testOperator])
}
