package grant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
	"github.com/ADhailu/Biruh-ken-bot/internal/gateway"
)

const (
	testUser     int64 = 100
	testOperator int64 = 999
)

type fakeGateway struct {
	texts   map[int64][]string
	link    string
	linkErr error
	sendErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{texts: make(map[int64][]string), link: "https://t.me/+single-use"}
}

func (f *fakeGateway) SendText(_ context.Context, userID int64, text string) error {
	if f.sendErr != nil && userID == testUser {
		return f.sendErr
	}
	f.texts[userID] = append(f.texts[userID], text)
	return nil
}

func (f *fakeGateway) SendMarkdown(_ context.Context, userID int64, text string) error {
	return f.SendText(nil, userID, text)
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
	return f.link, nil
}

func (f *fakeGateway) SendInvoice(_ context.Context, _ int64, _ gateway.Invoice) error { return nil }

func (f *fakeGateway) NotifyOperator(_ context.Context, operatorID int64, text string) error {
	f.texts[operatorID] = append(f.texts[operatorID], text)
	return nil
}

func approvedSession() *domain.Session {
	session := domain.NewSession(testUser, time.Now())
	session.State = domain.StateTerminal
	session.DisplayName = "Alem"
	return session
}

func TestIssueDeliversLinkAndNotifiesOperator(t *testing.T) {
	gw := newFakeGateway()
	issuer := NewIssuer(gw, testOperator)

	got, err := issuer.Issue(context.Background(), approvedSession())
	require.NoError(t, err)
	require.Equal(t, testUser, got.UserID)
	require.Equal(t, gw.link, got.InviteLink)
	require.False(t, got.IssuedAt.IsZero())

	require.Len(t, gw.texts[testUser], 1)
	require.Contains(t, gw.texts[testUser][0], gw.link)
	require.Len(t, gw.texts[testOperator], 1)
	require.Contains(t, gw.texts[testOperator][0], "Alem")
}

func TestIssueLinkFailureNotifiesBothSides(t *testing.T) {
	gw := newFakeGateway()
	gw.linkErr = errors.New("insufficient rights")
	issuer := NewIssuer(gw, testOperator)

	_, err := issuer.Issue(context.Background(), approvedSession())
	require.ErrorIs(t, err, ErrLinkCreation)

	require.Len(t, gw.texts[testUser], 1)
	require.NotContains(t, gw.texts[testUser][0], "t.me")
	require.Len(t, gw.texts[testOperator], 1)
	require.Contains(t, gw.texts[testOperator][0], "insufficient rights")
}

func TestIssueDeliveryFailureAlertsOperator(t *testing.T) {
	gw := newFakeGateway()
	gw.sendErr = errors.New("blocked by user")
	issuer := NewIssuer(gw, testOperator)

	got, err := issuer.Issue(context.Background(), approvedSession())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrLinkCreation)
	require.Equal(t, gw.link, got.InviteLink)

	require.Len(t, gw.texts[testOperator], 1)
	require.Contains(t, gw.texts[testOperator][0], "blocked by user")
}
