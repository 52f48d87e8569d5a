package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
	"github.com/ADhailu/Biruh-ken-bot/internal/gateway"
	"github.com/ADhailu/Biruh-ken-bot/internal/messages"
	"github.com/ADhailu/Biruh-ken-bot/internal/storage"
)

const (
	testUser     int64 = 100
	testOperator int64 = 999
)

type sentText struct {
	userID int64
	text   string
}

type fakeGateway struct {
	texts      []sentText
	markdowns  []sentText
	menus      []int64
	contacts   []int64
	receipts   []sentText // userID = reviewer, text = caption
	invoices   []int64
	invoiceErr error
}

func (f *fakeGateway) SendText(_ context.Context, userID int64, text string) error {
	f.texts = append(f.texts, sentText{userID, text})
	return nil
}

func (f *fakeGateway) SendMarkdown(_ context.Context, userID int64, text string) error {
	f.markdowns = append(f.markdowns, sentText{userID, text})
	return nil
}

func (f *fakeGateway) SendLanguageMenu(_ context.Context, userID int64, _ string, _ ...string) error {
	f.menus = append(f.menus, userID)
	return nil
}

func (f *fakeGateway) RequestContact(_ context.Context, userID int64, _, _ string) error {
	f.contacts = append(f.contacts, userID)
	return nil
}

func (f *fakeGateway) ForwardReceipt(_ context.Context, reviewerID, _ int64, _, caption string) error {
	f.receipts = append(f.receipts, sentText{reviewerID, caption})
	return nil
}

func (f *fakeGateway) CreateInviteLink(_ context.Context) (string, error) {
	return "https://t.me/+invite", nil
}

func (f *fakeGateway) SendInvoice(_ context.Context, userID int64, _ gateway.Invoice) error {
	if f.invoiceErr != nil {
		return f.invoiceErr
	}
	f.invoices = append(f.invoices, userID)
	return nil
}

func (f *fakeGateway) NotifyOperator(_ context.Context, operatorID int64, text string) error {
	f.texts = append(f.texts, sentText{operatorID, text})
	return nil
}

func newTestEngine(t *testing.T, mode domain.Mode) (*Engine, storage.Store, *fakeGateway) {
	t.Helper()
	store := storage.NewMemoryStore()
	gw := &fakeGateway{}
	engine := NewEngine(store, gw, NewUserLocks(), Config{
		Mode:       mode,
		OperatorID: testOperator,
		Amount:     300,
		Currency:   "ETB",
		Accounts: []messages.DepositAccount{
			{Label: "CBE", Number: "1000", Holder: "Holder"},
		},
	})
	return engine, store, gw
}

func mustState(t *testing.T, store storage.Store, userID int64) *domain.Session {
	t.Helper()
	session, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	return session
}

func TestManualFlowHappyPath(t *testing.T) {
	engine, store, gw := newTestEngine(t, domain.ModeManual)
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	require.Equal(t, domain.StateChoosingLanguage, mustState(t, store, testUser).State)
	require.Equal(t, []int64{testUser}, gw.menus)

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelAmharic}))
	session := mustState(t, store, testUser)
	require.Equal(t, domain.StateAwaitingName, session.State)
	require.Equal(t, domain.LanguageAmharic, session.Language)

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "Abebe Bikila"}))
	session = mustState(t, store, testUser)
	require.Equal(t, domain.StateAwaitingPhone, session.State)
	require.Equal(t, "Abebe Bikila", session.DisplayName)
	require.Equal(t, []int64{testUser}, gw.contacts)

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventContact, Phone: "+251911000000"}))
	session = mustState(t, store, testUser)
	require.Equal(t, domain.StateAwaitingPaymentProof, session.State)
	require.Equal(t, "+251911000000", session.Phone)
	require.Len(t, gw.markdowns, 1)
	require.Contains(t, gw.markdowns[0].text, "300 ETB")
	require.Contains(t, gw.markdowns[0].text, "1000")

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventPhoto, PhotoID: "photo-1"}))
	session = mustState(t, store, testUser)
	require.Equal(t, domain.StatePendingApproval, session.State)
	require.Equal(t, "photo-1", session.PaymentEvidence)

	require.Len(t, gw.receipts, 1)
	require.Equal(t, testOperator, gw.receipts[0].userID)
	require.Contains(t, gw.receipts[0].text, "Abebe Bikila")
	require.Contains(t, gw.receipts[0].text, "+251911000000")
}

func TestInvoiceFlowIssuesInvoice(t *testing.T) {
	engine, store, gw := newTestEngine(t, domain.ModeInvoice)
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelEnglish}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "Alem"}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventContact, Phone: "+251922"}))

	require.Equal(t, domain.StatePendingPayment, mustState(t, store, testUser).State)
	require.Equal(t, []int64{testUser}, gw.invoices)
	require.Empty(t, gw.markdowns)
}

func TestInvoiceFailureAlertsUserAndOperator(t *testing.T) {
	engine, store, gw := newTestEngine(t, domain.ModeInvoice)
	gw.invoiceErr = errors.New("provider down")
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelEnglish}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "Alem"}))

	err := engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventContact, Phone: "+251922"})
	require.Error(t, err)

	// Session stays pending; user and operator are both told.
	require.Equal(t, domain.StatePendingPayment, mustState(t, store, testUser).State)
	var userTold, operatorTold bool
	for _, msg := range gw.texts {
		switch msg.userID {
		case testUser:
			userTold = true
		case testOperator:
			operatorTold = true
			require.Contains(t, msg.text, "provider down")
		}
	}
	require.True(t, userTold)
	require.True(t, operatorTold)
}

func TestOperatorStartBypassesFlow(t *testing.T) {
	engine, store, gw := newTestEngine(t, domain.ModeManual)

	require.NoError(t, engine.Handle(context.Background(), testOperator, domain.Event{Kind: domain.EventStart}))
	require.Equal(t, domain.StateTerminal, mustState(t, store, testOperator).State)
	require.Empty(t, gw.menus)
	require.Len(t, gw.texts, 1)
	require.Equal(t, messages.ReviewerWelcome(), gw.texts[0].text)
}

func TestStartResetsPartialSession(t *testing.T) {
	engine, store, _ := newTestEngine(t, domain.ModeManual)
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelAmharic}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "Old Name"}))

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	session := mustState(t, store, testUser)
	require.Equal(t, domain.StateChoosingLanguage, session.State)
	require.Empty(t, session.DisplayName)
	require.Equal(t, domain.LanguageEnglish, session.Language)
}

func TestPhoneStepRejectsFreeText(t *testing.T) {
	engine, store, gw := newTestEngine(t, domain.ModeManual)
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelEnglish}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "Alem"}))

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "0911-typed-by-hand"}))

	session := mustState(t, store, testUser)
	require.Equal(t, domain.StateAwaitingPhone, session.State)
	require.Empty(t, session.Phone)
	require.Equal(t, messages.UseContactButton(domain.LanguageEnglish), gw.texts[len(gw.texts)-1].text)
}

func TestProofStepRejectsText(t *testing.T) {
	engine, store, gw := newTestEngine(t, domain.ModeManual)
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelEnglish}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "Alem"}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventContact, Phone: "+251922"}))

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "paid!"}))

	require.Equal(t, domain.StateAwaitingPaymentProof, mustState(t, store, testUser).State)
	require.Equal(t, messages.SendPhotoPlease(domain.LanguageEnglish), gw.texts[len(gw.texts)-1].text)
}

func TestPendingApprovalAnswersStillUnderReview(t *testing.T) {
	engine, _, gw := newTestEngine(t, domain.ModeManual)
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelEnglish}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "Alem"}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventContact, Phone: "+251922"}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventPhoto, PhotoID: "photo-1"}))

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "any news?"}))
	require.Equal(t, messages.StillUnderReview(domain.LanguageEnglish), gw.texts[len(gw.texts)-1].text)
}

func TestUnknownUserInputIsIgnored(t *testing.T) {
	engine, _, gw := newTestEngine(t, domain.ModeManual)

	require.NoError(t, engine.Handle(context.Background(), testUser, domain.Event{Kind: domain.EventText, Text: "hello"}))
	require.Empty(t, gw.texts)
	require.Empty(t, gw.menus)
}

func TestNameIsWriteOnce(t *testing.T) {
	engine, store, _ := newTestEngine(t, domain.ModeManual)
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelEnglish}))
	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "First Name"}))

	// Force the session back to the name step without a reset.
	session := mustState(t, store, testUser)
	session.State = domain.StateAwaitingName
	require.NoError(t, store.Put(ctx, session))

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: "Second Name"}))
	require.Equal(t, "First Name", mustState(t, store, testUser).DisplayName)
}

func TestLanguageDetectionDefaultsToEnglish(t *testing.T) {
	require.Equal(t, domain.LanguageEnglish, messages.DetectLanguage("whatever"))
	require.Equal(t, domain.LanguageAmharic, messages.DetectLanguage(messages.LabelAmharic))
	require.Equal(t, domain.LanguageAmharic, messages.DetectLanguage("አማርኛ"))
	require.Equal(t, domain.LanguageEnglish, messages.DetectLanguage(messages.LabelEnglish))
}

func TestConcurrentEventsSameUserStaySerialized(t *testing.T) {
	engine, store, _ := newTestEngine(t, domain.ModeManual)
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventStart}))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = engine.Handle(ctx, testUser, domain.Event{Kind: domain.EventText, Text: messages.LabelEnglish})
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	// All racers saw a consistent state; the session advanced exactly once
	// past the language step.
	session := mustState(t, store, testUser)
	require.Contains(t, []domain.State{domain.StateAwaitingName, domain.StateAwaitingPhone}, session.State)
}
