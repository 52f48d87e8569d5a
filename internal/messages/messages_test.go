package messages

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
)

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want domain.Language
	}{
		{LabelAmharic, domain.LanguageAmharic},
		{"አማርኛ", domain.LanguageAmharic},
		{"I want Amharic please", domain.LanguageAmharic},
		{LabelEnglish, domain.LanguageEnglish},
		{"english", domain.LanguageEnglish},
		{"gibberish", domain.LanguageEnglish},
		{"", domain.LanguageEnglish},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, DetectLanguage(tc.text), "text %q", tc.text)
	}
}

func TestPaymentInstructionsListsAccounts(t *testing.T) {
	accounts := []DepositAccount{
		{Label: "CBE", Number: "1000123", Holder: "Biruh Ken"},
		{Label: "Telebirr", Number: "0911000", Holder: "Biruh Ken"},
	}

	for _, lang := range []domain.Language{domain.LanguageEnglish, domain.LanguageAmharic} {
		text := PaymentInstructions(lang, 300, "ETB", accounts)
		require.Contains(t, text, "300 ETB")
		require.Contains(t, text, "1000123")
		require.Contains(t, text, "0911000")
		require.Contains(t, text, "CBE")
	}
}

func TestLocalizedPairsDiffer(t *testing.T) {
	for name, fn := range map[string]func(domain.Language) string{
		"EnterName":        EnterName,
		"SharePhone":       SharePhone,
		"UseContactButton": UseContactButton,
		"SendPhotoPlease":  SendPhotoPlease,
		"ProofSubmitted":   ProofSubmitted,
		"StillUnderReview": StillUnderReview,
		"Rejected":         Rejected,
		"GrantFailed":      GrantFailed,
		"InvoiceFailed":    InvoiceFailed,
	} {
		require.NotEqual(t,
			fn(domain.LanguageEnglish), fn(domain.LanguageAmharic),
			"%s should be localized", name)
	}
}

func TestApprovedEmbedsInviteLink(t *testing.T) {
	link := "https://t.me/+abc"
	require.Contains(t, Approved(domain.LanguageEnglish, link), link)
	require.Contains(t, Approved(domain.LanguageAmharic, link), link)
}
