// Package messages holds every user-facing string in both supported
// languages. Handlers and services never embed literals directly; they pick a
// string here by the session language.
package messages

import (
	"fmt"
	"strings"

	"github.com/ADhailu/Biruh-ken-bot/core/telegram/format"
	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
)

// Keyboard labels. These double as the recognized values for language
// detection, so they live next to the detector.
const (
	LabelEnglish = "English 🇬🇧"
	LabelAmharic = "Amharic 🇪🇹"
)

// DetectLanguage maps free text from the language step onto a Language.
// Matching is substring-based against the known labels, defaulting to
// English when nothing matches. This mirrors how the reply keyboard sends
// the label text back as a plain message.
func DetectLanguage(text string) domain.Language {
	if strings.Contains(text, "Amharic") || strings.Contains(text, "አማርኛ") {
		return domain.LanguageAmharic
	}
	return domain.LanguageEnglish
}

func pick(lang domain.Language, en, am string) string {
	if lang == domain.LanguageAmharic {
		return am
	}
	return en
}

// ChooseLanguage is the bilingual prompt shown with the language keyboard.
func ChooseLanguage() string {
	return "Choose language / ቋንቋ ይምረጡ:"
}

// ReviewerWelcome greets the operator account, which bypasses the flow.
func ReviewerWelcome() string {
	return "👋 Welcome Admin. You will receive payment proofs here."
}

// EnterName asks for the user's full name.
func EnterName(lang domain.Language) string {
	return pick(lang, "Enter full name:", "እባክዎ ሙሉ ስምዎን ያስገቡ፦")
}

// SharePhone asks the user to share their phone number.
func SharePhone(lang domain.Language) string {
	return pick(lang, "Share phone number:", "ስልክ ቁጥርዎን ያጋሩ፦")
}

// SharePhoneButton labels the contact-request keyboard button.
func SharePhoneButton(lang domain.Language) string {
	return pick(lang, "Share Phone 📱", "ስልክ ቁጥር አጋራ 📱")
}

// UseContactButton nags users who typed text instead of sharing a contact.
func UseContactButton(lang domain.Language) string {
	return pick(lang, "Please use the button!", "እባክዎ ቁልፉን ይጠቀሙ!")
}

// DepositAccount is one way to pay listed in the manual payment instructions.
type DepositAccount struct {
	Label  string
	Number string
	Holder string
}

// PaymentInstructions renders the manual-mode payment text: amount, deposit
// accounts, and the receipt photo request.
func PaymentInstructions(lang domain.Language, amount int, currency string, accounts []DepositAccount) string {
	var b strings.Builder
	if lang == domain.LanguageAmharic {
		b.WriteString("💳 **የክፍያ ዝርዝር**\n")
		fmt.Fprintf(&b, "እባክዎ **%d %s** ከታች በተጠቀሱት አማራጮች ያስገቡ። ", amount, currency)
		b.WriteString("ሲጨርሱ የደረሰኝ ፎቶ ይላኩ 📸፦\n\n")
	} else {
		b.WriteString("💳 **Payment Details**\n")
		fmt.Fprintf(&b, "Please deposit **%d %s** using the options below. ", amount, currency)
		b.WriteString("When finished, send a photo of the receipt 📸:\n\n")
	}
	for _, acc := range accounts {
		fmt.Fprintf(&b, "%s: `%s` (%s)\n", mdEscape(acc.Label), acc.Number, mdEscape(acc.Holder))
	}
	return strings.TrimRight(b.String(), "\n")
}

// mdEscape guards configured labels against breaking the Markdown layout.
// Account numbers stay raw: they render inside code spans.
func mdEscape(s string) string {
	escaped, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return escaped
}

// SendPhotoPlease re-prompts when a non-photo arrives in the receipt step.
func SendPhotoPlease(lang domain.Language) string {
	return pick(lang, "📸 Please send a photo!", "📸 እባክዎ ፎቶ ይላኩ!")
}

// ProofSubmitted confirms the receipt reached the reviewer.
func ProofSubmitted(lang domain.Language) string {
	return pick(lang,
		"👍 Submitted! Please wait for admin approval.",
		"👍 ገብቷል! እባክዎ የአስተዳዳሪውን ማረጋገጫ ይጠብቁ።")
}

// StillUnderReview answers any input while a decision is pending.
func StillUnderReview(lang domain.Language) string {
	return pick(lang, "⏳ Still under review...", "⏳ ገና እየተረጋገጠ ነው።")
}

// Approved delivers the single-use invite link.
func Approved(lang domain.Language, inviteLink string) string {
	return pick(lang,
		fmt.Sprintf("🎉 Approved!\nJoin here:\n%s", inviteLink),
		fmt.Sprintf("🎉 ተፈቅዷል!\nበዚህ ሊንክ ይቀላቀሉ፦\n%s", inviteLink))
}

// Rejected tells the user the submission was declined and how to retry.
func Rejected(lang domain.Language) string {
	return pick(lang,
		"❌ Rejected. Please try again using /start.",
		"❌ ውድቅ ተደርጓል። እባክዎ /start በመጠቀም እንደገና ይሞክሩ።")
}

// GrantFailed is the degraded message when invite creation fails after an
// approval. The operator is alerted separately.
func GrantFailed(lang domain.Language) string {
	return pick(lang,
		"✅ Approved, but creating your invite link failed. An operator will contact you shortly.",
		"✅ ተፈቅዷል፣ ነገር ግን የመቀላቀያ ሊንክ መፍጠር አልተሳካም። አስተዳዳሪ በቅርቡ ያገኙዎታል።")
}

// InvoiceFailed is the degraded message when the provider invoice could not
// be issued. The operator is alerted separately.
func InvoiceFailed(lang domain.Language) string {
	return pick(lang,
		"⚠️ We could not issue your payment invoice. An operator will contact you shortly.",
		"⚠️ የክፍያ ደረሰኝ መላክ አልተሳካም። አስተዳዳሪ በቅርቡ ያገኙዎታል።")
}

// OperatorInvoiceFailure asks the operator to remediate a failed invoice.
func OperatorInvoiceFailure(name string, userID int64, cause string) string {
	return fmt.Sprintf("⚠️ Invoice issuance failed\nName: %s\nID: %d\nCause: %s", name, userID, cause)
}

// ReviewCaption is the caption attached to a receipt forwarded to the
// reviewer channel.
func ReviewCaption(name, phone string, userID int64) string {
	return fmt.Sprintf("🔔 NEW PAYMENT\nName: %s\nPhone: %s\nID: %d", name, phone, userID)
}

// CaptionApproved marks the reviewer message after a grant was delivered.
const CaptionApproved = "✅ APPROVED & LINK SENT"

// CaptionApprovedLinkFailed marks an approval whose invite creation failed.
const CaptionApprovedLinkFailed = "✅ APPROVED (But link failed - check bot permissions)"

// CaptionRejected marks the reviewer message after a rejection.
const CaptionRejected = "❌ REJECTED"

// Unauthorized is shown as a callback alert to non-operator actors.
const Unauthorized = "Unauthorized"

// OperatorGrantNotice tells the operator a grant was issued automatically.
func OperatorGrantNotice(name string, userID int64) string {
	return fmt.Sprintf("🎫 Invite issued\nName: %s\nID: %d", name, userID)
}

// OperatorGrantFailure asks the operator to remediate a failed grant.
func OperatorGrantFailure(name string, userID int64, cause string) string {
	return fmt.Sprintf("⚠️ Invite creation failed\nName: %s\nID: %d\nCause: %s", name, userID, cause)
}

// InvoiceTitle and InvoiceDescription label the provider invoice.
func InvoiceTitle(lang domain.Language) string {
	return pick(lang, "Channel access", "የቻናል መግቢያ")
}

func InvoiceDescription(lang domain.Language, amount int, currency string) string {
	return pick(lang,
		fmt.Sprintf("One-time payment of %d %s for channel access.", amount, currency),
		fmt.Sprintf("ለቻናል መግቢያ የ%d %s አንድ ጊዜ ክፍያ።", amount, currency))
}
