package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/ADhailu/Biruh-ken-bot/core/telegram/keyboard"
	"github.com/ADhailu/Biruh-ken-bot/core/telegram/sender"
)

// TelebotGateway implements Gateway on top of a telebot bot instance. The bot
// is attached via Bind after construction because the services that depend on
// the gateway are assembled before the bot itself exists.
type TelebotGateway struct {
	bot  *tele.Bot
	disp *sender.Dispatcher
	// channelID is the restricted resource invite links are minted for.
	channelID int64
	// providerToken authorizes invoice creation with the payment provider.
	providerToken string
}

// NewTelebotGateway creates an unbound gateway.
func NewTelebotGateway(channelID int64, providerToken string) *TelebotGateway {
	return &TelebotGateway{
		channelID:     channelID,
		providerToken: providerToken,
	}
}

// Bind attaches the bot instance. Must be called before any send.
func (g *TelebotGateway) Bind(bot *tele.Bot) {
	g.bot = bot
}

// BindDispatcher attaches the async sender used for best-effort notices.
// Without a dispatcher those sends fall back to synchronous delivery.
func (g *TelebotGateway) BindDispatcher(d *sender.Dispatcher) {
	g.disp = d
}

func recipient(userID int64) tele.Recipient {
	return &tele.User{ID: userID}
}

func (g *TelebotGateway) SendText(_ context.Context, userID int64, text string) error {
	_, err := g.bot.Send(recipient(userID), text, &tele.SendOptions{
		ReplyMarkup: keyboard.RemoveKeyboard(),
	})
	if err != nil {
		return fmt.Errorf("send text to %d: %w", userID, err)
	}
	return nil
}

func (g *TelebotGateway) SendMarkdown(_ context.Context, userID int64, text string) error {
	_, err := g.bot.Send(recipient(userID), text, &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: keyboard.RemoveKeyboard(),
	})
	if err != nil {
		return fmt.Errorf("send markdown to %d: %w", userID, err)
	}
	return nil
}

func (g *TelebotGateway) SendLanguageMenu(_ context.Context, userID int64, prompt string, labels ...string) error {
	markup := keyboard.ReplyButtons(labels)
	markup.OneTimeKeyboard = true
	if _, err := g.bot.Send(recipient(userID), prompt, markup); err != nil {
		return fmt.Errorf("send language menu to %d: %w", userID, err)
	}
	return nil
}

func (g *TelebotGateway) RequestContact(_ context.Context, userID int64, prompt, buttonLabel string) error {
	markup := keyboard.ContactButton(buttonLabel)
	if _, err := g.bot.Send(recipient(userID), prompt, markup); err != nil {
		return fmt.Errorf("request contact from %d: %w", userID, err)
	}
	return nil
}

func (g *TelebotGateway) ForwardReceipt(_ context.Context, reviewerID, userID int64, photoID, caption string) error {
	payload := strconv.FormatInt(userID, 10)
	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Approve", Unique: CallbackApprove, Data: payload},
		{Text: "❌ Reject", Unique: CallbackReject, Data: payload},
	})

	photo := &tele.Photo{
		File:    tele.File{FileID: photoID},
		Caption: caption,
	}
	if _, err := g.bot.Send(recipient(reviewerID), photo, markup); err != nil {
		return fmt.Errorf("forward receipt of %d: %w", userID, err)
	}
	return nil
}

func (g *TelebotGateway) CreateInviteLink(_ context.Context) (string, error) {
	link, err := g.bot.CreateInviteLink(&tele.Chat{ID: g.channelID}, &tele.ChatInviteLink{
		MemberLimit: 1,
	})
	if err != nil {
		return "", fmt.Errorf("create invite link for %d: %w", g.channelID, err)
	}
	return link.InviteLink, nil
}

func (g *TelebotGateway) SendInvoice(_ context.Context, userID int64, inv Invoice) error {
	invoice := &tele.Invoice{
		Title:       inv.Title,
		Description: inv.Description,
		Payload:     inv.Payload,
		Currency:    inv.Currency,
		Token:       g.providerToken,
		Prices: []tele.Price{
			// The provider expects amounts in minor currency units.
			{Label: inv.Title, Amount: inv.Amount * 100},
		},
	}
	if _, err := g.bot.Send(recipient(userID), invoice); err != nil {
		return fmt.Errorf("send invoice to %d: %w", userID, err)
	}
	return nil
}

func (g *TelebotGateway) NotifyOperator(ctx context.Context, operatorID int64, text string) error {
	send := func() error {
		_, err := g.bot.Send(recipient(operatorID), text)
		return err
	}
	if g.disp == nil {
		return send()
	}
	if err := g.disp.Enqueue(ctx, "notify.operator", "sendMessage", send); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			return send()
		}
		return err
	}
	return nil
}
