package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/domain/ports/adapter"
	"telegram-subscription-shop/internal/infra/content"
	"telegram-subscription-shop/internal/infra/metrics"
)

// Compile-time check
var _ adapter.Notifier = (*Notifier)(nil)

// Notifier delivers workflow notifications over Telegram. It shares the bot
// client with the polling adapter but carries no routing state of its own.
type Notifier struct {
	bot        *tgbotapi.BotAPI
	adminID    int64
	supportURL string
	texts      *content.Catalog
	log        *zerolog.Logger
}

func NewNotifier(bot *tgbotapi.BotAPI, adminID int64, supportURL string, texts *content.Catalog, logger *zerolog.Logger) *Notifier {
	return &Notifier{bot: bot, adminID: adminID, supportURL: supportURL, texts: texts, log: logger}
}

func (n *Notifier) send(c tgbotapi.Chattable) error {
	if _, err := n.bot.Send(c); err != nil {
		metrics.IncSendFailure()
		return err
	}
	return nil
}

// PaymentRequested sends the full record snapshot to the administrator with
// an approve/reject control pair keyed by the record's user.
func (n *Notifier) PaymentRequested(ctx context.Context, rec *model.SubscriptionRecord) error {
	text := n.texts.T("admin_payment_request",
		rec.UserID, rec.TransactionID, rec.Plan, rec.Payment, string(rec.Status), stampText(rec))
	msg := tgbotapi.NewMessage(n.adminID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = approvalKeyboard(rec.UserID)
	if err := n.send(msg); err != nil {
		return fmt.Errorf("notify admin of payment request: %w", err)
	}
	return nil
}

func (n *Notifier) PurchaseActivated(ctx context.Context, rec *model.SubscriptionRecord) error {
	chatID, err := chatIDOf(rec)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, n.texts.T("activated_notice", rec.TransactionID, rec.Plan, rec.Payment))
	msg.ParseMode = tgbotapi.ModeMarkdown
	return n.send(msg)
}

func (n *Notifier) PurchaseRejected(ctx context.Context, rec *model.SubscriptionRecord, reason string) error {
	chatID, err := chatIDOf(rec)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, n.texts.T("rejected_notice",
		rec.TransactionID, rec.Plan, reason, rec.Payment, n.supportURL))
	msg.ParseMode = tgbotapi.ModeMarkdown
	return n.send(msg)
}

func (n *Notifier) PaymentMethodChanged(ctx context.Context, rec *model.SubscriptionRecord, oldPayment string) error {
	chatID, err := chatIDOf(rec)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, n.texts.T("payment_changed_notice", rec.UserID, oldPayment, rec.Payment))
	msg.ParseMode = tgbotapi.ModeMarkdown
	return n.send(msg)
}

// ReportReady hands the export document to the administrator. The bytes never
// touch disk.
func (n *Notifier) ReportReady(ctx context.Context, name string, data []byte) error {
	doc := tgbotapi.NewDocument(n.adminID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if err := n.send(doc); err != nil {
		return fmt.Errorf("deliver export document: %w", err)
	}
	return nil
}

func chatIDOf(rec *model.SubscriptionRecord) (int64, error) {
	id, err := strconv.ParseInt(rec.UserID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse chat id %q: %w", rec.UserID, err)
	}
	return id, nil
}

func stampText(rec *model.SubscriptionRecord) string {
	if rec.Timestamp == nil {
		return "N/A"
	}
	return rec.Timestamp.Format("2006-01-02 15:04:05")
}
