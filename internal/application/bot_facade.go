package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/infra/content"
	"telegram-subscription-shop/internal/usecase"
)

// BotFacade composes usecases into high-level bot operations.
// Facade methods return rendered strings so the Telegram adapter just
// forwards them to the chat; keyboards stay with the adapter.
type BotFacade struct {
	SelUC usecase.SelectionUseCase
	PayUC usecase.PaymentUseCase
	RevUC usecase.ReviewUseCase
	Texts *content.Catalog
}

func NewBotFacade(selUC usecase.SelectionUseCase, payUC usecase.PaymentUseCase, revUC usecase.ReviewUseCase, texts *content.Catalog) *BotFacade {
	return &BotFacade{SelUC: selUC, PayUC: payUC, RevUC: revUC, Texts: texts}
}

var catalogNouns = map[model.CatalogKind]string{
	model.CatalogSubscription: "💎 Subscription Plan",
	model.CatalogRegular:      "💰 Regular Price",
	model.CatalogMember:       "👥 Subscription Member Price",
}

// HandleSelect records the tier choice and returns the checkout prompt.
func (b *BotFacade) HandleSelect(ctx context.Context, chatID int64, kind model.CatalogKind, tierID string) (string, error) {
	rec, err := b.SelUC.SelectTier(ctx, strconv.FormatInt(chatID, 10), kind, tierID)
	if err != nil {
		return "", fmt.Errorf("select tier: %w", err)
	}
	return b.Texts.T("tier_selected", catalogNouns[kind], rec.Plan), nil
}

// HandlePay stamps the payment intent and returns the website payment message.
// A missing or already-decided record yields the "selection not found" text.
func (b *BotFacade) HandlePay(ctx context.Context, chatID int64) (string, error) {
	rec, payURL, err := b.PayUC.InitiatePayment(ctx, strconv.FormatInt(chatID, 10))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTerminalStatus) {
			return b.Texts.T("selection_not_found"), nil
		}
		return "", fmt.Errorf("initiate payment: %w", err)
	}
	return b.Texts.T("payment_message", rec.TransactionID, rec.Plan, payURL), nil
}

// HandleAdminPanel renders one page of the pending list. The returned page is
// nil when there is nothing pending.
func (b *BotFacade) HandleAdminPanel(ctx context.Context, callerID int64, page int) (string, *usecase.PendingPage, error) {
	pp, err := b.RevUC.ListPending(ctx, callerID, page)
	if err != nil {
		return "", nil, err
	}
	if pp.TotalPending == 0 {
		return b.Texts.T("no_pending"), nil, nil
	}
	var sb strings.Builder
	sb.WriteString(b.Texts.T("admin_panel_header", pp.Page, pp.TotalPages, pp.TotalPending))
	sb.WriteString("\n\n")
	for _, rec := range pp.Records {
		sb.WriteString(b.Texts.T("admin_panel_entry",
			rec.UserID, orNA(rec.TransactionID), rec.Plan, rec.Payment, timestampText(rec)))
		sb.WriteString("\n")
	}
	sb.WriteString(b.Texts.T("admin_panel_footer"))
	return sb.String(), pp, nil
}

// HandleApprove applies the approve decision and returns a short confirmation.
func (b *BotFacade) HandleApprove(ctx context.Context, callerID int64, userID string) (string, error) {
	if _, err := b.RevUC.Approve(ctx, callerID, userID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Activated purchase for User ID %s", userID), nil
}

// HandleReject applies the reject decision and returns a short confirmation.
func (b *BotFacade) HandleReject(ctx context.Context, callerID int64, userID, reason string) (string, error) {
	if _, err := b.RevUC.Reject(ctx, callerID, userID, reason); err != nil {
		return "", err
	}
	return fmt.Sprintf("Rejected purchase for User ID %s", userID), nil
}

// HandleChangePayment reassigns the record's payment channel.
func (b *BotFacade) HandleChangePayment(ctx context.Context, callerID int64, userID string, channel model.PaymentChannel) (string, error) {
	if _, err := b.RevUC.ChangePaymentMethod(ctx, callerID, userID, channel); err != nil {
		return "", err
	}
	return fmt.Sprintf("Payment method changed to %s for User ID %s", channel, userID), nil
}

// HandleExport delivers the full-ledger report to the administrator.
func (b *BotFacade) HandleExport(ctx context.Context, callerID int64) (string, error) {
	if err := b.RevUC.ExportAll(ctx, callerID); err != nil {
		return "", err
	}
	return fmt.Sprintf("User data downloaded as '%s'", usecase.ExportFileName), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func timestampText(rec *model.SubscriptionRecord) string {
	if rec.Timestamp == nil {
		return "N/A"
	}
	return rec.Timestamp.Format("2006-01-02 15:04:05")
}
