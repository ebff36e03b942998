// File: internal/usecase/review_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/domain/ports/adapter"
	"telegram-subscription-shop/internal/domain/ports/repository"
	"telegram-subscription-shop/internal/infra/metrics"
)

// DefaultRejectReason is used when the administrator supplies no reason.
const DefaultRejectReason = "Reason not provided"

// ExportFileName is the name of the delivered export document.
const ExportFileName = "user_data.txt"

// Compile-time check
var _ ReviewUseCase = (*reviewUC)(nil)

// PendingPage is one page of the pending-request list.
type PendingPage struct {
	Records      []*model.SubscriptionRecord
	Page         int
	TotalPages   int
	TotalPending int
}

// ReviewUseCase is the administrator's approval workflow. Every method
// rejects callers whose identifier does not match the configured
// administrator, without touching the ledger.
type ReviewUseCase interface {
	ListPending(ctx context.Context, callerID int64, page int) (*PendingPage, error)
	Approve(ctx context.Context, callerID int64, userID string) (*model.SubscriptionRecord, error)
	Reject(ctx context.Context, callerID int64, userID, reason string) (*model.SubscriptionRecord, error)
	ChangePaymentMethod(ctx context.Context, callerID int64, userID string, channel model.PaymentChannel) (*model.SubscriptionRecord, error)
	// BuildReport serializes every record, any status, to a flat text report.
	BuildReport(ctx context.Context, callerID int64) ([]byte, error)
	// ExportAll builds the report and delivers it to the administrator.
	// Nothing persists afterwards.
	ExportAll(ctx context.Context, callerID int64) error
}

type reviewUC struct {
	ledger   repository.LedgerRepository
	notifier adapter.Notifier
	adminID  int64
	pageSize int
	channels map[model.PaymentChannel]struct{}
	log      *zerolog.Logger
}

// NewReviewUseCase constructs the workflow. channels is the open set of
// reassignable payment channels; nil defaults to the website channel only.
func NewReviewUseCase(ledger repository.LedgerRepository, notifier adapter.Notifier, adminID int64, pageSize int, channels []model.PaymentChannel, logger *zerolog.Logger) *reviewUC {
	if pageSize <= 0 {
		pageSize = 5
	}
	if len(channels) == 0 {
		channels = []model.PaymentChannel{model.PaymentChannelWebsite}
	}
	set := make(map[model.PaymentChannel]struct{}, len(channels))
	for _, ch := range channels {
		set[ch] = struct{}{}
	}
	return &reviewUC{
		ledger:   ledger,
		notifier: notifier,
		adminID:  adminID,
		pageSize: pageSize,
		channels: set,
		log:      logger,
	}
}

func (u *reviewUC) authorize(callerID int64) error {
	if callerID != u.adminID {
		u.log.Warn().Int64("caller_id", callerID).Msg("privileged operation denied")
		return domain.ErrUnauthorized
	}
	return nil
}

func (u *reviewUC) ListPending(ctx context.Context, callerID int64, page int) (*PendingPage, error) {
	if err := u.authorize(callerID); err != nil {
		return nil, err
	}
	pending, err := u.ledger.Pending(ctx)
	if err != nil {
		return nil, err
	}
	total := len(pending)
	totalPages := (total + u.pageSize - 1) / u.pageSize
	if totalPages == 0 {
		return &PendingPage{Page: 1, TotalPages: 0, TotalPending: 0}, nil
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * u.pageSize
	end := start + u.pageSize
	if end > total {
		end = total
	}
	return &PendingPage{
		Records:      pending[start:end],
		Page:         page,
		TotalPages:   totalPages,
		TotalPending: total,
	}, nil
}

func (u *reviewUC) Approve(ctx context.Context, callerID int64, userID string) (*model.SubscriptionRecord, error) {
	if err := u.authorize(callerID); err != nil {
		return nil, err
	}
	rec, err := u.ledger.Update(ctx, userID, func(r *model.SubscriptionRecord) error {
		return r.Approve()
	})
	if err != nil {
		return nil, err
	}
	metrics.IncDecision("approved")
	refreshLedgerMetrics(ctx, u.ledger)
	u.log.Info().Str("user_id", userID).Str("transaction_id", rec.TransactionID).Msg("purchase activated")
	if err := u.notifier.PurchaseActivated(ctx, rec); err != nil {
		u.log.Error().Err(err).Str("user_id", userID).Msg("activation notice failed")
	}
	return rec, nil
}

func (u *reviewUC) Reject(ctx context.Context, callerID int64, userID, reason string) (*model.SubscriptionRecord, error) {
	if err := u.authorize(callerID); err != nil {
		return nil, err
	}
	if reason == "" {
		reason = DefaultRejectReason
	}
	rec, err := u.ledger.Update(ctx, userID, func(r *model.SubscriptionRecord) error {
		return r.Reject()
	})
	if err != nil {
		return nil, err
	}
	metrics.IncDecision("rejected")
	refreshLedgerMetrics(ctx, u.ledger)
	u.log.Info().Str("user_id", userID).Str("transaction_id", rec.TransactionID).Str("reason", reason).Msg("purchase rejected")
	if err := u.notifier.PurchaseRejected(ctx, rec, reason); err != nil {
		u.log.Error().Err(err).Str("user_id", userID).Msg("rejection notice failed")
	}
	return rec, nil
}

func (u *reviewUC) ChangePaymentMethod(ctx context.Context, callerID int64, userID string, channel model.PaymentChannel) (*model.SubscriptionRecord, error) {
	if err := u.authorize(callerID); err != nil {
		return nil, err
	}
	if _, ok := u.channels[channel]; !ok {
		return nil, domain.ErrUnknownChannel
	}
	var oldPayment string
	rec, err := u.ledger.Update(ctx, userID, func(r *model.SubscriptionRecord) error {
		oldPayment = r.Payment
		return r.ChangeChannel(channel)
	})
	if err != nil {
		return nil, err
	}
	metrics.IncDecision("payment_changed")
	u.log.Info().Str("user_id", userID).Str("channel", string(channel)).Msg("payment method changed")
	if err := u.notifier.PaymentMethodChanged(ctx, rec, oldPayment); err != nil {
		u.log.Error().Err(err).Str("user_id", userID).Msg("payment change notice failed")
	}
	return rec, nil
}

func (u *reviewUC) BuildReport(ctx context.Context, callerID int64) ([]byte, error) {
	if err := u.authorize(callerID); err != nil {
		return nil, err
	}
	all, err := u.ledger.All(ctx)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("User Data with Payment Details:\n\n")
	for _, rec := range all {
		sb.WriteString(fmt.Sprintf("User ID: %s\n", rec.UserID))
		sb.WriteString(fmt.Sprintf("Transaction ID: %s\n", orNA(rec.TransactionID)))
		sb.WriteString(fmt.Sprintf("Plan: %s\n", orNA(rec.Plan)))
		sb.WriteString(fmt.Sprintf("Payment: %s\n", orNA(rec.Payment)))
		sb.WriteString(fmt.Sprintf("Status: %s\n", orNA(string(rec.Status))))
		sb.WriteString(fmt.Sprintf("Timestamp: %s\n", timestampOrNA(rec.Timestamp)))
		sb.WriteString("────\n")
	}
	return []byte(sb.String()), nil
}

func (u *reviewUC) ExportAll(ctx context.Context, callerID int64) error {
	data, err := u.BuildReport(ctx, callerID)
	if err != nil {
		return err
	}
	if err := u.notifier.ReportReady(ctx, ExportFileName, data); err != nil {
		return fmt.Errorf("deliver report: %w", err)
	}
	u.log.Info().Int("bytes", len(data)).Msg("ledger export delivered")
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func timestampOrNA(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}
