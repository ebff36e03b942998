package adapter

import (
	"context"

	"telegram-subscription-shop/internal/domain/model"
)

// Notifier delivers workflow events over the messaging transport. The
// usecases stay transport-agnostic; the Telegram adapter renders the texts
// and inline controls.
type Notifier interface {
	// PaymentRequested notifies the administrator of a new payment intent
	// with approve/reject controls keyed by the record's user.
	PaymentRequested(ctx context.Context, rec *model.SubscriptionRecord) error
	// PurchaseActivated notifies the user with the final record snapshot.
	PurchaseActivated(ctx context.Context, rec *model.SubscriptionRecord) error
	// PurchaseRejected notifies the user with the rejection reason.
	PurchaseRejected(ctx context.Context, rec *model.SubscriptionRecord, reason string) error
	// PaymentMethodChanged notifies the user of a channel reassignment.
	PaymentMethodChanged(ctx context.Context, rec *model.SubscriptionRecord, oldPayment string) error
	// ReportReady delivers a generated export document to the administrator.
	ReportReady(ctx context.Context, name string, data []byte) error
}
