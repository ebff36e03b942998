// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/domain/ports/adapter"
	"telegram-subscription-shop/internal/domain/ports/repository"
	"telegram-subscription-shop/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// InitiatePayment stamps the user's pending record with a transaction
	// identifier and intent time, notifies the administrator, and returns the
	// checkout URL for the record's catalog. Re-invoking on an already
	// stamped pending record returns the same stamp without notifying the
	// administrator again.
	InitiatePayment(ctx context.Context, userID string) (*model.SubscriptionRecord, string, error)
}

type paymentUC struct {
	ledger   repository.LedgerRepository
	notifier adapter.Notifier
	links    map[model.CatalogKind]string
	log      *zerolog.Logger
}

func NewPaymentUseCase(ledger repository.LedgerRepository, notifier adapter.Notifier, links map[model.CatalogKind]string, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{ledger: ledger, notifier: notifier, links: links, log: logger}
}

func (u *paymentUC) InitiatePayment(ctx context.Context, userID string) (*model.SubscriptionRecord, string, error) {
	// The stamp decision runs inside the store's critical section so two
	// concurrent taps cannot both observe an unstamped record.
	var stamped bool
	rec, err := u.ledger.Update(ctx, userID, func(r *model.SubscriptionRecord) error {
		if r.Status != model.RecordStatusPending {
			return domain.ErrTerminalStatus
		}
		if r.Stamped() {
			return nil
		}
		stamped = true
		return r.StampPayment(uuid.NewString(), time.Now())
	})
	if err != nil {
		if errors.Is(err, domain.ErrTerminalStatus) {
			u.log.Warn().Str("user_id", userID).Msg("payment attempted on terminal record")
		}
		return nil, "", err
	}

	if stamped {
		metrics.IncPaymentIntent()
		u.log.Info().Str("user_id", userID).Str("transaction_id", rec.TransactionID).
			Str("plan", rec.Plan).Msg("payment intent stamped")

		// Transport failure must not fail the user's flow.
		if err := u.notifier.PaymentRequested(ctx, rec); err != nil {
			u.log.Error().Err(err).Str("user_id", userID).Msg("admin notification failed")
		}
	} else {
		u.log.Debug().Str("user_id", userID).Str("transaction_id", rec.TransactionID).
			Msg("payment intent already stamped, reusing")
	}

	return rec, u.linkFor(rec), nil
}

// linkFor routes the checkout link by catalog kind. Records written before the
// kind was stored fall back to the duration marker in the plan label.
func (u *paymentUC) linkFor(rec *model.SubscriptionRecord) string {
	kind := rec.Catalog
	if kind == "" {
		if strings.Contains(rec.Plan, "Months") {
			kind = model.CatalogSubscription
		} else {
			kind = model.CatalogMember
		}
	}
	return u.links[kind]
}
