// File: internal/usecase/selection_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/domain/ports/repository"
	"telegram-subscription-shop/internal/infra/metrics"
)

// Compile-time check
var _ SelectionUseCase = (*selectionUC)(nil)

type SelectionUseCase interface {
	// SelectTier validates the tier against the active catalog and overwrites
	// the user's ledger record with a fresh pending one. Any prior record,
	// terminal or not, is discarded.
	SelectTier(ctx context.Context, userID string, kind model.CatalogKind, tierID string) (*model.SubscriptionRecord, error)
}

type selectionUC struct {
	ledger repository.LedgerRepository
	log    *zerolog.Logger
}

func NewSelectionUseCase(ledger repository.LedgerRepository, logger *zerolog.Logger) *selectionUC {
	return &selectionUC{ledger: ledger, log: logger}
}

func (u *selectionUC) SelectTier(ctx context.Context, userID string, kind model.CatalogKind, tierID string) (*model.SubscriptionRecord, error) {
	tier, err := model.LookupTier(kind, tierID)
	if err != nil {
		return nil, err
	}
	rec, err := model.NewSubscriptionRecord(userID, kind, tier)
	if err != nil {
		return nil, err
	}
	if err := u.ledger.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", userID).Str("tier", tier.Label).Str("catalog", string(kind)).Msg("tier selected")
	refreshLedgerMetrics(ctx, u.ledger)
	return rec, nil
}

// refreshLedgerMetrics republishes the per-status record gauge after a
// mutation. Best-effort.
func refreshLedgerMetrics(ctx context.Context, ledger repository.LedgerRepository) {
	all, err := ledger.All(ctx)
	if err != nil {
		return
	}
	counts := map[model.RecordStatus]int{
		model.RecordStatusPending:   0,
		model.RecordStatusActivated: 0,
		model.RecordStatusRejected:  0,
	}
	for _, rec := range all {
		counts[rec.Status]++
	}
	for status, n := range counts {
		metrics.SetLedgerRecords(string(status), n)
	}
}
