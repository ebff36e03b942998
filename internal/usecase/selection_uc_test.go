// File: internal/usecase/selection_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/usecase"
)

func TestSelectionUseCase_SelectTier(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a fresh pending record without a stamp", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		uc := usecase.NewSelectionUseCase(ledger, newTestLogger())

		// --- Act ---
		rec, err := uc.SelectTier(ctx, "111", model.CatalogSubscription, "plan_3m")

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if rec.Status != model.RecordStatusPending {
			t.Errorf("expected status 'pending', but got '%s'", rec.Status)
		}
		if rec.TransactionID != "" {
			t.Errorf("expected no transaction id on a fresh record, but got '%s'", rec.TransactionID)
		}
		if rec.Timestamp != nil {
			t.Error("expected no timestamp on a fresh record")
		}
		if rec.Plan != "$45 for 3 Months" {
			t.Errorf("unexpected plan label: %s", rec.Plan)
		}
		if rec.Payment != "Payment: $45 via Website" {
			t.Errorf("unexpected payment line: %s", rec.Payment)
		}
	})

	t.Run("should overwrite a prior record, terminal or not", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		uc := usecase.NewSelectionUseCase(ledger, newTestLogger())
		first, err := uc.SelectTier(ctx, "111", model.CatalogSubscription, "plan_12m")
		if err != nil {
			t.Fatalf("seed select failed: %v", err)
		}
		first.TransactionID = "txn-old"
		first.Status = model.RecordStatusActivated
		if err := ledger.Upsert(ctx, first); err != nil {
			t.Fatalf("seed upsert failed: %v", err)
		}

		// --- Act ---
		rec, err := uc.SelectTier(ctx, "111", model.CatalogMember, "member_250")

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if rec.Status != model.RecordStatusPending {
			t.Errorf("expected replacement record to be pending, got '%s'", rec.Status)
		}
		if rec.TransactionID != "" {
			t.Error("expected the old stamp to be discarded")
		}
		stored, err := ledger.Get(ctx, "111")
		if err != nil {
			t.Fatalf("stored record missing: %v", err)
		}
		if stored.Plan != "250 Sites $15" {
			t.Errorf("ledger still holds the old record: %s", stored.Plan)
		}
		all, _ := ledger.All(ctx)
		if len(all) != 1 {
			t.Errorf("expected exactly one record per user, got %d", len(all))
		}
	})

	t.Run("should reject an unknown tier without writing", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		uc := usecase.NewSelectionUseCase(ledger, newTestLogger())

		// --- Act ---
		_, err := uc.SelectTier(ctx, "111", model.CatalogSubscription, "plan_99m")

		// --- Assert ---
		if !errors.Is(err, domain.ErrUnknownTier) {
			t.Fatalf("expected ErrUnknownTier, got %v", err)
		}
		if _, err := ledger.Get(ctx, "111"); !errors.Is(err, domain.ErrNotFound) {
			t.Error("expected ledger to stay untouched")
		}
	})

	t.Run("should reject an unknown catalog kind", func(t *testing.T) {
		ledger := newMemLedger()
		uc := usecase.NewSelectionUseCase(ledger, newTestLogger())

		_, err := uc.SelectTier(ctx, "111", model.CatalogKind("vip"), "plan_3m")
		if !errors.Is(err, domain.ErrUnknownTier) {
			t.Fatalf("expected ErrUnknownTier, got %v", err)
		}
	})

	t.Run("should surface ledger write failures", func(t *testing.T) {
		ledger := newMemLedger()
		ledger.upsertErr = errors.New("disk full")
		uc := usecase.NewSelectionUseCase(ledger, newTestLogger())

		_, err := uc.SelectTier(ctx, "111", model.CatalogRegular, "price_250")
		if err == nil {
			t.Fatal("expected an error, but got nil")
		}
	})
}
