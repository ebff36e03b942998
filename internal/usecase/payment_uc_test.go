// File: internal/usecase/payment_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/usecase"
)

var testLinks = map[model.CatalogKind]string{
	model.CatalogSubscription: "https://example.com/subscribe",
	model.CatalogRegular:      "https://example.com/members",
	model.CatalogMember:       "https://example.com/members",
}

func TestPaymentUseCase_InitiatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("should stamp the record once and notify the administrator", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		notifier := newMockNotifier()
		sel := usecase.NewSelectionUseCase(ledger, newTestLogger())
		if _, err := sel.SelectTier(ctx, "111", model.CatalogSubscription, "plan_6m"); err != nil {
			t.Fatalf("seed select failed: %v", err)
		}
		uc := usecase.NewPaymentUseCase(ledger, notifier, testLinks, newTestLogger())

		// --- Act ---
		rec, payURL, err := uc.InitiatePayment(ctx, "111")

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if rec.TransactionID == "" {
			t.Fatal("expected a transaction id to be stamped")
		}
		if len(rec.TransactionID) != 36 {
			t.Errorf("expected a UUID transaction id, got %q", rec.TransactionID)
		}
		if rec.Timestamp == nil {
			t.Error("expected the intent time to be stamped alongside the transaction id")
		}
		if payURL != "https://example.com/subscribe" {
			t.Errorf("unexpected checkout link: %s", payURL)
		}
		if len(notifier.paymentRequested) != 1 {
			t.Fatalf("expected exactly one admin notification, got %d", len(notifier.paymentRequested))
		}
		stored, _ := ledger.Get(ctx, "111")
		if stored.TransactionID != rec.TransactionID {
			t.Error("expected the stamp to be persisted")
		}
	})

	t.Run("should reuse the stamp on repeated invocation", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		notifier := newMockNotifier()
		sel := usecase.NewSelectionUseCase(ledger, newTestLogger())
		if _, err := sel.SelectTier(ctx, "111", model.CatalogMember, "member_550"); err != nil {
			t.Fatalf("seed select failed: %v", err)
		}
		uc := usecase.NewPaymentUseCase(ledger, notifier, testLinks, newTestLogger())
		first, _, err := uc.InitiatePayment(ctx, "111")
		if err != nil {
			t.Fatalf("first invocation failed: %v", err)
		}

		// --- Act ---
		second, payURL, err := uc.InitiatePayment(ctx, "111")

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if second.TransactionID != first.TransactionID {
			t.Errorf("expected the same transaction id, got %q then %q", first.TransactionID, second.TransactionID)
		}
		if !second.Timestamp.Equal(*first.Timestamp) {
			t.Error("expected the same intent time")
		}
		if payURL != "https://example.com/members" {
			t.Errorf("unexpected checkout link: %s", payURL)
		}
		if len(notifier.paymentRequested) != 1 {
			t.Errorf("expected no second admin notification, got %d", len(notifier.paymentRequested))
		}
	})

	t.Run("should mint one transaction id under concurrent taps", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		notifier := newMockNotifier()
		sel := usecase.NewSelectionUseCase(ledger, newTestLogger())
		if _, err := sel.SelectTier(ctx, "111", model.CatalogSubscription, "plan_12m"); err != nil {
			t.Fatalf("seed select failed: %v", err)
		}
		uc := usecase.NewPaymentUseCase(ledger, notifier, testLinks, newTestLogger())

		// --- Act ---
		const taps = 16
		results := make([]string, taps)
		var wg sync.WaitGroup
		for i := 0; i < taps; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec, _, err := uc.InitiatePayment(ctx, "111")
				if err != nil {
					t.Errorf("tap %d failed: %v", i, err)
					return
				}
				results[i] = rec.TransactionID
			}(i)
		}
		wg.Wait()

		// --- Assert ---
		stored, _ := ledger.Get(ctx, "111")
		if stored.TransactionID == "" {
			t.Fatal("expected the record to be stamped")
		}
		for i, id := range results {
			if id != stored.TransactionID {
				t.Errorf("tap %d saw transaction id %q, want %q", i, id, stored.TransactionID)
			}
		}
		if len(notifier.paymentRequested) != 1 {
			t.Errorf("expected exactly one admin notification, got %d", len(notifier.paymentRequested))
		}
	})

	t.Run("should fail without a selection", func(t *testing.T) {
		ledger := newMemLedger()
		uc := usecase.NewPaymentUseCase(ledger, newMockNotifier(), testLinks, newTestLogger())

		_, _, err := uc.InitiatePayment(ctx, "111")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("should refuse a terminal record", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		sel := usecase.NewSelectionUseCase(ledger, newTestLogger())
		rec, err := sel.SelectTier(ctx, "111", model.CatalogRegular, "price_350")
		if err != nil {
			t.Fatalf("seed select failed: %v", err)
		}
		if err := rec.Approve(); err != nil {
			t.Fatalf("seed approve failed: %v", err)
		}
		if err := ledger.Upsert(ctx, rec); err != nil {
			t.Fatalf("seed upsert failed: %v", err)
		}
		uc := usecase.NewPaymentUseCase(ledger, newMockNotifier(), testLinks, newTestLogger())

		// --- Act ---
		_, _, err = uc.InitiatePayment(ctx, "111")

		// --- Assert ---
		if !errors.Is(err, domain.ErrTerminalStatus) {
			t.Fatalf("expected ErrTerminalStatus, got %v", err)
		}
	})

	t.Run("should not fail the flow when the admin notification fails", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		notifier := newMockNotifier()
		notifier.err = errors.New("telegram unavailable")
		sel := usecase.NewSelectionUseCase(ledger, newTestLogger())
		if _, err := sel.SelectTier(ctx, "111", model.CatalogSubscription, "plan_3m"); err != nil {
			t.Fatalf("seed select failed: %v", err)
		}
		uc := usecase.NewPaymentUseCase(ledger, notifier, testLinks, newTestLogger())

		// --- Act ---
		rec, _, err := uc.InitiatePayment(ctx, "111")

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if rec.TransactionID == "" {
			t.Error("expected the stamp to survive the notification failure")
		}
	})

	t.Run("should route legacy records by their plan label", func(t *testing.T) {
		// --- Arrange ---
		ledger := newMemLedger()
		legacy := &model.SubscriptionRecord{
			UserID:  "222",
			Plan:    "$72 for 6 Months",
			Payment: "Payment: $72 via Website",
			Status:  model.RecordStatusPending,
			// Catalog deliberately empty, as written by earlier versions.
		}
		if err := ledger.Upsert(ctx, legacy); err != nil {
			t.Fatalf("seed upsert failed: %v", err)
		}
		uc := usecase.NewPaymentUseCase(ledger, newMockNotifier(), testLinks, newTestLogger())

		// --- Act ---
		_, payURL, err := uc.InitiatePayment(ctx, "222")

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if payURL != "https://example.com/subscribe" {
			t.Errorf("expected the subscription link for a duration plan, got %s", payURL)
		}
	})
}
