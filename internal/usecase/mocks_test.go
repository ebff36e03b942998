// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
)

// memLedger is a small in-memory ledger used by unit tests. It mirrors the
// file ledger's semantics: one record per user, stable insertion order.
type memLedger struct {
	mu        sync.RWMutex
	records   map[string]*model.SubscriptionRecord
	order     []string
	getErr    error // used by tests to simulate read failures
	upsertErr error // used by tests to simulate write failures
}

func newMemLedger() *memLedger {
	return &memLedger{records: make(map[string]*model.SubscriptionRecord)}
}

func (m *memLedger) Get(ctx context.Context, userID string) (*model.SubscriptionRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *memLedger) Upsert(ctx context.Context, rec *model.SubscriptionRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.UserID]; !ok {
		m.order = append(m.order, rec.UserID)
	}
	m.records[rec.UserID] = rec.Clone()
	return nil
}

func (m *memLedger) Update(ctx context.Context, userID string, mutate func(*model.SubscriptionRecord) error) (*model.SubscriptionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := rec.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.records[userID] = next
	return next.Clone(), nil
}

func (m *memLedger) All(ctx context.Context) ([]*model.SubscriptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.SubscriptionRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id].Clone())
	}
	return out, nil
}

func (m *memLedger) Pending(ctx context.Context) ([]*model.SubscriptionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.SubscriptionRecord, 0, len(m.order))
	for _, id := range m.order {
		if rec := m.records[id]; rec.Status == model.RecordStatusPending {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// mockNotifier records every delivery so tests can assert on notification
// traffic without a live transport.
type mockNotifier struct {
	mu               sync.Mutex
	paymentRequested []*model.SubscriptionRecord
	activated        []*model.SubscriptionRecord
	rejected         []*model.SubscriptionRecord
	rejectReasons    []string
	paymentChanged   []*model.SubscriptionRecord
	reports          map[string][]byte
	err              error // returned by every method when set
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{reports: make(map[string][]byte)}
}

func (m *mockNotifier) PaymentRequested(ctx context.Context, rec *model.SubscriptionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.paymentRequested = append(m.paymentRequested, rec.Clone())
	return nil
}

func (m *mockNotifier) PurchaseActivated(ctx context.Context, rec *model.SubscriptionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.activated = append(m.activated, rec.Clone())
	return nil
}

func (m *mockNotifier) PurchaseRejected(ctx context.Context, rec *model.SubscriptionRecord, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rejected = append(m.rejected, rec.Clone())
	m.rejectReasons = append(m.rejectReasons, reason)
	return nil
}

func (m *mockNotifier) PaymentMethodChanged(ctx context.Context, rec *model.SubscriptionRecord, oldPayment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.paymentChanged = append(m.paymentChanged, rec.Clone())
	return nil
}

func (m *mockNotifier) ReportReady(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reports[name] = append([]byte(nil), data...)
	return nil
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
