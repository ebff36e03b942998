package repository

import (
	"context"

	"telegram-subscription-shop/internal/domain/model"
)

// LedgerRepository is the persistent mapping of user identifier to
// subscription record. Iteration order is stable insertion order so that
// pagination stays deterministic across renders.
type LedgerRepository interface {
	// Get returns the user's record or domain.ErrNotFound.
	Get(ctx context.Context, userID string) (*model.SubscriptionRecord, error)
	// Upsert writes the record and flushes it to durable storage before
	// returning.
	Upsert(ctx context.Context, rec *model.SubscriptionRecord) error
	// Update loads the user's record, applies mutate and persists the result,
	// all inside one critical section, so concurrent mutations of the same
	// record serialize and each mutate sees the latest state. A mutate error
	// aborts the update and leaves the record untouched. Returns the updated
	// record, or domain.ErrNotFound when absent.
	Update(ctx context.Context, userID string, mutate func(*model.SubscriptionRecord) error) (*model.SubscriptionRecord, error)
	// All returns every record in insertion order.
	All(ctx context.Context) ([]*model.SubscriptionRecord, error)
	// Pending returns records with status pending, in insertion order.
	Pending(ctx context.Context) ([]*model.SubscriptionRecord, error)
}
