// File: internal/infra/storage/file_ledger.go
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.LedgerRepository = (*FileLedger)(nil)

// FileLedger keeps the whole ledger in memory and rewrites one JSON file on
// every mutation. The file is a single object mapping user-identifier strings
// to record objects; optional fields stay absent until set. All access is
// serialized by a mutex because the Telegram adapter handles updates on
// concurrent workers.
type FileLedger struct {
	path string
	log  *zerolog.Logger

	mu      sync.Mutex
	records map[string]*model.SubscriptionRecord
	order   []string // userIDs in insertion order
}

// NewFileLedger loads the ledger from path. A missing or unparseable file is
// treated as an empty ledger, never a startup failure.
func NewFileLedger(path string, logger *zerolog.Logger) *FileLedger {
	l := &FileLedger{
		path:    path,
		log:     logger,
		records: make(map[string]*model.SubscriptionRecord),
	}
	l.load()
	return l
}

func (l *FileLedger) load() {
	b, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn().Err(err).Str("path", l.path).Msg("ledger file unreadable, starting empty")
		}
		return
	}
	var raw map[string]*model.SubscriptionRecord
	if err := json.Unmarshal(b, &raw); err != nil {
		l.log.Warn().Err(err).Str("path", l.path).Msg("ledger file corrupt, starting empty")
		return
	}
	for userID, rec := range raw {
		rec.UserID = userID
		l.records[userID] = rec
		l.order = append(l.order, userID)
	}
	// JSON objects carry no key order, so rebuild a deterministic insertion
	// order from creation times with the user id as tiebreaker.
	sort.SliceStable(l.order, func(i, j int) bool {
		a, b := l.records[l.order[i]], l.records[l.order[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.UserID < b.UserID
	})
	l.log.Info().Int("records", len(l.records)).Str("path", l.path).Msg("ledger loaded")
}

// persistLocked rewrites the whole file. Full rewrite is fine at this scale;
// the write goes through a temp file so a crash never leaves a torn ledger.
func (l *FileLedger) persistLocked() error {
	b, err := json.MarshalIndent(l.records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func (l *FileLedger) Get(ctx context.Context, userID string) (*model.SubscriptionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec.Clone(), nil
}

func (l *FileLedger) Upsert(ctx context.Context, rec *model.SubscriptionRecord) error {
	if rec == nil || rec.UserID == "" {
		return domain.ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.records[rec.UserID]; !exists {
		l.order = append(l.order, rec.UserID)
	}
	l.records[rec.UserID] = rec.Clone()
	return l.persistLocked()
}

func (l *FileLedger) Update(ctx context.Context, userID string, mutate func(*model.SubscriptionRecord) error) (*model.SubscriptionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Mutate a copy so a failed persist cannot leave the in-memory state
	// ahead of the file.
	next := rec.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	l.records[userID] = next
	if err := l.persistLocked(); err != nil {
		l.records[userID] = rec
		return nil, err
	}
	return next.Clone(), nil
}

func (l *FileLedger) All(ctx context.Context) ([]*model.SubscriptionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*model.SubscriptionRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.records[id].Clone())
	}
	return out, nil
}

func (l *FileLedger) Pending(ctx context.Context) ([]*model.SubscriptionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*model.SubscriptionRecord
	for _, id := range l.order {
		if rec := l.records[id]; rec.Status == model.RecordStatusPending {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}
