package model

import (
	"fmt"
	"strings"
	"time"

	"telegram-subscription-shop/internal/domain"
)

type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "pending"
	RecordStatusActivated RecordStatus = "activated"
	RecordStatusRejected  RecordStatus = "rejected"
)

// PaymentChannel is an open enumeration of checkout channels. Only the
// website channel is configured today; admins can reassign records to any
// channel the deployment introduces later.
type PaymentChannel string

const PaymentChannelWebsite PaymentChannel = "Website"

// SubscriptionRecord is one user's current purchase request. A user has at
// most one record; selecting a new tier overwrites the previous record.
type SubscriptionRecord struct {
	UserID        string       `json:"-"` // ledger key, not duplicated in the stored object
	Plan          string       `json:"plan"`
	Payment       string       `json:"payment"`
	Status        RecordStatus `json:"status"`
	Catalog       CatalogKind  `json:"catalog,omitempty"`
	TransactionID string       `json:"transaction_id,omitempty"`
	Timestamp     *time.Time   `json:"timestamp,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// NewSubscriptionRecord builds a fresh pending record for the given tier.
func NewSubscriptionRecord(userID string, kind CatalogKind, tier Tier) (*SubscriptionRecord, error) {
	if userID == "" || tier.ID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &SubscriptionRecord{
		UserID:    userID,
		Plan:      tier.Label,
		Payment:   fmt.Sprintf("Payment: %s via %s", tier.Price, PaymentChannelWebsite),
		Status:    RecordStatusPending,
		Catalog:   kind,
		CreatedAt: time.Now(),
	}, nil
}

// Stamped reports whether a payment intent has already been recorded.
func (r *SubscriptionRecord) Stamped() bool {
	return r.TransactionID != ""
}

// StampPayment records the transaction identifier and intent time. Both are
// set together exactly once; a record keeps its stamp until reselection.
func (r *SubscriptionRecord) StampPayment(transactionID string, at time.Time) error {
	if r.Status != RecordStatusPending {
		return domain.ErrTerminalStatus
	}
	if r.Stamped() {
		return domain.ErrInvalidArgument
	}
	r.TransactionID = transactionID
	r.Timestamp = &at
	return nil
}

// Approve transitions pending -> activated. Terminal records stay put.
func (r *SubscriptionRecord) Approve() error {
	if r.Status != RecordStatusPending {
		return domain.ErrTerminalStatus
	}
	r.Status = RecordStatusActivated
	return nil
}

// Reject transitions pending -> rejected. Terminal records stay put.
func (r *SubscriptionRecord) Reject() error {
	if r.Status != RecordStatusPending {
		return domain.ErrTerminalStatus
	}
	r.Status = RecordStatusRejected
	return nil
}

// ChangeChannel rewrites the channel suffix of the payment line while keeping
// the price prefix, e.g. "Payment: $25 via Website" -> "Payment: $25 via X".
func (r *SubscriptionRecord) ChangeChannel(ch PaymentChannel) error {
	if ch == "" {
		return domain.ErrUnknownChannel
	}
	prefix := r.Payment
	if i := strings.Index(prefix, " via"); i >= 0 {
		prefix = prefix[:i]
	}
	r.Payment = fmt.Sprintf("%s via %s", prefix, ch)
	return nil
}

// Clone returns a deep copy so callers can hand records across goroutines.
func (r *SubscriptionRecord) Clone() *SubscriptionRecord {
	cp := *r
	if r.Timestamp != nil {
		ts := *r.Timestamp
		cp.Timestamp = &ts
	}
	return &cp
}
