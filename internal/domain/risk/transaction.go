package risk

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidleathers/payment-risk-engine/internal/domain/errors"
)

// TransactionRecord is the immutable fact of a completed or attempted
// transfer. Records are created by the orchestrator once a transaction is
// accepted for processing and retained only inside the activity store's
// bounded per-user history.
type TransactionRecord struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Recipient string          `json:"recipient"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTransactionRecord validates and builds a transaction record.
func NewTransactionRecord(userID string, amount decimal.Decimal, currency, recipient string, createdAt time.Time) (TransactionRecord, error) {
	if userID == "" {
		return TransactionRecord{}, errors.NewValidationError("MISSING_USER_ID", "user ID is required")
	}
	if !amount.IsPositive() {
		return TransactionRecord{}, errors.NewValidationError("INVALID_AMOUNT", "amount must be positive")
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return TransactionRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
		Recipient: recipient,
		CreatedAt: createdAt,
	}, nil
}

// TransactionRequest is the orchestrator's input to Analyze. Device and
// behavioral metadata are optional; their absence must never fail an
// assessment.
type TransactionRequest struct {
	UserID    string            `json:"user_id"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  string            `json:"currency"`
	Recipient string            `json:"recipient"`
	CreatedAt time.Time         `json:"created_at"`
	Device    *DeviceInfo       `json:"device_info,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Timestamp returns the request creation time, defaulting to now for
// requests the orchestrator did not stamp.
func (r TransactionRequest) Timestamp() time.Time {
	if r.CreatedAt.IsZero() {
		return time.Now()
	}
	return r.CreatedAt
}
