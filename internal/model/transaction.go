package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money movement inferred from an email.
type TransactionType string

// Transaction type constants.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
	TypeUnknown TransactionType = "unknown"
)

// Label returns the display label shown to users.
func (t TransactionType) Label() string {
	switch t {
	case TypeIncome:
		return "Pendapatan"
	case TypeExpense:
		return "Pengeluaran"
	default:
		return "Tidak diketahui"
	}
}

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeUnknown:
		return true
	}
	return false
}

// ParseTransactionType converts a stored or user-supplied value into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Transaction is a single financial transaction extracted from an email.
// Values are immutable once created by the extractor.
type Transaction struct {
	Date            time.Time
	Amount          decimal.Decimal
	ID              string
	MessageID       string // Source message identifier (Gmail id or file name)
	Type            TransactionType
	FormattedAmount string // e.g. "Rp 150.000"
	Sender          string // Raw From header
	Subject         string
	Hash            string
}

// FormattedDate returns the date the way the tracker table shows it.
func (t *Transaction) FormattedDate() string {
	return t.Date.Format("02/01/2006")
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.MessageID,
		t.Date.UTC().Format(time.RFC3339),
		t.Amount.StringFixed(2),
		t.Sender)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
