// Package extract turns raw notification emails into typed transactions.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/classification"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/currency"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// Extraction errors. None of them abort a batch; they only explain why a
// single message was dropped.
var (
	ErrNoAmount = errors.New("no currency amount found")
	ErrNoDate   = errors.New("message has no usable date")
)

// Classifier assigns a transaction type from message text.
type Classifier interface {
	Classify(subject, body string) model.TransactionType
}

// Extractor converts raw messages into transactions. It holds no mutable
// state and is safe for concurrent use.
type Extractor struct {
	classifier Classifier
	logger     *slog.Logger
}

// New creates an extractor with the given classifier.
func New(classifier Classifier, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		classifier: classifier,
		logger:     logger,
	}
}

// NewDefault creates an extractor using the default keyword patterns.
func NewDefault(logger *slog.Logger) *Extractor {
	return New(classification.NewDefaultDetector(), logger)
}

// ExtractMessage turns one message into a transaction. It returns ErrNoAmount
// when the text has no currency amount, a currency.ErrInvalidAmount error when
// the amount does not normalize, and ErrNoDate when no timestamp is available.
func (e *Extractor) ExtractMessage(msg *model.RawMessage) (model.Transaction, error) {
	text := NormalizeWhitespace(DecodeBody(msg))

	amount, err := ParseAmount(text)
	if err != nil {
		return model.Transaction{}, err
	}

	date, err := messageDate(msg)
	if err != nil {
		return model.Transaction{}, err
	}

	subject := msg.Header("Subject")

	txn := model.Transaction{
		Date:            date,
		Amount:          amount,
		MessageID:       msg.ID,
		Type:            e.classifier.Classify(subject, text),
		FormattedAmount: currency.FormatRupiah(amount),
		Sender:          msg.Header("From"),
		Subject:         subject,
	}
	txn.Hash = txn.GenerateHash()
	txn.ID = txn.Hash[:16]

	return txn, nil
}

// Extract converts every message it can and returns the transactions sorted
// newest first. Messages that cannot be converted are dropped.
func (e *Extractor) Extract(messages []model.RawMessage) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(messages))
	dropped := 0

	for i := range messages {
		txn, err := e.ExtractMessage(&messages[i])
		if err != nil {
			dropped++
			e.logger.Debug("Dropping message",
				"message_id", messages[i].ID,
				"reason", err)
			continue
		}
		transactions = append(transactions, txn)
	}

	SortNewestFirst(transactions)

	e.logger.Debug("Extracted transactions",
		"messages", len(messages),
		"transactions", len(transactions),
		"dropped", dropped)

	return transactions
}

// SortNewestFirst orders transactions by date descending, keeping the input
// order for equal dates.
func SortNewestFirst(transactions []model.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
}

func messageDate(msg *model.RawMessage) (time.Time, error) {
	if header := msg.Header("Date"); header != "" {
		date, err := parseDateHeader(header)
		if err == nil {
			return date, nil
		}
		if msg.InternalDate.IsZero() {
			return time.Time{}, fmt.Errorf("%w: %v", ErrNoDate, err)
		}
	}

	if msg.InternalDate.IsZero() {
		return time.Time{}, ErrNoDate
	}
	return msg.InternalDate, nil
}

// parseDateHeader parses an RFC 2822 date, tolerating a trailing zone comment
// such as "(WIB)".
func parseDateHeader(header string) (time.Time, error) {
	s := strings.TrimSpace(header)
	if i := strings.Index(s, "("); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	return mail.ParseDate(s)
}
