package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, hash, message_id, occurred_at, tz_offset, type,
	amount, formatted_amount, sender, subject`

// SaveTransactions inserts transactions, ignoring ones whose hash is already
// stored. It returns how many rows were new.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		if txn.ID == "" {
			txn.ID = txn.Hash[:16]
		}
		_, offset := txn.Date.Zone()

		result, execErr := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.MessageID,
			txn.Date.Unix(),
			offset,
			string(txn.Type),
			txn.Amount.String(),
			txn.FormattedAmount,
			txn.Sender,
			txn.Subject,
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, execErr)
		}

		if n, rowsErr := result.RowsAffected(); rowsErr == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}

	return inserted, nil
}

// GetTransactionByID retrieves a transaction by ID.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetTransactions retrieves transactions matching filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)

	if filter.StartDate != nil {
		where = append(where, "occurred_at >= ?")
		args = append(args, filter.StartDate.Unix())
	}
	if filter.EndDate != nil {
		where = append(where, "occurred_at <= ?")
		args = append(args, filter.EndDate.Unix())
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(filter.Type))
	}
	if len(filter.Senders) > 0 {
		senderClauses := make([]string, 0, len(filter.Senders))
		for _, sender := range filter.Senders {
			senderClauses = append(senderClauses, "LOWER(sender) LIKE ?")
			args = append(args, "%"+strings.ToLower(strings.TrimSpace(sender))+"%")
		}
		where = append(where, "("+strings.Join(senderClauses, " OR ")+")")
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		txn       model.Transaction
		unix      int64
		offset    int
		txnType   string
		amountStr string
	)

	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.MessageID,
		&unix,
		&offset,
		&txnType,
		&amountStr,
		&txn.FormattedAmount,
		&txn.Sender,
		&txn.Subject,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return txn, err
		}
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Date = time.Unix(unix, 0).In(time.FixedZone("", offset))

	txn.Type, err = model.ParseTransactionType(txnType)
	if err != nil {
		return txn, fmt.Errorf("transaction %s: %w", txn.ID, err)
	}

	txn.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return txn, fmt.Errorf("transaction %s: invalid amount %q: %w", txn.ID, amountStr, err)
	}

	return txn, nil
}
