// Package sqlite implements the ledger store on a local SQLite database.
// It serves self-hosted deployments where the "remote" ledger is a file
// owned by this process.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"grana/internal/core"
	"grana/internal/ledger"
	"grana/internal/session"
)

var ErrNotFound = ledger.ErrNotFound

type Store struct {
	db *sql.DB
}

var _ ledger.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) List(ctx context.Context, sess *session.Session) ([]core.Transaction, error) {
	if sess == nil {
		return nil, errors.New("no session")
	}

	// Ties on date keep rowid order, the store-assigned order.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, date, description, category
		FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC, rowid ASC`, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
		)
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount.Cents, &dateStr, &t.Description, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", t.ID, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, sess *session.Session, d core.Draft) (core.Transaction, error) {
	if sess == nil {
		return core.Transaction{}, errors.New("no session")
	}
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx := d.WithID(uuid.NewString())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount_cents, date, description, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, sess.UserID, string(tx.Type), tx.Amount.Cents, tx.Date.String(), tx.Description, string(tx.Category))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())
	return tx, nil
}

func (s *Store) Update(ctx context.Context, sess *session.Session, t core.Transaction) (core.Transaction, error) {
	if sess == nil {
		return core.Transaction{}, errors.New("no session")
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, amount_cents = ?, date = ?, description = ?, category = ?
		WHERE id = ? AND user_id = ?`,
		string(t.Type), t.Amount.Cents, t.Date.String(), t.Description, string(t.Category),
		t.ID, sess.UserID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if affected == 0 {
		return core.Transaction{}, ErrNotFound
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, sess *session.Session, id string) error {
	if sess == nil {
		return errors.New("no session")
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, sess.UserID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
