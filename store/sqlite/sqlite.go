/*
Package sqlite provides the SQLite-backed contract directory and entry store.

PURPOSE:
  Implements contracts.Directory and contracts.EntryStore on SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  contracts:            Contract records (upload results, editable fields)
  amortization_entries: Committed schedule rows, replaced wholesale per
                        contract on every confirmed edit

REPLACE-WHOLESALE CONTRACT:
  Commits are all-or-nothing upstream, so ReplaceEntries swaps a
  contract's saved schedule atomically inside one transaction. There is
  no row-level UPDATE path for entries.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/contracts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - contracts/directory.go: Interface definitions
  - contracts/fixture.go:   In-memory counterpart for tests/demos
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/amortization-engine/amort"
	"github.com/warp/amortization-engine/contracts"
)

// Store implements contracts.Directory and contracts.EntryStore.
type Store struct {
	db *sql.DB
}

var (
	_ contracts.Directory  = (*Store)(nil)
	_ contracts.EntryStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contracts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		total_amount TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		tax_rate TEXT NOT NULL,
		vendor_name TEXT NOT NULL,
		attachment_name TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_created_at
		ON contracts(created_at DESC);

	CREATE TABLE IF NOT EXISTS amortization_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_id INTEGER NOT NULL REFERENCES contracts(id),
		amortization_period TEXT NOT NULL,
		accounting_period TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_contract
		ON amortization_entries(contract_id, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DIRECTORY - contracts.Directory implementation
// =============================================================================

// List returns one page of contracts, newest first. Pages count from 0.
func (s *Store) List(ctx context.Context, page, size int) (contracts.Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contracts`).Scan(&total); err != nil {
		return contracts.Page{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, total_amount, start_date, end_date, tax_rate,
		       vendor_name, attachment_name, status, created_at
		FROM contracts
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, size, page*size)
	if err != nil {
		return contracts.Page{}, err
	}
	defer rows.Close()

	var result []amort.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return contracts.Page{}, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return contracts.Page{}, err
	}

	return contracts.Page{Contracts: result, TotalCount: total}, nil
}

// Get returns a single contract or contracts.ErrContractNotFound.
func (s *Store) Get(ctx context.Context, id amort.ContractID) (amort.Contract, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, total_amount, start_date, end_date, tax_rate,
		       vendor_name, attachment_name, status, created_at
		FROM contracts WHERE id = ?`, int64(id))

	c, err := scanContract(row)
	if err == sql.ErrNoRows {
		return amort.Contract{}, contracts.ErrContractNotFound
	}
	if err != nil {
		return amort.Contract{}, err
	}
	return c, nil
}

// Create inserts a contract record and returns it with its assigned ID.
func (s *Store) Create(ctx context.Context, c amort.Contract) (amort.Contract, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = amort.ContractActive
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts
			(total_amount, start_date, end_date, tax_rate,
			 vendor_name, attachment_name, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.TotalAmount.String(),
		c.StartDate.UTC().Format("2006-01-02"),
		c.EndDate.UTC().Format("2006-01-02"),
		c.TaxRate.String(),
		c.VendorName,
		c.AttachmentName,
		string(c.Status),
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return amort.Contract{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return amort.Contract{}, err
	}
	c.ID = amort.ContractID(id)
	return c, nil
}

// Update replaces the editable fields of a contract. Attachment name and
// creation time are preserved.
func (s *Store) Update(ctx context.Context, id amort.ContractID, req contracts.UpdateRequest) (amort.Contract, error) {
	if err := contracts.ValidateUpdate(req); err != nil {
		return amort.Contract{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE contracts
		SET total_amount = ?, start_date = ?, end_date = ?, tax_rate = ?, vendor_name = ?
		WHERE id = ?`,
		req.TotalAmount.String(),
		req.StartDate.UTC().Format("2006-01-02"),
		req.EndDate.UTC().Format("2006-01-02"),
		req.TaxRate.String(),
		req.VendorName,
		int64(id),
	)
	if err != nil {
		return amort.Contract{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return amort.Contract{}, err
	}
	if affected == 0 {
		return amort.Contract{}, contracts.ErrContractNotFound
	}
	return s.Get(ctx, id)
}

// =============================================================================
// ENTRY STORE - contracts.EntryStore implementation
// =============================================================================

// ReplaceEntries swaps the contract's saved schedule inside one
// transaction and returns the rows with their persisted IDs.
func (s *Store) ReplaceEntries(ctx context.Context, id amort.ContractID, entries []amort.AmortizationEntry) ([]amort.AmortizationEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM amortization_entries WHERE contract_id = ?`, int64(id)); err != nil {
		return nil, err
	}

	saved := make([]amort.AmortizationEntry, len(entries))
	for i, e := range entries {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO amortization_entries
				(contract_id, amortization_period, accounting_period, amount, status, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			int64(id), e.AmortizationPeriod, e.AccountingPeriod,
			e.Amount.String(), string(e.Status), i)
		if err != nil {
			return nil, err
		}
		entryID, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		e.ID = &entryID
		saved[i] = e
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// Entries returns the contract's committed rows in schedule order.
func (s *Store) Entries(ctx context.Context, id amort.ContractID) ([]amort.AmortizationEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amortization_period, accounting_period, amount, status
		FROM amortization_entries
		WHERE contract_id = ?
		ORDER BY position`, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []amort.AmortizationEntry
	for rows.Next() {
		var (
			entryID int64
			e       amort.AmortizationEntry
			amount  string
			status  string
		)
		if err := rows.Scan(&entryID, &e.AmortizationPeriod, &e.AccountingPeriod, &amount, &status); err != nil {
			return nil, err
		}
		e.ID = &entryID
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount for entry %d: %w", entryID, err)
		}
		e.Status = amort.EntryStatus(status)
		result = append(result, e)
	}
	return result, rows.Err()
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(r rowScanner) (amort.Contract, error) {
	var (
		c              amort.Contract
		id             int64
		total, taxRate string
		start, end     string
		status         string
		createdAt      string
	)
	if err := r.Scan(&id, &total, &start, &end, &taxRate,
		&c.VendorName, &c.AttachmentName, &status, &createdAt); err != nil {
		return amort.Contract{}, err
	}

	c.ID = amort.ContractID(id)
	c.Status = amort.ContractStatus(status)

	var err error
	if c.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return amort.Contract{}, fmt.Errorf("corrupt total_amount for contract %d: %w", id, err)
	}
	if c.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
		return amort.Contract{}, fmt.Errorf("corrupt tax_rate for contract %d: %w", id, err)
	}
	if c.StartDate, err = time.Parse("2006-01-02", start); err != nil {
		return amort.Contract{}, fmt.Errorf("corrupt start_date for contract %d: %w", id, err)
	}
	if c.EndDate, err = time.Parse("2006-01-02", end); err != nil {
		return amort.Contract{}, fmt.Errorf("corrupt end_date for contract %d: %w", id, err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return amort.Contract{}, fmt.Errorf("corrupt created_at for contract %d: %w", id, err)
	}
	return c, nil
}
