/*
Package sqlite provides the SQLite-backed store for the back office.

PURPOSE:
  Persists bookings, properties, expenses, customers, tasks, and the
  mobile-money ledger. The reporting engines (metrics, calendar) never
  touch this package directly - handlers load snapshots here and hand
  them to the pure functions.

KEY TABLES:
  properties:     Rentable units and their status
  customers:      Guest contact records
  bookings:       Stays with dual-currency totals
  expenses:       Point-in-time costs
  tasks:          Operational to-dos per property
  ledger_entries: Append-only mobile-money movements

LEDGER APPEND-ONLY ENFORCEMENT:
  ledger_entries has no UPDATE or DELETE path. Corrections are written as
  reversal entries referencing the original; reversing twice is rejected.

MONEY STORAGE:
  Both currency sides are stored as TEXT decimal strings to keep exact
  precision; dates are stored as ISO day strings (YYYY-MM-DD).

WAL MODE:
  The database is opened with WAL so readers don't block the single
  writer. Use ":memory:" for tests.

MIGRATION:
  Schema is auto-migrated on New(). Production deployments with more than
  one binary should switch to a versioned migration tool.

SEE ALSO:
  - ../../rental: Record types stored here
  - ../../api: HTTP handlers using this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/hostfolio/rental-engine/rental"
)

const dayFormat = "2006-01-02"

// Store persists all back-office records in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		guest_name TEXT NOT NULL,
		check_in TEXT NOT NULL,
		check_out TEXT NOT NULL,
		total_major TEXT NOT NULL,
		total_minor TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_property
		ON bookings(property_id);
	-- Hot path: month/week window queries for the dashboard and calendar
	CREATE INDEX IF NOT EXISTS idx_bookings_span
		ON bookings(check_in, check_out);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		property_id TEXT,
		date TEXT NOT NULL,
		amount_major TEXT NOT NULL,
		amount_minor TEXT NOT NULL,
		category TEXT,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_date
		ON expenses(date);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		title TEXT NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		created_at TEXT NOT NULL
	);

	-- Mobile-money ledger (append-only, corrections via reversal entries)
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY,
		entry_type TEXT NOT NULL,
		at TEXT NOT NULL,
		amount_major TEXT NOT NULL,
		amount_minor TEXT NOT NULL,
		note TEXT,
		reference_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_at
		ON ledger_entries(at);
	-- One reversal per entry
	CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_one_reversal
		ON ledger_entries(reference_id)
		WHERE entry_type = 'reversal';
	`

	_, err := s.db.Exec(schema)
	return err
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func parseMoney(major, minor string) (rental.Money, error) {
	maj, err := decimal.NewFromString(major)
	if err != nil {
		return rental.Money{}, fmt.Errorf("bad major amount %q: %w", major, err)
	}
	min, err := decimal.NewFromString(minor)
	if err != nil {
		return rental.Money{}, fmt.Errorf("bad minor amount %q: %w", minor, err)
	}
	return rental.Money{Major: maj, Minor: min}, nil
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(dayFormat, s)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func (s *Store) SaveProperty(ctx context.Context, p rental.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (id, name, status, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, status = excluded.status`,
		p.ID, p.Name, p.Status, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (*rental.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p rental.Property
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, status FROM properties WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &p, nil
}

func (s *Store) ListProperties(ctx context.Context) ([]rental.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status FROM properties ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var out []rental.Property
	for rows.Next() {
		var p rental.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "properties", id)
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func (s *Store) SaveCustomer(ctx context.Context, c rental.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, phone = excluded.phone,
			email = excluded.email, note = excluded.note`,
		c.ID, c.Name, c.Phone, c.Email, c.Note, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*rental.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c rental.Customer
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, email, note, created_at FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Note, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]rental.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, email, note, created_at FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var out []rental.Customer
	for rows.Next() {
		var c rental.Customer
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Note, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "customers", id)
}

// =============================================================================
// BOOKINGS
// =============================================================================

func (s *Store) SaveBooking(ctx context.Context, b rental.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings
			(id, property_id, guest_name, check_in, check_out,
			 total_major, total_minor, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			property_id = excluded.property_id,
			guest_name = excluded.guest_name,
			check_in = excluded.check_in,
			check_out = excluded.check_out,
			total_major = excluded.total_major,
			total_minor = excluded.total_minor,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		b.ID, b.PropertyID, b.GuestName,
		rental.DayOf(b.CheckIn).Format(dayFormat),
		rental.DayOf(b.CheckOut).Format(dayFormat),
		b.Total.Major.String(), b.Total.Minor.String(),
		b.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (*rental.Booking, error) {
	bookings, err := s.queryBookings(ctx,
		selectBookings+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return &bookings[0], nil
}

func (s *Store) ListBookings(ctx context.Context) ([]rental.Booking, error) {
	return s.queryBookings(ctx, selectBookings+` ORDER BY check_in ASC`)
}

// ListBookingsOverlapping returns bookings occupying at least one night of
// [from, to] inclusive - the same asymmetric boundary the calendar uses:
// check_in <= to AND check_out > from.
func (s *Store) ListBookingsOverlapping(ctx context.Context, from, to time.Time) ([]rental.Booking, error) {
	return s.queryBookings(ctx,
		selectBookings+` WHERE check_in <= ? AND check_out > ? ORDER BY check_in ASC`,
		rental.DayOf(to).Format(dayFormat), rental.DayOf(from).Format(dayFormat),
	)
}

func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "bookings", id)
}

const selectBookings = `
	SELECT id, property_id, guest_name, check_in, check_out,
	       total_major, total_minor, status
	FROM bookings`

func (s *Store) queryBookings(ctx context.Context, query string, args ...any) ([]rental.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var out []rental.Booking
	for rows.Next() {
		var b rental.Booking
		var checkIn, checkOut, major, minor string
		if err := rows.Scan(&b.ID, &b.PropertyID, &b.GuestName,
			&checkIn, &checkOut, &major, &minor, &b.Status); err != nil {
			return nil, err
		}
		if b.CheckIn, err = parseDay(checkIn); err != nil {
			return nil, err
		}
		if b.CheckOut, err = parseDay(checkOut); err != nil {
			return nil, err
		}
		if b.Total, err = parseMoney(major, minor); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) SaveExpense(ctx context.Context, e rental.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, property_id, date, amount_major, amount_minor, category, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			property_id = excluded.property_id,
			date = excluded.date,
			amount_major = excluded.amount_major,
			amount_minor = excluded.amount_minor,
			category = excluded.category,
			note = excluded.note`,
		e.ID, e.PropertyID, rental.DayOf(e.Date).Format(dayFormat),
		e.Amount.Major.String(), e.Amount.Minor.String(),
		e.Category, e.Note, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]rental.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, property_id, date, amount_major, amount_minor, category, note
		 FROM expenses ORDER BY date ASC`)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "expenses", id)
}

func (s *Store) queryExpenses(ctx context.Context, query string, args ...any) ([]rental.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var out []rental.Expense
	for rows.Next() {
		var e rental.Expense
		var day, major, minor string
		if err := rows.Scan(&e.ID, &e.PropertyID, &day, &major, &minor, &e.Category, &e.Note); err != nil {
			return nil, err
		}
		if e.Date, err = parseDay(day); err != nil {
			return nil, err
		}
		if e.Amount, err = parseMoney(major, minor); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// TASKS
// =============================================================================

func (s *Store) SaveTask(ctx context.Context, t rental.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, property_id, title, due_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			property_id = excluded.property_id,
			title = excluded.title,
			due_date = excluded.due_date,
			status = excluded.status`,
		t.ID, t.PropertyID, t.Title,
		rental.DayOf(t.DueDate).Format(dayFormat),
		t.Status, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context) ([]rental.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, property_id, title, due_date, status, created_at
		 FROM tasks ORDER BY due_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []rental.Task
	for rows.Next() {
		var t rental.Task
		var due, createdAt string
		if err := rows.Scan(&t.ID, &t.PropertyID, &t.Title, &due, &t.Status, &createdAt); err != nil {
			return nil, err
		}
		if t.DueDate, err = parseDay(due); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "tasks", id)
}

// =============================================================================
// MOBILE-MONEY LEDGER (append-only)
// =============================================================================

// AppendEntry writes a ledger entry. There is no update or delete path;
// corrections go through ReverseEntry.
func (s *Store) AppendEntry(ctx context.Context, e rental.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, entry_type, at, amount_major, amount_minor, note, reference_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Type, rental.DayOf(e.At).Format(dayFormat),
		e.Amount.Major.String(), e.Amount.Minor.String(),
		e.Note, e.ReferenceID, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return rental.ErrDuplicateID
		}
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// GetEntry returns a single ledger entry, nil when absent.
func (s *Store) GetEntry(ctx context.Context, id string) (*rental.LedgerEntry, error) {
	entries, err := s.queryEntries(ctx, selectEntries+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// ListEntries returns all ledger entries ordered by date then insertion.
func (s *Store) ListEntries(ctx context.Context) ([]rental.LedgerEntry, error) {
	return s.queryEntries(ctx, selectEntries+` ORDER BY at ASC, created_at ASC`)
}

// ReverseEntry appends a reversal undoing the entry's balance effect.
// A second reversal of the same entry is rejected with ErrEntryReversed.
func (s *Store) ReverseEntry(ctx context.Context, id, reversalID string, at time.Time) (*rental.LedgerEntry, error) {
	original, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, rental.ErrNotFound
	}
	if original.Type == rental.EntryReversal {
		return nil, rental.ErrEntryReversed
	}

	reversal := rental.LedgerEntry{
		ID:          reversalID,
		Type:        rental.EntryReversal,
		At:          rental.DayOf(at),
		Amount:      original.Signed().Neg(),
		Note:        "reversal of " + original.ID,
		ReferenceID: original.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.AppendEntry(ctx, reversal); err != nil {
		// The partial unique index on reference_id turns a double
		// reversal into a constraint violation.
		if isUniqueConstraintError(err) || errors.Is(err, rental.ErrDuplicateID) {
			return nil, rental.ErrEntryReversed
		}
		return nil, err
	}
	return &reversal, nil
}

const selectEntries = `
	SELECT id, entry_type, at, amount_major, amount_minor, note, reference_id, created_at
	FROM ledger_entries`

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]rental.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var out []rental.LedgerEntry
	for rows.Next() {
		var e rental.LedgerEntry
		var at, major, minor, createdAt string
		if err := rows.Scan(&e.ID, &e.Type, &at, &major, &minor, &e.Note, &e.ReferenceID, &createdAt); err != nil {
			return nil, err
		}
		if e.At, err = parseDay(at); err != nil {
			return nil, err
		}
		if e.Amount, err = parseMoney(major, minor); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return rental.ErrNotFound
	}
	return nil
}
