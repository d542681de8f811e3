package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dinero/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the transaction store. Every query is scoped by the
// owning user id; no operation can read or mutate another user's rows.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection, for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// tableFor maps an entry kind to its table. The name is interpolated into
// SQL, so only the two known constants are ever accepted.
func tableFor(kind core.EntryKind) (string, error) {
	switch kind {
	case core.KindExpense:
		return "expenses", nil
	case core.KindIncome:
		return "incomes", nil
	}
	return "", fmt.Errorf("unknown entry kind %q", kind)
}

func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, title, category, amount_cents, date, description, split_with)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Title, e.Category, e.Amount.Cents, e.Date.String(), e.Description, e.SplitWith)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", e.UserID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())

	return id, nil
}

func (r *SQLiteRepository) InsertIncome(ctx context.Context, in core.Income) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO incomes (user_id, source, amount_cents, date, description)
		VALUES (?, ?, ?, ?, ?)`,
		in.UserID, in.Source, in.Amount.Cents, in.Date.String(), in.Description)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income id: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"id", id,
		"user_id", in.UserID,
		"amount_cents", in.Amount.Cents,
		"date", in.Date.String())

	return id, nil
}

// SumAmount sums amounts of the given kind within the inclusive range.
// An empty category means no category filter; the sum of zero rows is 0.
func (r *SQLiteRepository) SumAmount(ctx context.Context, userID int64, kind core.EntryKind, dr core.DateRange, category string) (core.Money, error) {
	table, err := tableFor(kind)
	if err != nil {
		return core.Money{}, err
	}

	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM ` + table + ` WHERE user_id = ? AND date BETWEEN ? AND ?`
	args := []any{userID, dr.Start.String(), dr.End.String()}
	if category != "" {
		if kind != core.KindExpense {
			return core.Money{}, fmt.Errorf("category filter only applies to expenses")
		}
		query += ` AND category = ?`
		args = append(args, category)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("sum %s: %w", table, err)
	}
	return core.Money{Cents: cents}, nil
}

// SumByDate returns per-day sums for dates that have at least one row,
// ascending. Empty days are absent; zero-filling is the trend builder's job.
func (r *SQLiteRepository) SumByDate(ctx context.Context, userID int64, kind core.EntryKind, dr core.DateRange) ([]core.DateAmount, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT date, COALESCE(SUM(amount_cents), 0)
		FROM `+table+`
		WHERE user_id = ? AND date BETWEEN ? AND ?
		GROUP BY date ORDER BY date`,
		userID, dr.Start.String(), dr.End.String())
	if err != nil {
		return nil, fmt.Errorf("sum %s by date: %w", table, err)
	}
	defer rows.Close()

	var out []core.DateAmount
	for rows.Next() {
		var dateStr string
		var cents int64
		if err := rows.Scan(&dateStr, &cents); err != nil {
			return nil, fmt.Errorf("scan date sum: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		out = append(out, core.DateAmount{Date: d, Amount: core.Money{Cents: cents}})
	}
	return out, rows.Err()
}

// SumByCategory returns all-time expense sums per category, one entry per
// category with at least one expense, in grouping (lexicographic) order.
func (r *SQLiteRepository) SumByCategory(ctx context.Context, userID int64) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COALESCE(SUM(amount_cents), 0)
		FROM expenses
		WHERE user_id = ?
		GROUP BY category ORDER BY category`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Category, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

// MonthlyExpenseTotals returns expense totals grouped by calendar month
// across all time, ascending by month token.
func (r *SQLiteRepository) MonthlyExpenseTotals(ctx context.Context, userID int64) ([]core.MonthAmount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(date, 1, 7) AS month, COALESCE(SUM(amount_cents), 0)
		FROM expenses
		WHERE user_id = ?
		GROUP BY month ORDER BY month`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	var out []core.MonthAmount
	for rows.Next() {
		var ma core.MonthAmount
		if err := rows.Scan(&ma.Month, &ma.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		out = append(out, ma)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, dr core.DateRange) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, category, amount_cents, date, description, split_with
		FROM expenses
		WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC, id DESC`,
		userID, dr.Start.String(), dr.End.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// ListAllExpenses returns every expense the user owns, newest first.
func (r *SQLiteRepository) ListAllExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, category, amount_cents, date, description, split_with
		FROM expenses
		WHERE user_id = ?
		ORDER BY date DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list all expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var dateStr string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Category, &e.Amount.Cents, &dateStr, &e.Description, &e.SplitWith); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		e.Date = d
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID int64, dr core.DateRange) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, source, amount_cents, date, description
		FROM incomes
		WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC, id DESC`,
		userID, dr.Start.String(), dr.End.String())
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var in core.Income
		var dateStr string
		if err := rows.Scan(&in.ID, &in.UserID, &in.Source, &in.Amount.Cents, &dateStr, &in.Description); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		in.Date = d
		out = append(out, in)
	}
	return out, rows.Err()
}

// GetBudget returns the budget for (user, category, month), or nil when no
// such row exists.
func (r *SQLiteRepository) GetBudget(ctx context.Context, userID int64, category, month string) (*core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, month, amount_cents
		FROM budgets
		WHERE user_id = ? AND category = ? AND month = ?`,
		userID, category, month).Scan(&b.ID, &b.UserID, &b.Category, &b.Month, &b.Amount.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &b, nil
}

// ListBudgets returns the month's budget rows in insertion order.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64, month string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, month, amount_cents
		FROM budgets
		WHERE user_id = ? AND month = ?
		ORDER BY id`,
		userID, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Month, &b.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpsertBudget saves a budget, replacing any prior amount for the same
// (user, category, month) triple. The row id is stable across overwrites.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, month, amount_cents)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, category, month) DO UPDATE SET amount_cents = excluded.amount_cents`,
		b.UserID, b.Category, b.Month, b.Amount.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id, userID int64) error {
	return r.deleteOwned(ctx, "budgets", id, userID)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id, userID int64) error {
	return r.deleteOwned(ctx, "expenses", id, userID)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id, userID int64) error {
	return r.deleteOwned(ctx, "incomes", id, userID)
}

func (r *SQLiteRepository) deleteOwned(ctx context.Context, table string, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteAll clears every expense and income the user owns. Budgets survive.
func (r *SQLiteRepository) DeleteAll(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear incomes: %w", err)
	}

	slog.InfoContext(ctx, "All transactions cleared", "user_id", userID)
	return nil
}

// CreateUser inserts a user. On a unique-constraint failure the existing
// rows are re-queried to determine which field conflicted, so the caller
// gets a tagged ConflictError rather than driver error text.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (int64, error) {
	var email any
	if u.Email != "" {
		email = strings.ToLower(u.Email)
	}
	var limit any
	if u.DailyLimit != nil {
		limit = u.DailyLimit.Cents
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, daily_limit_cents)
		VALUES (?, ?, ?, ?)`,
		u.Username, email, u.PasswordHash, limit)
	if err != nil {
		if conflict := r.classifyUserConflict(ctx, u.Username, u.Email); conflict != nil {
			return 0, conflict
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) classifyUserConflict(ctx context.Context, username, email string) *core.ConflictError {
	var existingUsername string
	var existingEmail sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT username, email FROM users
		WHERE username = ? OR (email IS NOT NULL AND email = lower(?))
		LIMIT 1`,
		username, email).Scan(&existingUsername, &existingEmail)
	if err != nil {
		return nil
	}
	if existingUsername == username {
		return &core.ConflictError{Reason: core.DuplicateUsername}
	}
	if email != "" && existingEmail.Valid && existingEmail.String == strings.ToLower(email) {
		return &core.ConflictError{Reason: core.DuplicateEmail}
	}
	return &core.ConflictError{Reason: core.ConflictUnknown}
}

// GetUserByLogin finds a user by username or (case-insensitive) email.
func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, identifier string) (*core.User, error) {
	return r.getUser(ctx, `
		SELECT id, username, COALESCE(email, ''), password_hash, daily_limit_cents
		FROM users
		WHERE username = ? OR (email IS NOT NULL AND email = lower(?))`,
		identifier, identifier)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (*core.User, error) {
	return r.getUser(ctx, `
		SELECT id, username, COALESCE(email, ''), password_hash, daily_limit_cents
		FROM users
		WHERE id = ?`,
		id)
}

func (r *SQLiteRepository) getUser(ctx context.Context, query string, args ...any) (*core.User, error) {
	var u core.User
	var limit sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &limit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if limit.Valid {
		u.DailyLimit = &core.Money{Cents: limit.Int64}
	}
	return &u, nil
}

func (r *SQLiteRepository) SetDailyLimit(ctx context.Context, userID int64, limit *core.Money) error {
	var v any
	if limit != nil {
		v = limit.Cents
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET daily_limit_cents = ? WHERE id = ?`, v, userID)
	if err != nil {
		return fmt.Errorf("set daily limit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set daily limit: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
