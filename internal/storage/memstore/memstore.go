// Package memstore is an in-memory transaction store with the same
// semantics as the sqlite repository: user-scoped queries, insertion-order
// budgets, lexicographic category grouping, ascending date sums. It backs
// DATA_BACKEND=memory and the service-layer tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"dinero/internal/core"
)

type Store struct {
	mu       sync.Mutex
	nextID   int64
	users    []core.User
	expenses []core.Expense
	incomes  []core.Income
	budgets  []core.Budget
}

func New() *Store {
	return &Store{nextID: 1}
}

// Ping always succeeds; the store has no external dependency.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) InsertExpense(_ context.Context, e core.Expense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) InsertIncome(_ context.Context, in core.Income) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = s.id()
	s.incomes = append(s.incomes, in)
	return in.ID, nil
}

func (s *Store) SumAmount(_ context.Context, userID int64, kind core.EntryKind, dr core.DateRange, category string) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cents int64
	switch kind {
	case core.KindExpense:
		for _, e := range s.expenses {
			if e.UserID == userID && dr.Contains(e.Date) && (category == "" || e.Category == category) {
				cents += e.Amount.Cents
			}
		}
	case core.KindIncome:
		if category != "" {
			return core.Money{}, fmt.Errorf("category filter only applies to expenses")
		}
		for _, in := range s.incomes {
			if in.UserID == userID && dr.Contains(in.Date) {
				cents += in.Amount.Cents
			}
		}
	default:
		return core.Money{}, fmt.Errorf("unknown entry kind %q", kind)
	}
	return core.Money{Cents: cents}, nil
}

func (s *Store) SumByDate(_ context.Context, userID int64, kind core.EntryKind, dr core.DateRange) ([]core.DateAmount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]int64)
	switch kind {
	case core.KindExpense:
		for _, e := range s.expenses {
			if e.UserID == userID && dr.Contains(e.Date) {
				sums[e.Date.String()] += e.Amount.Cents
			}
		}
	case core.KindIncome:
		for _, in := range s.incomes {
			if in.UserID == userID && dr.Contains(in.Date) {
				sums[in.Date.String()] += in.Amount.Cents
			}
		}
	default:
		return nil, fmt.Errorf("unknown entry kind %q", kind)
	}

	dates := make([]string, 0, len(sums))
	for d := range sums {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]core.DateAmount, 0, len(dates))
	for _, ds := range dates {
		d, err := core.ParseDate(ds)
		if err != nil {
			return nil, err
		}
		out = append(out, core.DateAmount{Date: d, Amount: core.Money{Cents: sums[ds]}})
	}
	return out, nil
}

func (s *Store) SumByCategory(_ context.Context, userID int64) ([]core.CategoryAmount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]int64)
	for _, e := range s.expenses {
		if e.UserID == userID {
			sums[e.Category] += e.Amount.Cents
		}
	}

	cats := make([]string, 0, len(sums))
	for c := range sums {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	out := make([]core.CategoryAmount, 0, len(cats))
	for _, c := range cats {
		out = append(out, core.CategoryAmount{Category: c, Amount: core.Money{Cents: sums[c]}})
	}
	return out, nil
}

func (s *Store) MonthlyExpenseTotals(_ context.Context, userID int64) ([]core.MonthAmount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]int64)
	for _, e := range s.expenses {
		if e.UserID == userID {
			sums[core.MonthOf(e.Date)] += e.Amount.Cents
		}
	}

	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]core.MonthAmount, 0, len(months))
	for _, m := range months {
		out = append(out, core.MonthAmount{Month: m, Amount: core.Money{Cents: sums[m]}})
	}
	return out, nil
}

func (s *Store) ListExpenses(_ context.Context, userID int64, dr core.DateRange) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && dr.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sortNewestFirst(out, func(e core.Expense) (string, int64) { return e.Date.String(), e.ID })
	return out, nil
}

func (s *Store) ListAllExpenses(_ context.Context, userID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortNewestFirst(out, func(e core.Expense) (string, int64) { return e.Date.String(), e.ID })
	return out, nil
}

func (s *Store) ListIncomes(_ context.Context, userID int64, dr core.DateRange) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Income
	for _, in := range s.incomes {
		if in.UserID == userID && dr.Contains(in.Date) {
			out = append(out, in)
		}
	}
	sortNewestFirst(out, func(in core.Income) (string, int64) { return in.Date.String(), in.ID })
	return out, nil
}

func sortNewestFirst[T any](items []T, key func(T) (string, int64)) {
	sort.SliceStable(items, func(i, j int) bool {
		di, idi := key(items[i])
		dj, idj := key(items[j])
		if di != dj {
			return di > dj
		}
		return idi > idj
	})
}

func (s *Store) GetBudget(_ context.Context, userID int64, category, month string) (*core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.budgets {
		if b.UserID == userID && b.Category == category && b.Month == month {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) ListBudgets(_ context.Context, userID int64, month string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Budget
	for _, b := range s.budgets {
		if b.UserID == userID && b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) UpsertBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.budgets {
		if existing.UserID == b.UserID && existing.Category == b.Category && existing.Month == b.Month {
			s.budgets[i].Amount = b.Amount
			return nil
		}
	}
	b.ID = s.id()
	s.budgets = append(s.budgets, b)
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.budgets {
		if b.ID == id && b.UserID == userID {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID == id && e.UserID == userID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteIncome(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, in := range s.incomes {
		if in.ID == id && in.UserID == userID {
			s.incomes = append(s.incomes[:i], s.incomes[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteAll(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keepExpenses := s.expenses[:0]
	for _, e := range s.expenses {
		if e.UserID != userID {
			keepExpenses = append(keepExpenses, e)
		}
	}
	s.expenses = keepExpenses

	keepIncomes := s.incomes[:0]
	for _, in := range s.incomes {
		if in.UserID != userID {
			keepIncomes = append(keepIncomes, in)
		}
	}
	s.incomes = keepIncomes
	return nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return 0, &core.ConflictError{Reason: core.DuplicateUsername}
		}
		if email != "" && existing.Email == email {
			return 0, &core.ConflictError{Reason: core.DuplicateEmail}
		}
	}

	u.ID = s.id()
	u.Email = email
	s.users = append(s.users, u)
	return u.ID, nil
}

func (s *Store) GetUserByLogin(_ context.Context, identifier string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lowered := strings.ToLower(identifier)
	for _, u := range s.users {
		if u.Username == identifier || (u.Email != "" && u.Email == lowered) {
			found := u
			return &found, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) GetUser(_ context.Context, id int64) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) SetDailyLimit(_ context.Context, userID int64, limit *core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == userID {
			s.users[i].DailyLimit = limit
			return nil
		}
	}
	return core.ErrNotFound
}
