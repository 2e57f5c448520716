package store

import (
	"errors"
	"fmt"
	"sync"

	"AvalancheForecaster/internal/model"

	"github.com/shopspring/decimal"
)

// ErrNotFound reports an index outside a record list.
var ErrNotFound = errors.New("record not found")

// Store guards the records file. Every mutation is validated as a whole and
// written to disk before it becomes visible.
type Store struct {
	mu   sync.Mutex
	data *model.FinancialData
	path string
}

// Open loads path, creating an empty records file when none exists.
func Open(path string) (*Store, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateAll(data.Paychecks, data.Bills, data.Debts, data.Goals); err != nil {
		return nil, fmt.Errorf("records %s: %w", path, err)
	}
	s := &Store{data: data, path: path}
	if err := Save(path, s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// Data returns a copy of the records.
func (s *Store) Data() model.FinancialData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.data)
}

// SetBalance records the current account balance.
func (s *Store) SetBalance(balance decimal.Decimal) error {
	return s.mutate(func(d *model.FinancialData) error {
		d.Balance = balance
		return nil
	})
}

func (s *Store) AddPaycheck(p model.IncomeSpec) error {
	return s.mutate(func(d *model.FinancialData) error {
		d.Paychecks = append(d.Paychecks, p)
		return nil
	})
}

func (s *Store) UpdatePaycheck(i int, p model.IncomeSpec) error {
	return s.mutate(func(d *model.FinancialData) error { return replace(d.Paychecks, i, p) })
}

func (s *Store) DeletePaycheck(i int) error {
	return s.mutate(func(d *model.FinancialData) (err error) {
		d.Paychecks, err = remove(d.Paychecks, i)
		return err
	})
}

func (s *Store) AddBill(b model.BillSpec) error {
	return s.mutate(func(d *model.FinancialData) error {
		d.Bills = append(d.Bills, b)
		return nil
	})
}

func (s *Store) UpdateBill(i int, b model.BillSpec) error {
	return s.mutate(func(d *model.FinancialData) error { return replace(d.Bills, i, b) })
}

func (s *Store) DeleteBill(i int) error {
	return s.mutate(func(d *model.FinancialData) (err error) {
		d.Bills, err = remove(d.Bills, i)
		return err
	})
}

func (s *Store) AddDebt(debt model.DebtSpec) error {
	return s.mutate(func(d *model.FinancialData) error {
		d.Debts = append(d.Debts, debt)
		return nil
	})
}

// UpdateDebt replaces a debt. A rename is carried over to linked bills.
func (s *Store) UpdateDebt(i int, debt model.DebtSpec) error {
	return s.mutate(func(d *model.FinancialData) error {
		if i < 0 || i >= len(d.Debts) {
			return fmt.Errorf("%w: debt %d", ErrNotFound, i+1)
		}
		if old := d.Debts[i].Name; old != debt.Name {
			for j := range d.Bills {
				if d.Bills[j].Debt == old {
					d.Bills[j].Debt = debt.Name
				}
			}
		}
		d.Debts[i] = debt
		return nil
	})
}

// DeleteDebt removes a debt. It fails while a bill is still linked to it.
func (s *Store) DeleteDebt(i int) error {
	return s.mutate(func(d *model.FinancialData) (err error) {
		d.Debts, err = remove(d.Debts, i)
		return err
	})
}

func (s *Store) AddGoal(g model.GoalSpec) error {
	return s.mutate(func(d *model.FinancialData) error {
		d.Goals = append(d.Goals, g)
		return nil
	})
}

func (s *Store) UpdateGoal(i int, g model.GoalSpec) error {
	return s.mutate(func(d *model.FinancialData) error { return replace(d.Goals, i, g) })
}

func (s *Store) DeleteGoal(i int) error {
	return s.mutate(func(d *model.FinancialData) (err error) {
		d.Goals, err = remove(d.Goals, i)
		return err
	})
}

// ToggleGoal flips a goal between enabled and disabled and returns the goal
// as saved.
func (s *Store) ToggleGoal(i int) (model.GoalSpec, error) {
	var out model.GoalSpec
	err := s.mutate(func(d *model.FinancialData) error {
		if i < 0 || i >= len(d.Goals) {
			return fmt.Errorf("%w: goal %d", ErrNotFound, i+1)
		}
		enabled := !d.Goals[i].IsEnabled()
		d.Goals[i].Enabled = &enabled
		out = d.Goals[i]
		return nil
	})
	return out, err
}

// mutate applies fn to a copy, validates the result and persists it.
func (s *Store) mutate(fn func(*model.FinancialData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(s.data)
	if err := fn(&next); err != nil {
		return err
	}
	if err := model.ValidateAll(next.Paychecks, next.Bills, next.Debts, next.Goals); err != nil {
		return err
	}
	if err := Save(s.path, &next); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	s.data = &next
	return nil
}

func replace[T any](list []T, i int, v T) error {
	if i < 0 || i >= len(list) {
		return fmt.Errorf("%w: index %d", ErrNotFound, i+1)
	}
	list[i] = v
	return nil
}

func remove[T any](list []T, i int) ([]T, error) {
	if i < 0 || i >= len(list) {
		return list, fmt.Errorf("%w: index %d", ErrNotFound, i+1)
	}
	return append(list[:i], list[i+1:]...), nil
}

func clone(d *model.FinancialData) model.FinancialData {
	out := *d
	out.Paychecks = append([]model.IncomeSpec(nil), d.Paychecks...)
	out.Bills = append([]model.BillSpec(nil), d.Bills...)
	out.Debts = append([]model.DebtSpec(nil), d.Debts...)
	out.Goals = make([]model.GoalSpec, len(d.Goals))
	for i, g := range d.Goals {
		if g.Enabled != nil {
			enabled := *g.Enabled
			g.Enabled = &enabled
		}
		out.Goals[i] = g
	}
	return out
}
