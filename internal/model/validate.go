package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrMalformedSpec reports a record that is missing or has an invalid field.
var ErrMalformedSpec = errors.New("malformed spec")

var validate = validator.New()

func malformed(kind, name, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s %q: %s", ErrMalformedSpec, kind, name, fmt.Sprintf(format, args...))
}

func checkStruct(kind, name string, v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return malformed(kind, name, "%v", err)
	}
	return nil
}

func checkNonNegative(kind, name, field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return malformed(kind, name, "%s must not be negative", field)
	}
	return nil
}

// Validate checks a single income record.
func (s IncomeSpec) Validate() error {
	if err := checkStruct("income", s.Name, s); err != nil {
		return err
	}
	if s.FirstDate.IsZero() {
		return malformed("income", s.Name, "date is required")
	}
	return checkNonNegative("income", s.Name, "amount", s.Amount)
}

// Validate checks a single bill record.
func (s BillSpec) Validate() error {
	if err := checkStruct("bill", s.Name, s); err != nil {
		return err
	}
	if s.FirstDate.IsZero() {
		return malformed("bill", s.Name, "date is required")
	}
	return checkNonNegative("bill", s.Name, "amount", s.Amount)
}

// Validate checks a single goal record.
func (s GoalSpec) Validate() error {
	if err := checkStruct("goal", s.Name, s); err != nil {
		return err
	}
	if s.TargetDate.IsZero() {
		return malformed("goal", s.Name, "date is required")
	}
	return checkNonNegative("goal", s.Name, "amount", s.Amount)
}

// Validate checks a single debt record.
func (s DebtSpec) Validate() error {
	if err := checkStruct("debt", s.Name, s); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"balance", s.Balance},
		{"apr", s.APR},
		{"minimum_payment", s.MinimumPayment},
	}
	for _, f := range fields {
		if err := checkNonNegative("debt", s.Name, f.name, f.value); err != nil {
			return err
		}
	}
	if s.MinimumPayment.IsPositive() && s.DueDate.IsZero() {
		return malformed("debt", s.Name, "due_date is required when a minimum payment is set")
	}
	return nil
}

// ValidateAll checks every record and the links between them.
func ValidateAll(incomes []IncomeSpec, bills []BillSpec, debts []DebtSpec, goals []GoalSpec) error {
	names := make(map[string]bool, len(debts))
	for _, d := range debts {
		if err := d.Validate(); err != nil {
			return err
		}
		if names[d.Name] {
			return malformed("debt", d.Name, "duplicate name")
		}
		names[d.Name] = true
	}
	for _, s := range incomes {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, b := range bills {
		if err := b.Validate(); err != nil {
			return err
		}
		if b.Debt != "" && !names[b.Debt] {
			return malformed("bill", b.Name, "linked debt %q does not exist", b.Debt)
		}
	}
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}
