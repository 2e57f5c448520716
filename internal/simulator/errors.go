package simulator

import (
	"errors"
	"fmt"

	"AvalancheForecaster/internal/calendar"
	"AvalancheForecaster/internal/money"

	"github.com/shopspring/decimal"
)

// ErrInsufficientFunds is matched by every ShortfallError.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ShortfallError reports the first day cash goes, or is projected to go,
// below zero.
type ShortfallError struct {
	Date      calendar.Date
	Balance   decimal.Decimal
	Projected bool
}

func (e *ShortfallError) Error() string {
	if e.Projected {
		return fmt.Sprintf("insufficient funds: balance projected to reach %s on %s", money.Format(e.Balance), e.Date)
	}
	return fmt.Sprintf("insufficient funds: balance %s on %s", money.Format(e.Balance), e.Date)
}

func (e *ShortfallError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
