package strategy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Tags accepted in debt records.
const (
	TagCreditCard  = "credit_card"
	TagRevolving   = "revolving"
	TagGeneric     = "generic"
	TagAppleCard   = "apple_card"
	TagGracePeriod = "grace_period"
)

// ErrUnknownStrategy reports a tag with no registered implementation.
var ErrUnknownStrategy = errors.New("unknown strategy")

// StatementFloor is the smallest statement-card minimum before add-ons.
var StatementFloor = decimal.NewFromInt(25)

// InterestMethodFor resolves an interest method tag. Blank means revolving.
func InterestMethodFor(tag string) (InterestMethod, error) {
	switch tag {
	case "", TagCreditCard, TagRevolving:
		return Revolving{}, nil
	case TagAppleCard, TagGracePeriod:
		return GracePeriod{}, nil
	default:
		return nil, fmt.Errorf("%w: interest method %q", ErrUnknownStrategy, tag)
	}
}

// MinimumFormulaFor resolves a minimum payment formula tag. Blank means a
// Fixed minimum; callers set its Amount from the stored minimum payment.
func MinimumFormulaFor(tag string) (MinimumFormula, error) {
	switch tag {
	case "":
		return Fixed{}, nil
	case TagCreditCard, TagGeneric:
		return GenericCard{}, nil
	case TagAppleCard:
		return StatementCard{Floor: StatementFloor}, nil
	default:
		return nil, fmt.Errorf("%w: minimum payment formula %q", ErrUnknownStrategy, tag)
	}
}
