package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

const mpinLength = 6

func ValidateMPIN(mpin string) error {
	if len(mpin) != mpinLength {
		return NewValidationError("mpin", "must be exactly 6 digits")
	}
	for _, r := range mpin {
		if r < '0' || r > '9' {
			return NewValidationError("mpin", "must be exactly 6 digits")
		}
	}
	return nil
}

func ParsePositiveAmount(input string) (decimal.Decimal, error) {
	return parsePositiveDecimal("amount", input)
}

func ParsePrice(input string) (decimal.Decimal, error) {
	return parsePositiveDecimal("price", input)
}

func ValidatePositiveDecimal(field string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return NewValidationError(field, "must be positive")
	}
	return nil
}

func ValidatePositiveQuantity(quantity int) error {
	if quantity <= 0 {
		return NewValidationError("quantity", "must be a positive integer")
	}
	return nil
}

func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}

func parsePositiveDecimal(field, input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Decimal{}, NewValidationError(field, "is required")
	}

	value, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Decimal{}, NewValidationError(field, "is not a number")
	}

	if err := ValidatePositiveDecimal(field, value); err != nil {
		return decimal.Decimal{}, err
	}

	return value, nil
}
