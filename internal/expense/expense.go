package expense

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Type enumerates the reimbursable expense categories.
type Type string

const (
	TypeTravel         Type = "Travel"
	TypeMobile         Type = "Mobile"
	TypeFoodDrinks     Type = "Food/Drinks"
	TypeOfficeSupplies Type = "Office Supplies"
	TypeFuel           Type = "Fuel"
	TypeOthers         Type = "Others"
)

// Types returns the enumerated set in display order.
func Types() []Type {
	return []Type{
		TypeTravel,
		TypeMobile,
		TypeFoodDrinks,
		TypeOfficeSupplies,
		TypeFuel,
		TypeOthers,
	}
}

// ValidType reports whether s is one of the enumerated expense types.
func ValidType(s string) bool {
	for _, t := range Types() {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of an expense request.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ValidDecision reports whether s is a terminal verdict an approver may issue.
func ValidDecision(s string) bool {
	return s == string(StatusApproved) || s == string(StatusRejected)
}

// ParseAmount converts a decimal money string to cents.
// Amounts are stored in cents to avoid float error, e.g. 75.50 = 7550.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than 2 decimal places", s)
	}
	return cents.IntPart(), nil
}

// FormatCents renders cents as a money string with two decimals.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
