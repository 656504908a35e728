package validate

import (
	"testing"
	"time"
)

// fixed submission clock: midnight UTC so day arithmetic is exact
var now = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func validSubmission() Submission {
	return Submission{
		Name:          "Jane Smith",
		EmployeeID:    "EMP002",
		ExpenseType:   "Office Supplies",
		BillDate:      now.AddDate(0, 0, -18).Format(DateLayout),
		Amount:        "75.50",
		ApproverEmail: "mgr@x.com",
	}
}

func TestCheck_Valid(t *testing.T) {
	if fe := Check(now, validSubmission()); fe != nil {
		t.Errorf("Check(valid) = %v, want nil", fe)
	}
}

func TestCheck_Name(t *testing.T) {
	for _, name := range []string{"", "J", "  "} {
		s := validSubmission()
		s.Name = name
		fe := Check(now, s)
		if fe == nil || fe["name"] == "" {
			t.Errorf("Check(name=%q) = %v, want name error", name, fe)
		}
	}
}

func TestCheck_EmployeeID(t *testing.T) {
	s := validSubmission()
	s.EmployeeID = "  "
	fe := Check(now, s)
	if fe == nil || fe["employeeId"] == "" {
		t.Errorf("Check(empty employeeId) = %v, want employeeId error", fe)
	}
}

func TestCheck_ExpenseType(t *testing.T) {
	for _, typ := range []string{"", "Entertainment", "travel"} {
		s := validSubmission()
		s.ExpenseType = typ
		fe := Check(now, s)
		if fe == nil || fe["expenseType"] == "" {
			t.Errorf("Check(expenseType=%q) = %v, want expenseType error", typ, fe)
		}
	}
}

// TestCheck_BillDateBoundary verifies the inclusive 30-day gate: exactly
// 30.0 days old passes, anything older fails.
func TestCheck_BillDateBoundary(t *testing.T) {
	s := validSubmission()
	s.BillDate = now.AddDate(0, 0, -30).Format(DateLayout)
	if fe := Check(now, s); fe != nil {
		t.Errorf("Check(exactly 30 days) = %v, want nil", fe)
	}

	// ~30.0001 days: same bill date, submission a few seconds later
	later := now.Add(9 * time.Second)
	if fe := Check(later, s); fe == nil || fe["billDate"] == "" {
		t.Errorf("Check(30.0001 days) = %v, want billDate error", fe)
	}

	s.BillDate = now.AddDate(0, 0, -31).Format(DateLayout)
	if fe := Check(now, s); fe == nil || fe["billDate"] == "" {
		t.Errorf("Check(31 days) = %v, want billDate error", fe)
	}
}

func TestCheck_BillDateFormat(t *testing.T) {
	for _, d := range []string{"", "28-08-2026", "2026/08/28", "not-a-date"} {
		s := validSubmission()
		s.BillDate = d
		fe := Check(now, s)
		if fe == nil || fe["billDate"] == "" {
			t.Errorf("Check(billDate=%q) = %v, want billDate error", d, fe)
		}
	}
}

// TestCheck_AmountBoundary: 0 fails, 0.01 passes.
func TestCheck_AmountBoundary(t *testing.T) {
	s := validSubmission()
	s.Amount = "0.01"
	if fe := Check(now, s); fe != nil {
		t.Errorf("Check(amount=0.01) = %v, want nil", fe)
	}

	for _, a := range []string{"0", "0.00", "-5", "-0.01"} {
		s.Amount = a
		fe := Check(now, s)
		if fe == nil || fe["amount"] == "" {
			t.Errorf("Check(amount=%q) = %v, want amount error", a, fe)
		}
	}
}

func TestCheck_AmountFormat(t *testing.T) {
	for _, a := range []string{"", "abc", "12.345"} {
		s := validSubmission()
		s.Amount = a
		fe := Check(now, s)
		if fe == nil || fe["amount"] == "" {
			t.Errorf("Check(amount=%q) = %v, want amount error", a, fe)
		}
	}
}

func TestCheck_ApproverEmail(t *testing.T) {
	for _, e := range []string{"", "mgr", "mgr@", "@x.com", "mgr@x", "mgr x@x.com"} {
		s := validSubmission()
		s.ApproverEmail = e
		fe := Check(now, s)
		if fe == nil || fe["approverEmail"] == "" {
			t.Errorf("Check(approverEmail=%q) = %v, want approverEmail error", e, fe)
		}
	}
}

// TestCheck_AllErrorsAtOnce: every violated field is reported in one
// pass, not just the first.
func TestCheck_AllErrorsAtOnce(t *testing.T) {
	fe := Check(now, Submission{})
	if fe == nil {
		t.Fatal("Check(empty) = nil, want errors")
	}
	for _, field := range []string{"name", "employeeId", "expenseType", "billDate", "amount", "approverEmail"} {
		if fe[field] == "" {
			t.Errorf("Check(empty) missing error for field %q: %v", field, fe)
		}
	}
}
