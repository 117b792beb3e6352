package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	// Payable: the user owes the money. Receivable: the money is owed to the user.
	Payable    DebtType = "payable"
	Receivable DebtType = "receivable"
)

type (
	TransactionType string

	DebtType string

	// Date is a calendar date with no time component. The zero value marks
	// an absent optional date (e.g. a debt without a due date).
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single money movement, either income or expense.
	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Amount      Money           `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Type        TransactionType `json:"type"`
	}

	// Debt is an obligation between the user and a third party. Paid is
	// binary; there is no partial-payment tracking.
	Debt struct {
		ID          string   `json:"id"`
		PersonName  string   `json:"personName"`
		Amount      Money    `json:"amount"`
		DueDate     Date     `json:"dueDate"`
		Description string   `json:"description"`
		Type        DebtType `json:"type"`
		IsPaid      bool     `json:"isPaid"`
	}

	// SavingsGoal tracks progress toward a named target amount.
	// CurrentAmount may exceed TargetAmount; overshoot is clamped only for
	// progress-percentage display.
	SavingsGoal struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		TargetAmount  Money  `json:"targetAmount"`
		CurrentAmount Money  `json:"currentAmount"`
		Icon          string `json:"icon"`
		Color         string `json:"color"`
	}

	// FinancialSummary is derived from the current collections on every
	// read and never persisted.
	FinancialSummary struct {
		TotalIncome  Money `json:"totalIncome"`
		TotalExpense Money `json:"totalExpense"`
		Balance      Money `json:"balance"`
		SavingsTotal Money `json:"savingsTotal"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidType        = errors.New("invalid type")
	ErrEmptyPersonName    = errors.New("empty person name")
	ErrEmptyName          = errors.New("empty name")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownIcon        = errors.New("unknown icon")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t DebtType) Valid() bool {
	return t == Payable || t == Receivable
}

// NewDate creates a Date from year, month, day. Dates are anchored to UTC
// midnight so equality is purely by calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its local calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsEmpty returns true for the zero date (absent optional date).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalJSON encodes the date as "YYYY-MM-DD"; the zero date encodes as "".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD"; "" and null decode to the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

// Validate checks a transaction at entry time. Category membership is only
// enforced here; stored values are trusted afterward.
func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !KnownCategory(t.Type, t.Category) {
		return ErrUnknownCategory
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.PersonName)) == 0 {
		return ErrEmptyPersonName
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if len(d.Description) > 200 {
		return ErrDescriptionTooLong
	}
	// Due date is optional; the zero date means none.
	return nil
}

func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !KnownSavingsIcon(g.Icon) {
		return ErrUnknownIcon
	}
	return nil
}

// Progress returns goal completion as a percentage, clamped to [0, 100]
// for display. The underlying CurrentAmount is never clamped.
func (g SavingsGoal) Progress() int {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	p := g.CurrentAmount.Cents * 100 / g.TargetAmount.Cents
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return int(p)
}
