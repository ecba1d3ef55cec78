package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

const (
	Food      Category = "Food"
	Transport Category = "Transport"
	Housing   Category = "Housing"
	Bills     Category = "Bills"
	Leisure   Category = "Leisure"
	Health    Category = "Health"
	Salary    Category = "Salary"
	Other     Category = "Other"
)

type (
	Type     string
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Draft is a transaction payload without an assigned id, pending
	// persistence in the ledger.
	Draft struct {
		Type        Type
		Date        Date
		Description string
		Amount      Money
		Category    Category
	}

	// Transaction is a confirmed ledger row. The id is assigned by the
	// ledger store and never changes afterwards.
	Transaction struct {
		ID          string
		Type        Type
		Date        Date
		Description string
		Amount      Money
		Category    Category
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrMissingID        = errors.New("missing transaction id")
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{Food, Transport, Housing, Bills, Leisure, Health, Salary, Other}
}

func (t Type) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (c Category) Validate() error {
	for _, known := range Categories() {
		if c == known {
			return nil
		}
	}
	return ErrInvalidCategory
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NewDate creates a Date from year, month, day. Time of day is always zero UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date in YYYY-MM-DD form, the only wire format used.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (dr Draft) Validate() error {
	if err := dr.Type.Validate(); err != nil {
		return err
	}
	if err := dr.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(dr.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(dr.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := dr.Amount.Validate(); err != nil {
		return err
	}
	return dr.Category.Validate()
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	return t.Draft().Validate()
}

// Draft strips the id, yielding the payload resubmitted on update.
func (t Transaction) Draft() Draft {
	return Draft{
		Type:        t.Type,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
	}
}

// WithID attaches a store-assigned id to a draft.
func (dr Draft) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Type:        dr.Type,
		Date:        dr.Date,
		Description: dr.Description,
		Amount:      dr.Amount,
		Category:    dr.Category,
	}
}
