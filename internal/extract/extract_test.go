package extract

import (
	"testing"

	"grana/internal/core"
)

func ptr[T any](v T) *T { return &v }

func baseDraft() core.Draft {
	return core.Draft{
		Type:     core.Expense,
		Category: core.Other,
	}
}

func TestApplyAllFields(t *testing.T) {
	f := Fields{
		Amount:      ptr(42.9),
		Date:        ptr("2025-07-01"),
		Description: ptr("  Corner Market  "),
	}
	d := f.Apply(baseDraft())
	if d.Amount.Cents != 4290 {
		t.Fatalf("amount: expected 4290, got %d", d.Amount.Cents)
	}
	if d.Date.String() != "2025-07-01" {
		t.Fatalf("date: got %s", d.Date.String())
	}
	if d.Description != "Corner Market" {
		t.Fatalf("description: got %q", d.Description)
	}
}

func TestApplyDropsInvalidFields(t *testing.T) {
	f := Fields{
		Amount:      ptr(-3.0),
		Date:        ptr("01/07/2025"),
		Description: ptr("   "),
	}
	d := f.Apply(baseDraft())
	if d.Amount.Cents != 0 {
		t.Fatalf("invalid amount must be dropped, got %d", d.Amount.Cents)
	}
	if !d.Date.IsZero() {
		t.Fatalf("invalid date must be dropped, got %s", d.Date)
	}
	if d.Description != "" {
		t.Fatalf("blank description must be dropped, got %q", d.Description)
	}
}

func TestApplyPartial(t *testing.T) {
	d := Fields{Description: ptr("Pharmacy")}.Apply(baseDraft())
	if d.Description != "Pharmacy" || d.Amount.Cents != 0 || !d.Date.IsZero() {
		t.Fatalf("partial apply mismatch: %+v", d)
	}
}

func TestEmpty(t *testing.T) {
	if !(Fields{}).Empty() {
		t.Fatalf("zero fields should be empty")
	}
	if (Fields{Amount: ptr(1.0)}).Empty() {
		t.Fatalf("fields with amount should not be empty")
	}
}

func TestParseFields(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr bool
		check   func(Fields) bool
	}{
		{
			name: "plain object",
			in:   `{"amount": 12.5, "date": "2025-01-02", "description": "Cafe"}`,
			check: func(f Fields) bool {
				return f.Amount != nil && *f.Amount == 12.5 && f.Date != nil && f.Description != nil
			},
		},
		{
			name: "nulls",
			in:   `{"amount": null, "date": null, "description": null}`,
			check: func(f Fields) bool { return f.Empty() },
		},
		{
			name: "markdown fenced",
			in:   "```json\n{\"amount\": 3}\n```",
			check: func(f Fields) bool { return f.Amount != nil && *f.Amount == 3 },
		},
		{name: "empty", in: "", wantErr: true},
		{name: "not json", in: "sorry, I cannot read this", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := parseFields(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(f) {
				t.Fatalf("check failed: %+v", f)
			}
		})
	}
}
