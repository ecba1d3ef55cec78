// Package extract turns receipt images into advisory draft fields. The
// result is best effort: any subset of fields may come back, extraction
// failure never blocks manual entry, and every returned field passes the
// same validation as manually entered data before touching a draft.
package extract

import (
	"context"
	"strings"

	"grana/internal/core"
)

// Fields is the partial record an extractor recovers from an image.
type Fields struct {
	Amount      *float64 `json:"amount,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type Extractor interface {
	// Extract returns best-effort fields from image bytes of the given mime
	// type.
	Extract(ctx context.Context, image []byte, mimeType string) (Fields, error)
}

// Apply copies the extracted fields onto a draft. Fields that fail domain
// validation are dropped rather than reported: they only ever pre-fill a
// form the user completes anyway.
func (f Fields) Apply(d core.Draft) core.Draft {
	if f.Amount != nil {
		if cents, err := core.CentsFromFloat(*f.Amount); err == nil {
			d.Amount = core.Money{Cents: cents}
		}
	}
	if f.Date != nil {
		if date, err := core.ParseDate(*f.Date); err == nil {
			d.Date = date
		}
	}
	if f.Description != nil {
		desc := strings.TrimSpace(*f.Description)
		if desc != "" && len(desc) <= 200 {
			d.Description = desc
		}
	}
	return d
}

// Empty reports whether extraction recovered nothing usable.
func (f Fields) Empty() bool {
	return f.Amount == nil && f.Date == nil && f.Description == nil
}
