package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"grana/internal/core"
	"grana/internal/ledger"
	"grana/internal/store"
)

// transactionJSON is the API wire shape of a transaction. Amounts travel as
// decimal numbers, dates as YYYY-MM-DD strings.
type transactionJSON struct {
	ID          string  `json:"id,omitempty"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

func toJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount.Float(),
		Date:        t.Date.String(),
		Description: t.Description,
		Category:    string(t.Category),
	}
}

// toDraft converts the wire payload into a draft. Field errors surface as
// validation errors, not server faults.
func toDraft(in transactionJSON) (core.Draft, error) {
	cents, err := core.CentsFromFloat(in.Amount)
	if err != nil {
		return core.Draft{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Draft{}, err
	}
	return core.Draft{
		Type:        core.Type(in.Type),
		Date:        date,
		Description: in.Description,
		Amount:      core.Money{Cents: cents},
		Category:    core.Category(in.Category),
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes. Ledger failures are
// upstream faults, everything unknown is a server fault.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNoSession):
		status = http.StatusUnauthorized
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case isValidationError(err):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadGateway
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidType,
		core.ErrInvalidCategory,
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrEmptyDescription,
		core.ErrMissingID,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
