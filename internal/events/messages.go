// Package events carries confirmed ledger mutations to downstream consumers
// over AMQP.
package events

import (
	"encoding/json"
	"time"

	"grana/internal/core"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// TransactionEvent describes one confirmed mutation. Created and updated
// events carry the full record; deleted events carry only the id.
type TransactionEvent struct {
	Action      Action    `json:"action"`
	UserID      string    `json:"user_id"`
	ID          string    `json:"id"`
	Type        string    `json:"type,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Date        string    `json:"date,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func Created(userID string, t core.Transaction) TransactionEvent {
	return fromTransaction(ActionCreated, userID, t)
}

func Updated(userID string, t core.Transaction) TransactionEvent {
	return fromTransaction(ActionUpdated, userID, t)
}

func Deleted(userID, id string) TransactionEvent {
	return TransactionEvent{
		Action:    ActionDeleted,
		UserID:    userID,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func fromTransaction(action Action, userID string, t core.Transaction) TransactionEvent {
	return TransactionEvent{
		Action:      action,
		UserID:      userID,
		ID:          t.ID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Date:        t.Date.String(),
		Description: t.Description,
		Category:    string(t.Category),
		Timestamp:   time.Now(),
	}
}

func (ev *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(ev)
}

func FromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
