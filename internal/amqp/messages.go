package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// LedgerChangedMessage notifies the report worker that the ledger changed.
// It carries only the entity kind, id and action; the worker reloads the
// full ledger from the store before regenerating the report.
type LedgerChangedMessage struct {
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Entity kinds carried by ledger change messages
const (
	EntityProfile     = "profile"
	EntityTransaction = "transaction"
	EntityGoal        = "goal"
)

// Actions carried by ledger change messages
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
	ActionReset   = "reset"
)

// NewLedgerChangedMessage creates a change notification for one entity
func NewLedgerChangedMessage(entity, id, action string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Entity:    entity,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// Validate checks the message carries a known entity and action
func (m *LedgerChangedMessage) Validate() error {
	switch m.Entity {
	case EntityProfile, EntityTransaction, EntityGoal:
	default:
		return fmt.Errorf("unknown entity %q", m.Entity)
	}
	switch m.Action {
	case ActionCreated, ActionDeleted, ActionReset:
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
