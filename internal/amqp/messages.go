package amqp

import (
	"encoding/json"
	"time"
)

const (
	EntityTransaction = "transaction"
	EntityDebt        = "debt"
	EntitySaving      = "saving"

	ActionCreated = "created"
	ActionDeleted = "deleted"
	ActionUpdated = "updated"
)

// ChangeMessage announces a single domain mutation. Consumers get only the
// entity kind, the action, and the entity id; the snapshot itself stays in
// the primary store.
type ChangeMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(entity, action, id string, revision int64) *ChangeMessage {
	return &ChangeMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
