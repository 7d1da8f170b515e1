// Package events publica eventos de domínio (vendas, importações) em um exchange AMQP
package events

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Tipos de evento, usados também como routing key
const (
	SaleCreated     = "sale.created"
	SaleDeleted     = "sale.deleted"
	ImportCompleted = "import.completed"
)

// Event carrega só os identificadores; o consumidor busca o restante no banco
type Event struct {
	Type        string            `json:"type"`
	BusinessID  int               `json:"business_id"`
	UserID      int               `json:"user_id,omitempty"`
	ReferenceID int               `json:"reference_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

func NewEvent(eventType string, businessID, userID, referenceID int) Event {
	return Event{
		Type:        eventType,
		BusinessID:  businessID,
		UserID:      userID,
		ReferenceID: referenceID,
		OccurredAt:  time.Now().UTC(),
	}
}

func (e Event) WithAttribute(key, value string) Event {
	attributes := make(map[string]string, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attributes[k] = v
	}
	attributes[key] = value
	e.Attributes = attributes
	return e
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
