package amqp

import (
	"encoding/json"
	"time"

	"github.com/galihfr09/CashTracker/internal/core"
)

// TransactionCreatedMessage mirrors the canonical record so consumers
// never need access to the remote store.
type TransactionCreatedMessage struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewTransactionCreatedMessage(t core.Transaction) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		ID:          t.ID,
		Owner:       t.Owner,
		Date:        t.Date.String(),
		Description: t.Description,
		Amount:      t.Amount.String(),
		Category:    t.Category,
		CreatedAt:   time.Now().UTC(),
	}
}

func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var m TransactionCreatedMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
