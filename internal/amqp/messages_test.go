package amqp

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/galihfr09/CashTracker/internal/core"
)

func TestNewTransactionCreatedMessage(t *testing.T) {
	amount, _ := decimal.NewFromString("-50.25")
	tx := core.Transaction{
		ID:          "t1",
		Date:        core.NewDate(2024, 3, 2),
		Description: "Grocery Store",
		Amount:      amount,
		Category:    "Makan",
		Owner:       "user-1",
	}

	msg := NewTransactionCreatedMessage(tx)
	if msg.ID != "t1" || msg.Owner != "user-1" {
		t.Errorf("unexpected identity fields: %+v", msg)
	}
	if msg.Date != "2024-03-02" {
		t.Errorf("date = %q", msg.Date)
	}
	if msg.Amount != "-50.25" {
		t.Errorf("amount = %q, decimals must survive as strings", msg.Amount)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("created_at not stamped")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := TransactionCreatedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Category != "Makan" {
		t.Errorf("category = %q", back.Category)
	}
}
