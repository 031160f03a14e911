package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// BudgetAlertMessage announces that a budget's spending passed its limit.
type BudgetAlertMessage struct {
	BudgetID        string          `json:"budgetId"`
	Name            string          `json:"name"`
	CurrentSpending decimal.Decimal `json:"currentSpending"`
	Limit           decimal.Decimal `json:"limit"`
	Percent         float64         `json:"percent"`
	Label           string          `json:"label"`
	Timestamp       time.Time       `json:"timestamp"`
}

// NewBudgetAlertMessage builds the alert for b. Percent and Label carry the
// same clamped progress the dashboard shows.
func NewBudgetAlertMessage(b core.Budget, now time.Time) *BudgetAlertMessage {
	p := core.ProgressOf(b)
	name := b.Name
	if name == "" {
		name = core.UnnamedBudget
	}
	return &BudgetAlertMessage{
		BudgetID:        b.ID,
		Name:            name,
		CurrentSpending: b.CurrentSpending,
		Limit:           b.Limit,
		Percent:         p.Percent,
		Label:           p.Label,
		Timestamp:       now,
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON decodes a message published by PublishBudgetAlert
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
