package http

import (
	"encoding/json"

	"dompetku/internal/core"
)

// moneyField decodes a money amount from a create payload. Clients send
// either integer cents or a decimal string ("12.34" and "12,34" both work);
// responses always carry bare integer cents.
type moneyField struct {
	core.Money
}

func (m *moneyField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return core.ErrInvalidAmount
		}
		cents, err := core.ParseDecimalToCents(s)
		if err != nil {
			return err
		}
		m.Cents = cents
		return nil
	}
	return m.Money.UnmarshalJSON(data)
}

type transactionRequest struct {
	Date        core.Date            `json:"date"`
	Amount      moneyField           `json:"amount"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Type        core.TransactionType `json:"type"`
}

func (r transactionRequest) toDomain() core.Transaction {
	return core.Transaction{
		Date:        r.Date,
		Amount:      r.Amount.Money,
		Category:    r.Category,
		Description: sanitizeInput(r.Description),
		Type:        r.Type,
	}
}

type debtRequest struct {
	PersonName  string        `json:"personName"`
	Amount      moneyField    `json:"amount"`
	DueDate     core.Date     `json:"dueDate"`
	Description string        `json:"description"`
	Type        core.DebtType `json:"type"`
}

func (r debtRequest) toDomain() core.Debt {
	return core.Debt{
		PersonName:  sanitizeInput(r.PersonName),
		Amount:      r.Amount.Money,
		DueDate:     r.DueDate,
		Description: sanitizeInput(r.Description),
		Type:        r.Type,
	}
}

type savingsGoalRequest struct {
	Name         string     `json:"name"`
	TargetAmount moneyField `json:"targetAmount"`
	Icon         string     `json:"icon"`
	Color        string     `json:"color"`
}

func (r savingsGoalRequest) toDomain() core.SavingsGoal {
	return core.SavingsGoal{
		Name:         sanitizeInput(r.Name),
		TargetAmount: r.TargetAmount.Money,
		Icon:         r.Icon,
		Color:        r.Color,
	}
}
