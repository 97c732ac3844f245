package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated     EventType = "department.created"
	EventExpenseGenerated      EventType = "expense.generated"
	EventExpensePaymentUpdated EventType = "expense.payment_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	DepartmentID int64       `json:"id_depa"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// DepartmentCreatedPayload payload.
type DepartmentCreatedPayload struct {
	Numero int64 `json:"numero"`
	Monto  int64 `json:"monto"`
}

// ExpenseGeneratedPayload payload.
type ExpenseGeneratedPayload struct {
	ExpenseID  int64 `json:"id_gastos"`
	MontoGasto int64 `json:"monto_gasto"`
	TotalPago  int64 `json:"total_pago"`
}

// ExpensePaymentUpdatedPayload payload. Estado is the department flag written by the reconciliation.
type ExpensePaymentUpdatedPayload struct {
	ExpenseID int64 `json:"id_gastos"`
	Pago      bool  `json:"pago"`
	Estado    bool  `json:"estado"`
}
