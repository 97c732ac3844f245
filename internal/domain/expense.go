package domain

import "time"

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Expense is a charge issued against a department.
type Expense struct {
	ID           int64
	DepartmentID int64
	MontoGasto   int64
	FechaEmision time.Time
	// TotalPago is frozen at creation: department base amount plus MontoGasto.
	TotalPago int64
	Pago      bool
	FechaPago *time.Time
}

// AnnotatedExpense carries the owning department's unit number, resolved at read time.
// NumeroDepto is nil when the department could not be resolved.
type AnnotatedExpense struct {
	Expense
	NumeroDepto *int64
}

// AllPaid reports whether every expense is paid; vacuously true for none.
func AllPaid(expenses []Expense) bool {
	for _, e := range expenses {
		if !e.Pago {
			return false
		}
	}
	return true
}

// CalendarDate strips the clock part of t, keeping its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
