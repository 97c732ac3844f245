package dto

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Numero Field `json:"numero"`
	Monto  Field `json:"monto"`
}

// GenerateExpenseRequest payload.
type GenerateExpenseRequest struct {
	DepartmentID Field `json:"id_depa"`
	MontoGasto   Field `json:"monto_gasto"`
}

// UpdatePaymentRequest payload.
type UpdatePaymentRequest struct {
	Pago Field `json:"pago"`
}

// DepartmentResponse mirrors a departamento row.
type DepartmentResponse struct {
	ID     int64 `json:"id"`
	Numero int64 `json:"numero"`
	Monto  int64 `json:"monto"`
	Estado bool  `json:"estado"`
}

// DepartmentStatusResponse is the debt projection of a department.
type DepartmentStatusResponse struct {
	ID               int64 `json:"id"`
	Numero           int64 `json:"numero"`
	Monto            int64 `json:"monto"`
	Estado           bool  `json:"estado"`
	GastosPendientes int   `json:"gastos_pendientes"`
	TotalAdeudado    int64 `json:"total_adeudado"`
}

// ExpenseResponse mirrors a gastos row. Dates use YYYY-MM-DD.
type ExpenseResponse struct {
	ID           int64   `json:"id_gastos"`
	DepartmentID int64   `json:"id_depa"`
	MontoGasto   int64   `json:"monto_gasto"`
	FechaEmision string  `json:"fecha_emision"`
	TotalPago    int64   `json:"total_pago"`
	Pago         bool    `json:"pago"`
	FechaPago    *string `json:"fecha_pago"`
}

// AnnotatedExpenseResponse adds the owning department's unit number.
type AnnotatedExpenseResponse struct {
	ExpenseResponse
	NumeroDepto *int64 `json:"numero_depto"`
}
