package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/expense-ledger/internal/api/dto"
	"github.com/Behnamfe76/expense-ledger/internal/domain"
	apperrors "github.com/Behnamfe76/expense-ledger/pkg/util"
)

// parseJSONBody enforces a JSON content type and a non-empty object body.
func parseJSONBody(c *fiber.Ctx, out any) error {
	if !c.Is("json") {
		return apperrors.NewValidationError("El Content-Type debe ser application/json")
	}
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return apperrors.NewValidationError("No se recibieron datos")
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return apperrors.NewValidationError("El cuerpo debe ser un objeto JSON válido")
	}
	if len(probe) == 0 {
		return apperrors.NewValidationError("No se recibieron datos")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewValidationError("El cuerpo debe ser un objeto JSON válido")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("El identificador debe ser un número entero")
	}
	return id, nil
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:     dept.ID,
		Numero: dept.Numero,
		Monto:  dept.Monto,
		Estado: dept.Estado,
	}
}

func expenseResponse(e *domain.Expense) dto.ExpenseResponse {
	resp := dto.ExpenseResponse{
		ID:           e.ID,
		DepartmentID: e.DepartmentID,
		MontoGasto:   e.MontoGasto,
		FechaEmision: e.FechaEmision.Format(domain.DateLayout),
		TotalPago:    e.TotalPago,
		Pago:         e.Pago,
	}
	if e.FechaPago != nil {
		paid := e.FechaPago.Format(domain.DateLayout)
		resp.FechaPago = &paid
	}
	return resp
}

func annotatedExpenseResponse(e *domain.AnnotatedExpense) dto.AnnotatedExpenseResponse {
	return dto.AnnotatedExpenseResponse{
		ExpenseResponse: expenseResponse(&e.Expense),
		NumeroDepto:     e.NumeroDepto,
	}
}

func annotatedExpenseResponses(expenses []domain.AnnotatedExpense) []dto.AnnotatedExpenseResponse {
	resp := make([]dto.AnnotatedExpenseResponse, 0, len(expenses))
	for i := range expenses {
		resp = append(resp, annotatedExpenseResponse(&expenses[i]))
	}
	return resp
}
