package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/expense-ledger/internal/api/dto"
	"github.com/Behnamfe76/expense-ledger/internal/service"
	apperrors "github.com/Behnamfe76/expense-ledger/pkg/util"
)

// ExpensesHandler exposes expense endpoints.
type ExpensesHandler struct {
	service *service.ExpenseService
}

// NewExpensesHandler constructs handler.
func NewExpensesHandler(expenseService *service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{service: expenseService}
}

// Generate POST /gastos/generar.
func (h *ExpensesHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateExpenseRequest
	if err := parseJSONBody(c, &req); err != nil {
		return err
	}
	if !req.DepartmentID.Present() || !req.MontoGasto.Present() {
		return apperrors.NewValidationError("Faltan campos requeridos (id_depa, monto_gasto)")
	}

	departmentID, err := req.DepartmentID.Integer()
	if err != nil {
		return apperrors.NewValidationError("Los campos deben ser números enteros")
	}
	montoGasto, err := req.MontoGasto.Integer()
	if err != nil {
		return apperrors.NewValidationError("Los campos deben ser números enteros")
	}

	expense, err := h.service.GenerateExpense(c.UserContext(), departmentID, montoGasto)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(annotatedExpenseResponse(expense))
}

// ListByDepartment GET /gastos/departamento/:id_depa.
func (h *ExpensesHandler) ListByDepartment(c *fiber.Ctx) error {
	departmentID, err := paramID(c, "id_depa")
	if err != nil {
		return err
	}
	expenses, err := h.service.ListDepartmentExpenses(c.UserContext(), departmentID)
	if err != nil {
		return err
	}
	return c.JSON(annotatedExpenseResponses(expenses))
}

// List GET /gastos.
func (h *ExpensesHandler) List(c *fiber.Ctx) error {
	expenses, err := h.service.ListExpenses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(annotatedExpenseResponses(expenses))
}

// UpdatePayment PUT /gastos/:id_gastos/pago.
func (h *ExpensesHandler) UpdatePayment(c *fiber.Ctx) error {
	expenseID, err := paramID(c, "id_gastos")
	if err != nil {
		return err
	}
	var req dto.UpdatePaymentRequest
	if err := parseJSONBody(c, &req); err != nil {
		return err
	}
	if !req.Pago.Present() {
		return apperrors.NewValidationError("Falta el campo requerido (pago)")
	}
	pago, err := req.Pago.Bool()
	if err != nil {
		return apperrors.NewValidationError("El campo pago debe ser booleano")
	}

	expense, err := h.service.UpdatePayment(c.UserContext(), expenseID, pago)
	if err != nil {
		return err
	}
	return c.JSON(expenseResponse(expense))
}
