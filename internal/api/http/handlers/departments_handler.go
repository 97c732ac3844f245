package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Behnamfe76/expense-ledger/internal/api/dto"
	"github.com/Behnamfe76/expense-ledger/internal/service"
	apperrors "github.com/Behnamfe76/expense-ledger/pkg/util"
)

// DepartmentsHandler exposes department endpoints.
type DepartmentsHandler struct {
	service *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{service: departmentService}
}

// Create POST /departamentos.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := parseJSONBody(c, &req); err != nil {
		return err
	}
	if !req.Numero.Present() || !req.Monto.Present() {
		return apperrors.NewValidationError("Faltan campos requeridos (numero, monto)")
	}

	numero, err := req.Numero.Truncated()
	if err != nil {
		return apperrors.NewValidationError("Los campos deben ser numéricos")
	}
	monto, err := req.Monto.Truncated()
	if err != nil {
		return apperrors.NewValidationError("Los campos deben ser numéricos")
	}

	dept, err := h.service.CreateDepartment(c.UserContext(), numero, monto)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(departmentResponse(dept))
}

// List GET /departamentos.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.service.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		resp = append(resp, departmentResponse(&depts[i]))
	}
	return c.JSON(resp)
}

// Status GET /departamentos/estado.
func (h *DepartmentsHandler) Status(c *fiber.Ctx) error {
	statuses, err := h.service.ListStatuses(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		resp = append(resp, dto.DepartmentStatusResponse{
			ID:               s.ID,
			Numero:           s.Numero,
			Monto:            s.Monto,
			Estado:           s.Estado,
			GastosPendientes: s.GastosPendientes,
			TotalAdeudado:    s.TotalAdeudado,
		})
	}
	return c.JSON(resp)
}
