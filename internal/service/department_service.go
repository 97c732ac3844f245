package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Behnamfe76/expense-ledger/internal/domain"
	"github.com/Behnamfe76/expense-ledger/internal/events"
	"github.com/Behnamfe76/expense-ledger/internal/repository"
	apperrors "github.com/Behnamfe76/expense-ledger/pkg/util"
)

// DepartmentService coordinates department intake and status projections.
type DepartmentService struct {
	departments repository.DepartmentRepository
	expenses    repository.ExpenseRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps Dependencies) *DepartmentService {
	return &DepartmentService{
		departments: deps.DepartmentRepo,
		expenses:    deps.ExpenseRepo,
		dispatcher:  deps.Dispatcher,
		logger:      deps.logger(),
	}
}

// CreateDepartment registers a new unit with estado=true.
// The uniqueness check and the insert are two separate statements; the
// unique constraint on numero catches what slips between them.
func (s *DepartmentService) CreateDepartment(ctx context.Context, numero, monto int64) (*domain.Department, error) {
	if numero <= 0 {
		return nil, apperrors.NewValidationError("El número de departamento debe ser positivo")
	}
	if monto < 0 {
		return nil, apperrors.NewValidationError("El monto no puede ser negativo")
	}

	duplicate := apperrors.NewConflict(fmt.Sprintf("El departamento número %d ya está registrado", numero))

	_, err := s.departments.GetByNumero(ctx, numero)
	switch {
	case err == nil:
		return nil, duplicate
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, apperrors.NewInternalError(err)
	}

	dept := &domain.Department{Numero: numero, Monto: monto, Estado: true}
	if err := s.departments.Create(ctx, dept); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, duplicate
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventDepartmentCreated,
		DepartmentID: dept.ID,
		Payload:      events.DepartmentCreatedPayload{Numero: dept.Numero, Monto: dept.Monto},
	})
	return dept, nil
}

// ListDepartments returns every department ordered by numero.
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.NewExposedInternalError(err)
	}
	return depts, nil
}

// ListStatuses builds the debt projection, one unpaid-expense query per department.
func (s *DepartmentService) ListStatuses(ctx context.Context) ([]domain.DepartmentStatus, error) {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.NewExposedInternalError(err)
	}

	result := make([]domain.DepartmentStatus, 0, len(depts))
	for _, dept := range depts {
		unpaid, err := s.expenses.ListUnpaidByDepartment(ctx, dept.ID)
		if err != nil {
			return nil, apperrors.NewExposedInternalError(err)
		}
		status := domain.DepartmentStatus{Department: dept, GastosPendientes: len(unpaid)}
		for _, e := range unpaid {
			status.TotalAdeudado += e.TotalPago
		}
		result = append(result, status)
	}
	return result, nil
}

func (s *DepartmentService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}
