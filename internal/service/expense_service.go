package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Behnamfe76/expense-ledger/internal/domain"
	"github.com/Behnamfe76/expense-ledger/internal/events"
	"github.com/Behnamfe76/expense-ledger/internal/repository"
	apperrors "github.com/Behnamfe76/expense-ledger/pkg/util"
)

const (
	msgDepartmentNotFound = "Departamento no encontrado"
	msgExpenseNotFound    = "Gasto no encontrado"
)

// ExpenseService coordinates expense generation, listing and payment reconciliation.
type ExpenseService struct {
	departments repository.DepartmentRepository
	expenses    repository.ExpenseRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	today       func() time.Time
}

// NewExpenseService constructs the service.
func NewExpenseService(deps Dependencies) *ExpenseService {
	return &ExpenseService{
		departments: deps.DepartmentRepo,
		expenses:    deps.ExpenseRepo,
		dispatcher:  deps.Dispatcher,
		logger:      deps.logger(),
		today:       deps.today(),
	}
}

// GenerateExpense issues a charge against a department. total_pago is the
// department's current base amount plus montoGasto and never changes afterwards.
func (s *ExpenseService) GenerateExpense(ctx context.Context, departmentID, montoGasto int64) (*domain.AnnotatedExpense, error) {
	if montoGasto <= 0 {
		return nil, apperrors.NewValidationError("El monto del gasto debe ser mayor a cero")
	}

	dept, err := s.getDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	expense := domain.Expense{
		DepartmentID: dept.ID,
		MontoGasto:   montoGasto,
		FechaEmision: s.today(),
		TotalPago:    dept.Monto + montoGasto,
		Pago:         false,
	}
	if err := s.expenses.Create(ctx, &expense); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventExpenseGenerated,
		DepartmentID: dept.ID,
		Payload: events.ExpenseGeneratedPayload{
			ExpenseID:  expense.ID,
			MontoGasto: expense.MontoGasto,
			TotalPago:  expense.TotalPago,
		},
	})

	numero := dept.Numero
	return &domain.AnnotatedExpense{Expense: expense, NumeroDepto: &numero}, nil
}

// ListDepartmentExpenses returns the expenses of one department.
func (s *ExpenseService) ListDepartmentExpenses(ctx context.Context, departmentID int64) ([]domain.AnnotatedExpense, error) {
	dept, err := s.getDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListByDepartment(ctx, dept.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	result := make([]domain.AnnotatedExpense, 0, len(expenses))
	for _, e := range expenses {
		numero := dept.Numero
		result = append(result, domain.AnnotatedExpense{Expense: e, NumeroDepto: &numero})
	}
	return result, nil
}

// ListExpenses returns every expense, newest issue date first. Expenses whose
// department is missing from the snapshot carry a nil NumeroDepto.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]domain.AnnotatedExpense, error) {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.NewExposedInternalError(err)
	}
	numeros := make(map[int64]int64, len(depts))
	for _, d := range depts {
		numeros[d.ID] = d.Numero
	}

	expenses, err := s.expenses.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewExposedInternalError(err)
	}

	result := make([]domain.AnnotatedExpense, 0, len(expenses))
	for _, e := range expenses {
		annotated := domain.AnnotatedExpense{Expense: e}
		if numero, ok := numeros[e.DepartmentID]; ok {
			annotated.NumeroDepto = &numero
		}
		result = append(result, annotated)
	}
	return result, nil
}

// UpdatePayment marks an expense paid or unpaid and recomputes the owning
// department's estado from all of its expenses.
//
// The steps run sequentially without a transaction: a failure after the
// expense update leaves estado stale until the next reconciliation, and
// concurrent reconciliations of sibling expenses resolve last-writer-wins.
func (s *ExpenseService) UpdatePayment(ctx context.Context, expenseID int64, pago bool) (*domain.Expense, error) {
	var fechaPago *time.Time
	if pago {
		today := s.today()
		fechaPago = &today
	}

	expense, err := s.expenses.UpdatePayment(ctx, expenseID, pago, fechaPago)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(msgExpenseNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}

	siblings, err := s.expenses.ListByDepartment(ctx, expense.DepartmentID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	todosPagados := domain.AllPaid(siblings)

	if err := s.departments.UpdateEstado(ctx, expense.DepartmentID, todosPagados); err != nil {
		s.logger.Error("department estado not reconciled",
			zap.Int64("id_depa", expense.DepartmentID),
			zap.Int64("id_gastos", expense.ID),
			zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventExpensePaymentUpdated,
		DepartmentID: expense.DepartmentID,
		Payload: events.ExpensePaymentUpdatedPayload{
			ExpenseID: expense.ID,
			Pago:      expense.Pago,
			Estado:    todosPagados,
		},
	})
	return expense, nil
}

func (s *ExpenseService) getDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(msgDepartmentNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return dept, nil
}

func (s *ExpenseService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}
