// Package testutil provides in-memory repositories for service and transport tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Behnamfe76/expense-ledger/internal/domain"
	"github.com/Behnamfe76/expense-ledger/internal/repository"
)

// Store holds departments and expenses and hands out repositories over them.
// Setting one of the Fail* fields makes the matching operation return it.
type Store struct {
	mu          sync.Mutex
	departments map[int64]domain.Department
	expenses    map[int64]domain.Expense
	nextDeptID  int64
	nextExpID   int64

	FailDepartmentList   error
	FailDepartmentCreate error
	FailDepartmentLookup error
	FailUpdateEstado     error
	FailExpenseCreate    error
	FailExpenseList      error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		departments: map[int64]domain.Department{},
		expenses:    map[int64]domain.Expense{},
	}
}

// Departments returns a DepartmentRepository backed by the store.
func (s *Store) Departments() repository.DepartmentRepository {
	return departmentRepo{s}
}

// Expenses returns an ExpenseRepository backed by the store.
func (s *Store) Expenses() repository.ExpenseRepository {
	return expenseRepo{s}
}

// Department returns a copy of the stored department.
func (s *Store) Department(id int64) (domain.Department, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departments[id]
	return d, ok
}

// SetMonto changes a department's base amount directly.
func (s *Store) SetMonto(id, monto int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.departments[id]
	d.Monto = monto
	s.departments[id] = d
}

// DeleteDepartment removes a department row, leaving its expenses orphaned.
func (s *Store) DeleteDepartment(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.departments, id)
}

// InsertExpense stores e as-is, assigning an id.
func (s *Store) InsertExpense(e domain.Expense) domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextExpID++
	e.ID = s.nextExpID
	s.expenses[e.ID] = e
	return e
}

// ExpenseCount returns the number of stored expenses.
func (s *Store) ExpenseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expenses)
}

type departmentRepo struct{ s *Store }

func (r departmentRepo) Create(_ context.Context, dept *domain.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailDepartmentCreate != nil {
		return r.s.FailDepartmentCreate
	}
	r.s.nextDeptID++
	dept.ID = r.s.nextDeptID
	r.s.departments[dept.ID] = *dept
	return nil
}

func (r departmentRepo) GetByID(_ context.Context, id int64) (*domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailDepartmentLookup != nil {
		return nil, r.s.FailDepartmentLookup
	}
	d, ok := r.s.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &d, nil
}

func (r departmentRepo) GetByNumero(_ context.Context, numero int64) (*domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailDepartmentLookup != nil {
		return nil, r.s.FailDepartmentLookup
	}
	for _, d := range r.s.departments {
		if d.Numero == numero {
			d := d
			return &d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r departmentRepo) List(_ context.Context) ([]domain.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailDepartmentList != nil {
		return nil, r.s.FailDepartmentList
	}
	result := make([]domain.Department, 0, len(r.s.departments))
	for _, d := range r.s.departments {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Numero < result[j].Numero })
	return result, nil
}

func (r departmentRepo) UpdateEstado(_ context.Context, id int64, estado bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailUpdateEstado != nil {
		return r.s.FailUpdateEstado
	}
	d, ok := r.s.departments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	d.Estado = estado
	r.s.departments[id] = d
	return nil
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) Create(_ context.Context, e *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailExpenseCreate != nil {
		return r.s.FailExpenseCreate
	}
	r.s.nextExpID++
	e.ID = r.s.nextExpID
	r.s.expenses[e.ID] = *e
	return nil
}

func (r expenseRepo) UpdatePayment(_ context.Context, id int64, pago bool, fechaPago *time.Time) (*domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	e.Pago = pago
	e.FechaPago = fechaPago
	r.s.expenses[id] = e
	return &e, nil
}

func (r expenseRepo) ListByDepartment(_ context.Context, departmentID int64) ([]domain.Expense, error) {
	return r.filter(func(e domain.Expense) bool { return e.DepartmentID == departmentID }, byIDAsc)
}

func (r expenseRepo) ListUnpaidByDepartment(_ context.Context, departmentID int64) ([]domain.Expense, error) {
	return r.filter(func(e domain.Expense) bool { return e.DepartmentID == departmentID && !e.Pago }, byIDAsc)
}

func (r expenseRepo) ListAll(_ context.Context) ([]domain.Expense, error) {
	return r.filter(func(domain.Expense) bool { return true }, func(a, b domain.Expense) bool {
		if !a.FechaEmision.Equal(b.FechaEmision) {
			return a.FechaEmision.After(b.FechaEmision)
		}
		return a.ID > b.ID
	})
}

func (r expenseRepo) filter(keep func(domain.Expense) bool, less func(a, b domain.Expense) bool) ([]domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailExpenseList != nil {
		return nil, r.s.FailExpenseList
	}
	result := []domain.Expense{}
	for _, e := range r.s.expenses {
		if keep(e) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result, nil
}

func byIDAsc(a, b domain.Expense) bool { return a.ID < b.ID }
