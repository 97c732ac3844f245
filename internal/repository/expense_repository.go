package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Behnamfe76/expense-ledger/internal/domain"
)

// ExpenseRepository encapsulates expense persistence.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	UpdatePayment(ctx context.Context, id int64, pago bool, fechaPago *time.Time) (*domain.Expense, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Expense, error)
	ListUnpaidByDepartment(ctx context.Context, departmentID int64) ([]domain.Expense, error)
	ListAll(ctx context.Context) ([]domain.Expense, error)
}

const expenseColumns = `id_gastos, id_depa, monto_gasto, fecha_emision, total_pago, pago, fecha_pago`

type expenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository instantiates repository.
func NewExpenseRepository(pool *pgxpool.Pool) ExpenseRepository {
	return &expenseRepository{pool: pool}
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	const query = `
        INSERT INTO gastos (id_depa, monto_gasto, fecha_emision, total_pago, pago, fecha_pago)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id_gastos`
	return r.pool.QueryRow(ctx, query,
		expense.DepartmentID,
		expense.MontoGasto,
		expense.FechaEmision,
		expense.TotalPago,
		expense.Pago,
		expense.FechaPago,
	).Scan(&expense.ID)
}

// UpdatePayment returns pgx.ErrNoRows when no expense matched.
func (r *expenseRepository) UpdatePayment(ctx context.Context, id int64, pago bool, fechaPago *time.Time) (*domain.Expense, error) {
	const query = `
        UPDATE gastos SET pago=$1, fecha_pago=$2
        WHERE id_gastos=$3
        RETURNING ` + expenseColumns
	var expense domain.Expense
	if err := scanExpense(r.pool.QueryRow(ctx, query, pago, fechaPago, id), &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]domain.Expense, error) {
	const query = `SELECT ` + expenseColumns + ` FROM gastos WHERE id_depa=$1 ORDER BY id_gastos ASC`
	return r.list(ctx, query, departmentID)
}

func (r *expenseRepository) ListUnpaidByDepartment(ctx context.Context, departmentID int64) ([]domain.Expense, error) {
	const query = `SELECT ` + expenseColumns + ` FROM gastos WHERE id_depa=$1 AND pago = FALSE ORDER BY id_gastos ASC`
	return r.list(ctx, query, departmentID)
}

func (r *expenseRepository) ListAll(ctx context.Context) ([]domain.Expense, error) {
	const query = `SELECT ` + expenseColumns + ` FROM gastos ORDER BY fecha_emision DESC, id_gastos DESC`
	return r.list(ctx, query)
}

func (r *expenseRepository) list(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Expense{}
	for rows.Next() {
		var expense domain.Expense
		if err := scanExpense(rows, &expense); err != nil {
			return nil, err
		}
		result = append(result, expense)
	}
	return result, rows.Err()
}

func scanExpense(row pgx.Row, expense *domain.Expense) error {
	return row.Scan(
		&expense.ID,
		&expense.DepartmentID,
		&expense.MontoGasto,
		&expense.FechaEmision,
		&expense.TotalPago,
		&expense.Pago,
		&expense.FechaPago,
	)
}
