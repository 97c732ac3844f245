package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Behnamfe76/expense-ledger/internal/domain"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	GetByNumero(ctx context.Context, numero int64) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	UpdateEstado(ctx context.Context, id int64, estado bool) error
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departamento (numero, monto, estado)
        VALUES ($1,$2,$3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		dept.Numero,
		dept.Monto,
		dept.Estado,
	).Scan(&dept.ID)
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	const query = `
        SELECT id, numero, monto, estado
        FROM departamento WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *departmentRepository) GetByNumero(ctx context.Context, numero int64) (*domain.Department, error) {
	const query = `
        SELECT id, numero, monto, estado
        FROM departamento WHERE numero=$1`
	return r.fetchSingle(ctx, query, numero)
}

func (r *departmentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Department, error) {
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&dept.ID,
		&dept.Numero,
		&dept.Monto,
		&dept.Estado,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, numero, monto, estado
        FROM departamento ORDER BY numero ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Department{}
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Numero, &dept.Monto, &dept.Estado); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) UpdateEstado(ctx context.Context, id int64, estado bool) error {
	const query = `UPDATE departamento SET estado=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, estado, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
