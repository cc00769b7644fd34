package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

const employeeColumns = `id, nombre, puesto, salario::text`

const (
	employeeNotNullViolationCode = "23502"
	employeeCheckViolationCode   = "23514"
	employeeStringTooLongCode    = "22001"
)

// ErrConstraintViolation はテーブル制約に違反した場合に返却されます。
var ErrConstraintViolation = errors.New("postgres: employees constraint violation")

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Insert は社員を新規作成し、採番された ID を含むレコードを返します。
func (r *EmployeeRepository) Insert(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (nombre, puesto, salario)
        VALUES ($1, $2, $3::numeric)
        RETURNING `+employeeColumns,
		e.Name,
		e.Position,
		e.Salary.String(),
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindAll は全社員を ID 順に取得します。
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	return r.list(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         ORDER BY id
    `)
}

// FindByPosition は役職が完全一致する社員を取得します。
func (r *EmployeeRepository) FindByPosition(ctx context.Context, position string) ([]*employee.Employee, error) {
	return r.list(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE puesto = $1
         ORDER BY id
    `, position)
}

func (r *EmployeeRepository) list(ctx context.Context, query string, args ...any) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id        int64
		name      string
		position  string
		rawSalary string
	)

	if err := row.Scan(&id, &name, &position, &rawSalary); err != nil {
		return nil, err
	}

	salary, err := decimal.NewFromString(rawSalary)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse salario %q: %w", rawSalary, err)
	}

	return &employee.Employee{
		ID:       id,
		Name:     name,
		Position: position,
		Salary:   salary,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeNotNullViolationCode, employeeCheckViolationCode, employeeStringTooLongCode:
			return fmt.Errorf("%w: %s (%s)", ErrConstraintViolation, pgErr.ConstraintName, pgErr.Code)
		}
	}

	return fmt.Errorf("postgres: employees: %w", err)
}
