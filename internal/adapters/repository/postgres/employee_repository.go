package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/orgreport/internal/core/employee"
	pgdb "github.com/ogurasousui/orgreport/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

const listEmployeesQuery = `
        SELECT id,
               first_name,
               last_name,
               salary::text,
               manager_id
          FROM employees
         ORDER BY id
    `

// EmployeeRepository は PostgreSQL から社員一覧を読み込む employee.Repository の実装です。
// 読み取り専用で、書き込みは行いません。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// ListAll は全社員を ID の昇順で取得します。
func (r *EmployeeRepository) ListAll(ctx context.Context) ([]employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, listEmployeesQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres: list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list employees: %w", err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		id        int64
		firstName string
		lastName  string
		salaryRaw string
		managerID sql.NullInt64
	)

	if err := row.Scan(&id, &firstName, &lastName, &salaryRaw, &managerID); err != nil {
		return employee.Employee{}, fmt.Errorf("postgres: scan employee: %w", err)
	}

	salary, err := decimal.NewFromString(salaryRaw)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("postgres: employee %d salary %q: %w", id, salaryRaw, employee.ErrInvalidSalary)
	}

	emp := employee.Employee{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Salary:    salary,
	}
	if managerID.Valid {
		emp.ManagerID = employee.ManagerRef(managerID.Int64)
	}

	emp = employee.Normalize(emp)
	if err := employee.Validate(emp); err != nil {
		return employee.Employee{}, fmt.Errorf("postgres: %w", err)
	}
	return emp, nil
}
