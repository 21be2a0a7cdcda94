package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/ogurasousui/orgreport/internal/core/employee"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

type stubEmployeeRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubEmployeeRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

var employeeColumns = []string{"id", "first_name", "last_name", "salary", "manager_id"}

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	row := stubEmployeeRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 5 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*int64)) = 2
		*(dest[1].(*string)) = " Taro "
		*(dest[2].(*string)) = "Yamada"
		*(dest[3].(*string)) = "80000.50"

		managerDest := dest[4].(*sql.NullInt64)
		managerDest.Int64 = 1
		managerDest.Valid = true
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}

	if emp.FirstName != "Taro" {
		t.Fatalf("expected trimmed first name, got %q", emp.FirstName)
	}
	if emp.Salary.String() != "80000.5" {
		t.Fatalf("unexpected salary %s", emp.Salary)
	}
	if emp.ManagerID == nil || *emp.ManagerID != 1 {
		t.Fatalf("expected manager id 1, got %+v", emp.ManagerID)
	}
}

func TestScanEmployee_InvalidSalary(t *testing.T) {
	t.Parallel()

	row := stubEmployeeRow{scanFn: func(dest ...interface{}) error {
		*(dest[0].(*int64)) = 3
		*(dest[1].(*string)) = "Taro"
		*(dest[2].(*string)) = "Yamada"
		*(dest[3].(*string)) = "NaN"
		return nil
	}}

	if _, err := scanEmployee(row); !errors.Is(err, employee.ErrInvalidSalary) {
		t.Fatalf("expected ErrInvalidSalary, got %v", err)
	}
}

func TestScanEmployee_ScanError(t *testing.T) {
	t.Parallel()

	scanErr := errors.New("boom")
	row := stubEmployeeRow{scanFn: func(dest ...interface{}) error {
		return scanErr
	}}

	if _, err := scanEmployee(row); !errors.Is(err, scanErr) {
		t.Fatalf("expected scan error, got %v", err)
	}
}

func TestEmployeeRepository_ListAll(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	rows := pgxmock.NewRows(employeeColumns).
		AddRow(int64(1), "Manager", "Boss", "1000000.00", nil).
		AddRow(int64(2), "Subordinate", "One", "500.00", int64(1))

	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).WillReturnRows(rows)

	employees, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}

	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(employees))
	}
	if employees[0].HasManager() {
		t.Fatalf("expected root employee without manager")
	}
	if employees[1].ManagerID == nil || *employees[1].ManagerID != 1 {
		t.Fatalf("expected manager id 1, got %+v", employees[1].ManagerID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_ListAll_EmptyTable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).WillReturnRows(pgxmock.NewRows(employeeColumns))

	employees, err := NewEmployeeRepository(mock).ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if employees == nil || len(employees) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", employees)
	}
}

func TestEmployeeRepository_ListAll_QueryError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	queryErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).WillReturnError(queryErr)

	if _, err := NewEmployeeRepository(mock).ListAll(context.Background()); !errors.Is(err, queryErr) {
		t.Fatalf("expected query error, got %v", err)
	}
}
