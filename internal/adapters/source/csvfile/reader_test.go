package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ogurasousui/orgreport/internal/core/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `Id,firstName,lastName,salary,managerId
1,John,Doe,55000,
2,Jane,Smith,60000,1
3,Alice,Johnson,65000,
4,Bob,Williams,50000,2
5,Charlie,Brown,70000.50,3
`

func TestParse_Valid(t *testing.T) {
	t.Parallel()

	employees, err := Parse(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, employees, 5)

	want := []employee.Employee{
		{ID: 1, FirstName: "John", LastName: "Doe", Salary: decimal.RequireFromString("55000")},
		{ID: 2, FirstName: "Jane", LastName: "Smith", Salary: decimal.RequireFromString("60000"), ManagerID: employee.ManagerRef(1)},
		{ID: 3, FirstName: "Alice", LastName: "Johnson", Salary: decimal.RequireFromString("65000")},
		{ID: 4, FirstName: "Bob", LastName: "Williams", Salary: decimal.RequireFromString("50000"), ManagerID: employee.ManagerRef(2)},
		{ID: 5, FirstName: "Charlie", LastName: "Brown", Salary: decimal.RequireFromString("70000.50"), ManagerID: employee.ManagerRef(3)},
	}
	for i := range want {
		assert.Truef(t, want[i].Equal(employees[i]), "record %d: want %+v got %+v", i, want[i], employees[i])
	}
}

func TestParse_HeaderIsCaseInsensitiveAndOrderFree(t *testing.T) {
	t.Parallel()

	input := " MANAGERID , Salary ,LASTNAME,firstname, ID\n1, 100 ,Doe,John,7\n"

	employees, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, employees, 1)

	got := employees[0]
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "John", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)
	assert.Equal(t, "100", got.Salary.String())
	require.NotNil(t, got.ManagerID)
	assert.Equal(t, int64(1), *got.ManagerID)
}

func TestParse_TrailingManagerColumnMayBeOmitted(t *testing.T) {
	t.Parallel()

	employees, err := Parse(strings.NewReader("id,firstName,lastName,salary,managerId\n1,John,Doe,55000\n"))
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Nil(t, employees[0].ManagerID)
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	employees, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestParse_HeaderOnly(t *testing.T) {
	t.Parallel()

	employees, err := Parse(strings.NewReader("id,firstName,lastName,salary,managerId\n"))
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestParse_MissingColumns(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("id,firstName,salary\n1,John,100\n"))
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "lastname")
	assert.Contains(t, err.Error(), "managerid")
}

func TestParse_RecordErrors(t *testing.T) {
	t.Parallel()

	const header = "id,firstName,lastName,salary,managerId\n"
	cases := []struct {
		name string
		row  string
		want error
	}{
		{name: "too few fields", row: "1,John,Doe", want: ErrMalformedRecord},
		{name: "bad id", row: "x,John,Doe,100,", want: employee.ErrInvalidID},
		{name: "bad salary", row: "1,John,Doe,lots,", want: employee.ErrInvalidSalary},
		{name: "negative salary", row: "1,John,Doe,-5,", want: employee.ErrInvalidSalary},
		{name: "bad manager", row: "1,John,Doe,100,boss", want: employee.ErrInvalidManagerID},
		{name: "empty first name", row: "1, ,Doe,100,", want: employee.ErrInvalidFirstName},
		{name: "empty last name", row: "1,John,,100,", want: employee.ErrInvalidLastName},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(header + tc.row + "\n"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "expected %v, got %v", tc.want, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestLoader_ListAll(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "employees.csv")
	require.NoError(t, os.WriteFile(path, []byte(validCSV), 0o600))

	employees, err := NewLoader(path).ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, employees, 5)
}

func TestLoader_ListAll_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.csv")).ListAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
