// Package csvfile は CSV ファイルから社員レコードを読み込む入力アダプタです。
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ogurasousui/orgreport/internal/core/employee"
	"github.com/shopspring/decimal"
)

const (
	columnID        = "id"
	columnFirstName = "firstname"
	columnLastName  = "lastname"
	columnSalary    = "salary"
	columnManagerID = "managerid"
)

var requiredColumns = []string{columnID, columnFirstName, columnLastName, columnSalary, columnManagerID}

var (
	ErrMissingColumns  = errors.New("csvfile: missing required columns")
	ErrMalformedRecord = errors.New("csvfile: malformed record")
)

// Loader は 1 つの CSV ファイルを読み込む employee.Repository の実装です。
type Loader struct {
	path string
}

// NewLoader は Loader を生成します。
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// ListAll はファイルを開き、全社員を読み込みます。
func (l *Loader) ListAll(ctx context.Context) ([]employee.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: open %s: %w", l.path, err)
	}
	defer f.Close()

	employees, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return employees, nil
}

// Parse はヘッダ行付きの CSV を社員一覧に変換します。
// 列名は前後の空白を除き大文字小文字を区別せずに照合します。空の入力は空の一覧を返します。
func Parse(r io.Reader) ([]employee.Employee, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	employees := make([]employee.Employee, 0)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return employees, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csvfile: read header: %w", err)
	}

	columns, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvfile: %w", err)
		}
		line, _ := reader.FieldPos(0)

		e, err := parseRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		employees = append(employees, e)
	}

	return employees, nil
}

func parseHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		found := make([]string, 0, len(columns))
		for name := range columns {
			found = append(found, name)
		}
		sort.Strings(found)
		return nil, fmt.Errorf("%w: required %v, found %v", ErrMissingColumns, missing, found)
	}

	return columns, nil
}

func parseRecord(record []string, columns map[string]int) (employee.Employee, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	if len(record) < len(requiredColumns)-1 {
		return employee.Employee{}, fmt.Errorf("%w: expected at least %d fields, got %d", ErrMalformedRecord, len(requiredColumns)-1, len(record))
	}

	id, err := strconv.ParseInt(field(columnID), 10, 64)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("%w: id %q: %w", ErrMalformedRecord, field(columnID), employee.ErrInvalidID)
	}

	salary, err := decimal.NewFromString(field(columnSalary))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("%w: salary %q: %w", ErrMalformedRecord, field(columnSalary), employee.ErrInvalidSalary)
	}

	var managerID *int64
	if raw := field(columnManagerID); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("%w: manager id %q: %w", ErrMalformedRecord, raw, employee.ErrInvalidManagerID)
		}
		managerID = &parsed
	}

	e := employee.Employee{
		ID:        id,
		FirstName: field(columnFirstName),
		LastName:  field(columnLastName),
		Salary:    salary,
		ManagerID: managerID,
	}
	if err := employee.Validate(e); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}
