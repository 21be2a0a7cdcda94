package employee

import (
	"fmt"
	"strings"
)

// Validate は読み込んだ社員レコードが前提条件を満たすか検証します。
func Validate(e Employee) error {
	if strings.TrimSpace(e.FirstName) == "" {
		return fmt.Errorf("id %d: %w", e.ID, ErrInvalidFirstName)
	}
	if strings.TrimSpace(e.LastName) == "" {
		return fmt.Errorf("id %d: %w", e.ID, ErrInvalidLastName)
	}
	if e.Salary.IsNegative() {
		return fmt.Errorf("id %d: %w", e.ID, ErrInvalidSalary)
	}
	return nil
}

// Normalize は氏名の前後の空白を取り除いたコピーを返します。
func Normalize(e Employee) Employee {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	if e.ManagerID != nil {
		e.ManagerID = ManagerRef(*e.ManagerID)
	}
	return e
}
