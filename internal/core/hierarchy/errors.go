package hierarchy

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidInput        = errors.New("hierarchy: invalid input")
	ErrDuplicateEmployeeID = fmt.Errorf("%w: duplicate employee id", ErrInvalidInput)
	ErrEmployeeNotFound    = errors.New("hierarchy: employee not found")
	ErrCircularHierarchy   = errors.New("hierarchy: circular management chain")
	ErrChainTooLong        = errors.New("hierarchy: management chain too long")
)

// CircularHierarchyError は上長をたどる途中で循環を検出したことを表します。
type CircularHierarchyError struct {
	EmployeeID int64
	// ManagerIDs は循環を検出するまでにたどった上長 ID です。最後の要素が重複した ID です。
	ManagerIDs []int64
}

func (e *CircularHierarchyError) Error() string {
	return fmt.Sprintf("%s: employee %d, manager ids %v", ErrCircularHierarchy.Error(), e.EmployeeID, e.ManagerIDs)
}

// Is は errors.Is(err, ErrCircularHierarchy) を満たすようにします。
func (e *CircularHierarchyError) Is(target error) bool {
	return target == ErrCircularHierarchy
}

func newCircularHierarchyError(employeeID int64, path []int64, repeated int64) *CircularHierarchyError {
	ids := slices.Clone(path)
	ids = append(ids, repeated)
	return &CircularHierarchyError{EmployeeID: employeeID, ManagerIDs: ids}
}
