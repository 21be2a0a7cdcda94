package hierarchy

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ogurasousui/orgreport/internal/core/employee"
)

// MaxChainLength は上長チェーンの長さの上限です。循環検出の後に評価される安全装置です。
const MaxChainLength = 1000

// Index は社員一覧から構築される読み取り専用の階層インデックスです。
// 構築後は変更されないため、複数のゴルーチンから同時に参照できます。
type Index struct {
	byID         map[int64]employee.Employee
	subordinates map[int64][]employee.Employee
}

// New は社員一覧から Index を構築します。
// employees が nil の場合は ErrInvalidInput、ID が重複している場合は ErrDuplicateEmployeeID を返します。
// 上長 ID の参照整合性は構築時には検証しません。
func New(employees []employee.Employee) (*Index, error) {
	if employees == nil {
		return nil, fmt.Errorf("%w: employee collection is required", ErrInvalidInput)
	}

	idx := &Index{
		byID:         make(map[int64]employee.Employee, len(employees)),
		subordinates: make(map[int64][]employee.Employee),
	}

	for _, e := range employees {
		if _, exists := idx.byID[e.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateEmployeeID, e.ID)
		}
		idx.byID[e.ID] = e
		if e.ManagerID != nil {
			idx.subordinates[*e.ManagerID] = append(idx.subordinates[*e.ManagerID], e)
		}
	}

	for managerID := range idx.subordinates {
		slices.SortFunc(idx.subordinates[managerID], compareByID)
	}

	return idx, nil
}

// Len はインデックスに含まれる社員数を返します。
func (x *Index) Len() int {
	return len(x.byID)
}

// ByID は ID に対応する社員を返します。存在しない場合は ErrEmployeeNotFound を返します。
func (x *Index) ByID(id int64) (employee.Employee, error) {
	e, ok := x.byID[id]
	if !ok {
		return employee.Employee{}, fmt.Errorf("%w: id %d", ErrEmployeeNotFound, id)
	}
	return e, nil
}

// All は全社員を ID の昇順で返します。
func (x *Index) All() []employee.Employee {
	all := make([]employee.Employee, 0, len(x.byID))
	for _, e := range x.byID {
		all = append(all, e)
	}
	slices.SortFunc(all, compareByID)
	return all
}

// Managers は直属の上長から最上位までの上長チェーンを返します。
// 循環を検出した場合は *CircularHierarchyError、存在しない上長を参照している場合は
// ErrEmployeeNotFound を返します。
func (x *Index) Managers(e employee.Employee) ([]employee.Employee, error) {
	var (
		managers []employee.Employee
		path     []int64
		visited  = make(map[int64]struct{})
	)

	next := e.ManagerID
	for next != nil {
		id := *next
		if _, seen := visited[id]; seen {
			return nil, newCircularHierarchyError(e.ID, path, id)
		}
		if len(managers) >= MaxChainLength {
			return nil, fmt.Errorf("%w: employee %d exceeds %d managers", ErrChainTooLong, e.ID, MaxChainLength)
		}
		visited[id] = struct{}{}
		path = append(path, id)

		manager, err := x.ByID(id)
		if err != nil {
			return nil, fmt.Errorf("manager of employee %d: %w", e.ID, err)
		}
		managers = append(managers, manager)
		next = manager.ManagerID
	}

	return managers, nil
}

// Subordinates は直属の部下を ID の昇順で返します。部下がいない場合や未知の社員の場合は空です。
func (x *Index) Subordinates(e employee.Employee) []employee.Employee {
	return slices.Clone(x.subordinates[e.ID])
}

func compareByID(a, b employee.Employee) int {
	return cmp.Compare(a.ID, b.ID)
}
