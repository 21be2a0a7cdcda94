package employee

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Employee は組織階層を構成する社員エンティティです。
// ManagerID が nil の場合は階層の最上位を表します。
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Salary    decimal.Decimal
	ManagerID *int64
}

// HasManager は上長が設定されているかを返します。
func (e Employee) HasManager() bool {
	return e.ManagerID != nil
}

// FullName は "名 姓" 形式の氏名を返します。
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Equal は全フィールドを値として比較します。
func (e Employee) Equal(other Employee) bool {
	if e.ID != other.ID || e.FirstName != other.FirstName || e.LastName != other.LastName {
		return false
	}
	if !e.Salary.Equal(other.Salary) {
		return false
	}
	switch {
	case e.ManagerID == nil && other.ManagerID == nil:
		return true
	case e.ManagerID == nil || other.ManagerID == nil:
		return false
	default:
		return *e.ManagerID == *other.ManagerID
	}
}

// ManagerRef は上長 ID のポインタを生成します。
func ManagerRef(id int64) *int64 {
	return &id
}
