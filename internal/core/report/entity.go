package report

import (
	"time"

	"github.com/ogurasousui/orgreport/internal/core/employee"
	"github.com/shopspring/decimal"
)

// Kind は検出された異常の種類を表します。
type Kind string

const (
	KindUnderpaid      Kind = "UNDERPAID"
	KindOverpaid       Kind = "OVERPAID"
	KindExcessiveChain Kind = "EXCESSIVE_CHAIN"
)

const (
	messageUnderpaid      = "Earns less than expected"
	messageOverpaid       = "Earns more than expected"
	messageExcessiveChain = "Too many managers in reporting line by %d levels"
)

// Finding は 1 人の社員に紐づく 1 件の異常です。
// Discrepancy は給与に関する異常の場合のみ有効で、Excess は上長チェーンの異常の場合のみ設定されます。
type Finding struct {
	Employee    employee.Employee
	Kind        Kind
	Message     string
	Discrepancy decimal.NullDecimal
	Excess      int
}

// Report は 1 回の実行で得られた異常の一覧です。
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Findings    []Finding
}

// Empty は異常が 1 件もない場合に true を返します。
func (r *Report) Empty() bool {
	return r == nil || len(r.Findings) == 0
}

// CountByKind は種類ごとの件数を返します。
func CountByKind(findings []Finding) map[Kind]int {
	counts := make(map[Kind]int, 3)
	for _, f := range findings {
		counts[f.Kind]++
	}
	return counts
}
