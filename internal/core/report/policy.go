package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	defaultMaxReportingDepth = 4
	defaultAverageScale      = 2
)

var (
	defaultMinSalaryMultiplier = decimal.RequireFromString("1.20")
	defaultMaxSalaryMultiplier = decimal.RequireFromString("1.50")
)

// Policy は異常判定のしきい値です。
type Policy struct {
	// MinSalaryMultiplier と MaxSalaryMultiplier は部下の平均給与に対する上長給与の許容帯です。
	MinSalaryMultiplier decimal.Decimal
	MaxSalaryMultiplier decimal.Decimal
	// MaxReportingDepth は最上位までに許容される上長の数です。
	MaxReportingDepth int
	// AverageScale は平均給与を四捨五入する小数桁数です。
	AverageScale int32
	// Workers は並列に解析する社員数の上限です。1 以下なら逐次処理します。
	Workers int
}

// DefaultPolicy は標準のしきい値を返します。
func DefaultPolicy() Policy {
	return Policy{
		MinSalaryMultiplier: defaultMinSalaryMultiplier,
		MaxSalaryMultiplier: defaultMaxSalaryMultiplier,
		MaxReportingDepth:   defaultMaxReportingDepth,
		AverageScale:        defaultAverageScale,
		Workers:             1,
	}
}

// Validate はしきい値の整合性を検証します。
// 最小倍率が最大倍率を上回る設定も受け付けます。その場合は両方の異常が同時に報告されます。
func (p Policy) Validate() error {
	if !p.MinSalaryMultiplier.IsPositive() {
		return fmt.Errorf("%w: min salary multiplier must be positive", ErrInvalidPolicy)
	}
	if !p.MaxSalaryMultiplier.IsPositive() {
		return fmt.Errorf("%w: max salary multiplier must be positive", ErrInvalidPolicy)
	}
	if p.MaxReportingDepth < 0 {
		return fmt.Errorf("%w: max reporting depth must not be negative", ErrInvalidPolicy)
	}
	if p.AverageScale < 0 {
		return fmt.Errorf("%w: average scale must not be negative", ErrInvalidPolicy)
	}
	return nil
}
