package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/ogurasousui/orgreport/internal/core/employee"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Hierarchy は解析に必要な読み取り専用の階層クエリです。*hierarchy.Index が満たします。
type Hierarchy interface {
	All() []employee.Employee
	Subordinates(e employee.Employee) []employee.Employee
	Managers(e employee.Employee) ([]employee.Employee, error)
}

// Generator は階層インデックスから異常を検出します。
type Generator struct {
	hierarchy Hierarchy
	policy    Policy
}

// NewGenerator は Generator を生成します。
func NewGenerator(h Hierarchy, policy Policy) *Generator {
	return &Generator{hierarchy: h, policy: policy}
}

// Generate は全社員を ID の昇順に解析し、異常を出力順に返します。
// 社員ごとの出力は給与に関する異常、上長チェーンの異常の順です。
// 階層の不整合を検出した場合はエラーを返し、部分的な結果は返しません。
func (g *Generator) Generate(ctx context.Context) ([]Finding, error) {
	if g.hierarchy == nil {
		return nil, ErrHierarchyMissing
	}
	if err := g.policy.Validate(); err != nil {
		return nil, err
	}

	employees := g.hierarchy.All()
	slices.SortFunc(employees, func(a, b employee.Employee) int {
		return cmp.Compare(a.ID, b.ID)
	})

	slots := make([][]Finding, len(employees))

	if g.policy.Workers <= 1 {
		for i, e := range employees {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			found, err := g.analyze(e)
			if err != nil {
				return nil, err
			}
			slots[i] = found
		}
	} else {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(g.policy.Workers)
		for i, e := range employees {
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				found, err := g.analyze(e)
				if err != nil {
					return err
				}
				slots[i] = found
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	findings := make([]Finding, 0, len(employees))
	for _, found := range slots {
		findings = append(findings, found...)
	}
	return findings, nil
}

func (g *Generator) analyze(e employee.Employee) ([]Finding, error) {
	var findings []Finding

	if subordinates := g.hierarchy.Subordinates(e); len(subordinates) > 0 {
		average := AverageSalary(subordinates, g.policy.AverageScale)
		minRequired := average.Mul(g.policy.MinSalaryMultiplier)
		maxAllowed := average.Mul(g.policy.MaxSalaryMultiplier)

		if e.Salary.LessThan(minRequired) {
			findings = append(findings, Finding{
				Employee:    e,
				Kind:        KindUnderpaid,
				Message:     messageUnderpaid,
				Discrepancy: decimal.NewNullDecimal(minRequired.Sub(e.Salary)),
			})
		}
		if e.Salary.GreaterThan(maxAllowed) {
			findings = append(findings, Finding{
				Employee:    e,
				Kind:        KindOverpaid,
				Message:     messageOverpaid,
				Discrepancy: decimal.NewNullDecimal(e.Salary.Sub(maxAllowed)),
			})
		}
	}

	managers, err := g.hierarchy.Managers(e)
	if err != nil {
		return nil, fmt.Errorf("report: reporting line of employee %d: %w", e.ID, err)
	}
	if excess := len(managers) - g.policy.MaxReportingDepth; excess > 0 {
		findings = append(findings, Finding{
			Employee: e,
			Kind:     KindExcessiveChain,
			Message:  fmt.Sprintf(messageExcessiveChain, excess),
			Excess:   excess,
		})
	}

	return findings, nil
}

// AverageSalary は給与の平均を scale 桁で四捨五入して返します。
// 給与は非負のため、DivRound の 0 から遠ざかる丸めは四捨五入と一致します。
func AverageSalary(employees []employee.Employee, scale int32) decimal.Decimal {
	if len(employees) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, e := range employees {
		sum = sum.Add(e.Salary)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(employees))), scale)
}
