package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/orgreport/internal/core/employee"
	"github.com/ogurasousui/orgreport/internal/core/hierarchy"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Recorder はレポート実行結果の計測を受け取ります。
type Recorder interface {
	ObserveRun(err error)
	ObserveFindings(findings []Finding)
}

type noopRecorder struct{}

func (noopRecorder) ObserveRun(error)           {}
func (noopRecorder) ObserveFindings([]Finding) {}

// UseCase はレポート生成ユースケースの公開インターフェースです。
type UseCase interface {
	GenerateReport(ctx context.Context) (*Report, error)
}

// Service は社員一覧の読み込みから異常検出までをまとめます。
type Service struct {
	repo    employee.Repository
	policy  Policy
	clock   Clock
	tx      TransactionManager
	metrics Recorder
}

// NewService は Service を生成します。clock, tx, metrics が nil の場合は既定の実装を使います。
func NewService(repo employee.Repository, policy Policy, clock Clock, tx TransactionManager, metrics Recorder) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &Service{repo: repo, policy: policy, clock: clock, tx: tx, metrics: metrics}
}

// GenerateReport は社員一覧を読み込み、階層インデックスを構築してレポートを生成します。
func (s *Service) GenerateReport(ctx context.Context) (*Report, error) {
	rep, err := s.generate(ctx)
	s.metrics.ObserveRun(err)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveFindings(rep.Findings)
	return rep, nil
}

func (s *Service) generate(ctx context.Context) (*Report, error) {
	if err := s.policy.Validate(); err != nil {
		return nil, err
	}

	var employees []employee.Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		loaded, err := s.repo.ListAll(txCtx)
		if err != nil {
			return err
		}
		employees = loaded
		return nil
	}); err != nil {
		return nil, fmt.Errorf("report: load employees: %w", err)
	}

	idx, err := hierarchy.New(employees)
	if err != nil {
		return nil, err
	}

	findings, err := NewGenerator(idx, s.policy).Generate(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: s.clock.Now(),
		Findings:    findings,
	}, nil
}
