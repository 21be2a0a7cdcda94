// Package app は設定からレポート生成ユースケースを組み立てます。
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ogurasousui/orgreport/internal/adapters/repository/postgres"
	"github.com/ogurasousui/orgreport/internal/adapters/source/csvfile"
	"github.com/ogurasousui/orgreport/internal/core/employee"
	"github.com/ogurasousui/orgreport/internal/core/report"
	"github.com/ogurasousui/orgreport/internal/platform/config"
	pg "github.com/ogurasousui/orgreport/internal/platform/db/postgres"
)

var ErrSourcePathRequired = errors.New("app: source.path must be set for csv source")

// Policy は report 設定から report.Policy を構築します。
func Policy(cfg config.ReportConfig) report.Policy {
	return report.Policy{
		MinSalaryMultiplier: cfg.MinSalaryMultiplier,
		MaxSalaryMultiplier: cfg.MaxSalaryMultiplier,
		MaxReportingDepth:   cfg.MaxReportingDepth,
		AverageScale:        cfg.AverageScale,
		Workers:             cfg.Workers,
	}
}

// Source は社員データの読み込み元と、その読み込みに使うトランザクション制御です。
type Source struct {
	Repository employee.Repository
	Tx         report.TransactionManager
	close      func()
}

// Close は読み込み元が保持する接続を解放します。
func (s *Source) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenSource は source 設定に応じて CSV ファイルまたは PostgreSQL の読み込み元を開きます。
func OpenSource(ctx context.Context, cfg *config.Config) (*Source, error) {
	switch cfg.Source.Kind {
	case config.SourceCSV, "":
		if cfg.Source.Path == "" {
			return nil, ErrSourcePathRequired
		}
		return &Source{Repository: csvfile.NewLoader(cfg.Source.Path)}, nil
	case config.SourcePostgres:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return &Source{
			Repository: postgres.NewEmployeeRepository(pool),
			Tx:         pg.NewTransactionManager(pool),
			close:      pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("app: unsupported source kind %q", cfg.Source.Kind)
	}
}

// NewReportService は読み込み元と設定からレポート生成サービスを構築します。
func NewReportService(src *Source, cfg config.ReportConfig, recorder report.Recorder) *report.Service {
	return report.NewService(src.Repository, Policy(cfg), nil, src.Tx, recorder)
}
