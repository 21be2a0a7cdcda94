package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// 入力元の種類です。
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// ログ出力形式です。
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Source   SourceConfig   `yaml:"source"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig は gRPC サーバーとメトリクス公開に関する設定です。
type ServerConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// SourceConfig は社員データの読み込み元です。
type SourceConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// ReportConfig は異常検出のしきい値です。倍率は丸め誤差を避けるため文字列で受け取ります。
type ReportConfig struct {
	MinSalaryMultiplier    decimal.Decimal `yaml:"-"`
	MaxSalaryMultiplier    decimal.Decimal `yaml:"-"`
	MinSalaryMultiplierRaw string          `yaml:"min_salary_multiplier"`
	MaxSalaryMultiplierRaw string          `yaml:"max_salary_multiplier"`
	MaxReportingDepth      int             `yaml:"max_reporting_depth"`
	AverageScale           int32           `yaml:"average_scale"`
	Workers                int             `yaml:"workers"`
}

// LogConfig はログ出力の設定です。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default は設定ファイルを指定しない場合の既定値を返します。
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{ListenAddr: ":50051"},
		Source: SourceConfig{Kind: SourceCSV},
		Report: ReportConfig{
			MinSalaryMultiplierRaw: "1.20",
			MaxSalaryMultiplierRaw: "1.50",
			MaxReportingDepth:      4,
			AverageScale:           2,
			Workers:                1,
		},
		Log: LogConfig{Level: "info", Format: LogFormatText},
	}
	if err := cfg.validateAndNormalize(); err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Load は指定されたパスから設定ファイルを読み込みます。
// ${VAR} 形式の記述は環境変数で展開され、記載のない項目は既定値のままになります。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}
	return Parse(b)
}

// Parse は YAML のバイト列から設定を構築します。
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate は設定を再検証し正規化します。コマンドラインで値を上書きした後に呼び出します。
func (c *Config) Validate() error {
	return c.validateAndNormalize()
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.Source.validateAndNormalize(); err != nil {
		return err
	}

	if c.Source.Kind == SourcePostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	if err := c.Report.validateAndNormalize(); err != nil {
		return err
	}

	return c.Log.validateAndNormalize()
}

func (s *SourceConfig) validateAndNormalize() error {
	s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
	if s.Kind == "" {
		s.Kind = SourceCSV
	}
	switch s.Kind {
	case SourceCSV, SourcePostgres:
		return nil
	default:
		return fmt.Errorf("config: source.kind %q must be %s or %s", s.Kind, SourceCSV, SourcePostgres)
	}
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (r *ReportConfig) validateAndNormalize() error {
	minMul, err := parseMultiplier(r.MinSalaryMultiplierRaw)
	if err != nil {
		return fmt.Errorf("config: report.min_salary_multiplier: %w", err)
	}
	r.MinSalaryMultiplier = minMul

	maxMul, err := parseMultiplier(r.MaxSalaryMultiplierRaw)
	if err != nil {
		return fmt.Errorf("config: report.max_salary_multiplier: %w", err)
	}
	r.MaxSalaryMultiplier = maxMul

	if r.MaxReportingDepth < 0 {
		return fmt.Errorf("config: report.max_reporting_depth must not be negative")
	}
	if r.AverageScale < 0 {
		return fmt.Errorf("config: report.average_scale must not be negative")
	}
	if r.Workers <= 0 {
		r.Workers = 1
	}
	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	switch l.Format {
	case "":
		l.Format = LogFormatText
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("config: log.format %q must be %s or %s", l.Format, LogFormatText, LogFormatJSON)
	}
	return nil
}

func parseMultiplier(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !v.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("must be positive, got %s", raw)
	}
	return v, nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報は URL エスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
