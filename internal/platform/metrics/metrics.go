package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ogurasousui/orgreport/internal/core/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orgreport"

// 実行結果のラベル値です。
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder は report.Recorder を Prometheus のカウンタで実装します。
type Recorder struct {
	runs     *prometheus.CounterVec
	findings *prometheus.CounterVec
}

// NewRecorder は Recorder を生成し、reg にカウンタを登録します。
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of report runs partitioned by result.",
		}, []string{"result"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Number of findings reported partitioned by kind.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{r.runs, r.findings} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}

	// 0 件の種類もシリーズとして公開します。
	for _, result := range []string{ResultSuccess, ResultError} {
		r.runs.WithLabelValues(result)
	}
	for _, kind := range []report.Kind{report.KindUnderpaid, report.KindOverpaid, report.KindExcessiveChain} {
		r.findings.WithLabelValues(string(kind))
	}

	return r, nil
}

// ObserveRun は実行結果を記録します。
func (r *Recorder) ObserveRun(err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.runs.WithLabelValues(result).Inc()
}

// ObserveFindings は検出結果を種類ごとに加算します。
func (r *Recorder) ObserveFindings(findings []report.Finding) {
	for kind, n := range report.CountByKind(findings) {
		r.findings.WithLabelValues(string(kind)).Add(float64(n))
	}
}

// Serve は addr で /metrics を公開し、ctx がキャンセルされるまでブロックします。
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics: serve on %s: %w", addr, err)
	}
	return nil
}
