package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CryptoSentinel/internal/model"
)

const namespace = "crypto_sentinel"

// Recorder exposes analysis-cycle metrics using Prometheus.
type Recorder struct {
	registry *prometheus.Registry

	cycles         *prometheus.CounterVec
	cycleDuration  *prometheus.HistogramVec
	signals        *prometheus.CounterVec
	signalScore    *prometheus.GaugeVec
	signalStrength *prometheus.GaugeVec
	lastPrice      *prometheus.GaugeVec
	backtestWin    *prometheus.GaugeVec
	backtestTrades *prometheus.GaugeVec
	backtestReturn *prometheus.GaugeVec
	errorsTotal    *prometheus.CounterVec
}

// New creates a Recorder backed by its own registry, which also carries the
// Go runtime and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		cycles: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Analysis cycles by trigger and status",
			},
			[]string{"trigger", "status"},
		),
		cycleDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "symbol_analysis_duration_seconds",
				Help:      "Duration of collect, backtest and evaluate for one symbol",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"symbol"},
		),
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signals_total",
				Help:      "Signals produced by action",
			},
			[]string{"symbol", "action"},
		),
		signalScore: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "signal_score",
				Help:      "Adjusted score of the latest signal",
			},
			[]string{"symbol"},
		),
		signalStrength: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "signal_strength",
				Help:      "Strength (1-5) of the latest signal",
			},
			[]string{"symbol"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_price",
				Help:      "Close of the latest analysed candle",
			},
			[]string{"symbol"},
		),
		backtestWin: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "backtest",
				Name:      "win_rate_percent",
				Help:      "Win rate of the latest backtest",
			},
			[]string{"symbol"},
		),
		backtestTrades: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "backtest",
				Name:      "trades",
				Help:      "Trades taken by the latest backtest",
			},
			[]string{"symbol"},
		),
		backtestReturn: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "backtest",
				Name:      "total_return_percent",
				Help:      "Compounded return of the latest backtest",
			},
			[]string{"symbol"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Errors by stage",
			},
			[]string{"stage"},
		),
	}
}

// RecordCycle records a finished analysis cycle.
func (r *Recorder) RecordCycle(trigger string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.cycles.WithLabelValues(trigger, status).Inc()
}

// RecordSignal records the latest signal for a symbol.
func (r *Recorder) RecordSignal(symbol string, sig model.Signal) {
	r.signals.WithLabelValues(symbol, string(sig.Action)).Inc()
	r.signalScore.WithLabelValues(symbol).Set(sig.Score)
	r.signalStrength.WithLabelValues(symbol).Set(float64(sig.Strength))
	r.lastPrice.WithLabelValues(symbol).Set(sig.Price)
}

// RecordBacktest records the latest backtest for a symbol. Failed runs are
// counted as errors and leave the gauges untouched.
func (r *Recorder) RecordBacktest(symbol string, res model.BacktestResult) {
	if res.Error != "" {
		r.errorsTotal.WithLabelValues("backtest").Inc()
		return
	}
	r.backtestWin.WithLabelValues(symbol).Set(res.WinRate)
	r.backtestTrades.WithLabelValues(symbol).Set(float64(res.TotalTrades))
	r.backtestReturn.WithLabelValues(symbol).Set(res.TotalReturn)
}

// RecordDuration records how long one symbol took to analyse.
func (r *Recorder) RecordDuration(symbol string, d time.Duration) {
	r.cycleDuration.WithLabelValues(symbol).Observe(d.Seconds())
}

// RecordError records an error occurrence at the given stage.
func (r *Recorder) RecordError(stage string) {
	r.errorsTotal.WithLabelValues(stage).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
