package metrics

import "github.com/prometheus/client_golang/prometheus"

// Interfaces for metrics to avoid circular imports
type MetricsCounter interface {
	Inc()
}

type MetricsGauge interface {
	Set(float64)
	Add(float64)
}

type MetricsHistogram interface {
	Observe(float64)
}

// MetricsWrapper provides a narrow interface for the executor, runner
// and scraper to report metrics without depending on prometheus types.
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

func (w *MetricsWrapper) TransfersTotal() MetricsCounter {
	return &CounterWrapper{w.m.TransfersTotal}
}

func (w *MetricsWrapper) PicksPosted() MetricsCounter {
	return &CounterWrapper{w.m.PicksPosted}
}

func (w *MetricsWrapper) BankTenths() MetricsGauge {
	return &GaugeWrapper{w.m.BankTenths}
}

func (w *MetricsWrapper) HoursToDeadline() MetricsGauge {
	return &GaugeWrapper{w.m.HoursToDeadline}
}

func (w *MetricsWrapper) FetchLatency() MetricsHistogram {
	return &HistogramWrapper{w.m.FetchLatency}
}

// ScrapeErrorsInc satisfies sentiment.ScrapeMetrics.
func (w *MetricsWrapper) ScrapeErrorsInc() {
	w.m.ScrapeErrors.Inc()
}

// LexiconDownloadsInc satisfies sentiment.DownloadMetrics.
func (w *MetricsWrapper) LexiconDownloadsInc() {
	w.m.LexiconDownloads.Inc()
}

type CounterWrapper struct {
	c prometheus.Counter
}

func (cw *CounterWrapper) Inc() {
	cw.c.Inc()
}

type GaugeWrapper struct {
	g prometheus.Gauge
}

func (gw *GaugeWrapper) Set(v float64) {
	gw.g.Set(v)
}

func (gw *GaugeWrapper) Add(v float64) {
	gw.g.Add(v)
}

type HistogramWrapper struct {
	h prometheus.Histogram
}

func (hw *HistogramWrapper) Observe(v float64) {
	hw.h.Observe(v)
}
