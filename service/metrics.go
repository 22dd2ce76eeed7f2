package service

import (
	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the pipeline counters exported on /metrics.
type Metrics struct {
	documents     *prometheus.CounterVec
	amounts       *prometheus.CounterVec
	flagged       *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxease_documents_total",
				Help: "Documents analyzed, by detected format and outcome status.",
			},
			[]string{"format", "status"},
		),
		amounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxease_amounts_extracted_total",
				Help: "Candidate amounts extracted from documents.",
			},
			[]string{"format"},
		),
		flagged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxease_amounts_flagged_total",
				Help: "Amounts above the review threshold.",
			},
			[]string{"format"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxease_items_skipped_total",
				Help: "Rows, pages or sheets that could not be read.",
			},
			[]string{"format"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxease_stage_duration_seconds",
				Help:    "Time spent in each pipeline stage.",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage", "format"},
		),
	}

	for _, c := range []prometheus.Collector{m.documents, m.amounts, m.flagged, m.skipped, m.stageDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(resp *dto.AnalysisResponse) {
	if m == nil {
		return
	}
	format := string(resp.Format)
	m.documents.WithLabelValues(format, string(resp.Status)).Inc()
	m.amounts.WithLabelValues(format).Add(float64(len(resp.Results)))
	m.flagged.WithLabelValues(format).Add(float64(resp.FlaggedCount))
	m.skipped.WithLabelValues(format).Add(float64(resp.SkippedCount))
}

func (m *Metrics) observeStage(stage, format string, seconds float64) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage, format).Observe(seconds)
}
