package service

import (
	"errors"

	"github.com/AdamBeresnev/privas/internal/priva"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts priva actions. A nil *Metrics records nothing.
type Metrics struct {
	actions  *prometheus.CounterVec
	poolSize prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "priva_actions_total",
			Help: "Priva actions run, by priva type, method and result.",
		}, []string{"type", "method", "result"}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "priva_pool_size",
			Help: "Privas currently loaded in memory.",
		}),
	}
	reg.MustRegister(m.actions, m.poolSize)
	return m
}

func (m *Metrics) observeAction(kind priva.Kind, method string, err error) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(string(kind), method, resultLabel(err)).Inc()
}

func (m *Metrics) setPoolSize(n int) {
	if m == nil {
		return
	}
	m.poolSize.Set(float64(n))
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var perr *priva.Error
	if errors.As(err, &perr) {
		return perr.Code.String()
	}
	switch {
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, ErrInvalidParams):
		return "invalid_params"
	}
	return "error"
}
