package metrics

import (
	"context"

	"coop-loan-service/internal/domain/loan"

	"github.com/prometheus/client_golang/prometheus"
)

// Loans counts lifecycle events. It satisfies loan.Notifier.
type Loans struct {
	events *prometheus.CounterVec
	amount *prometheus.CounterVec
}

func NewLoans(reg prometheus.Registerer) *Loans {
	m := &Loans{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coop",
			Subsystem: "loans",
			Name:      "events_total",
			Help:      "Loan lifecycle events by type.",
		}, []string{"type"}),
		amount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coop",
			Subsystem: "loans",
			Name:      "amount_total",
			Help:      "Sum of loan principal per lifecycle event type.",
		}, []string{"type"}),
	}
	if reg != nil {
		reg.MustRegister(m.events, m.amount)
	}
	return m
}

func (m *Loans) Notify(_ context.Context, ev loan.Event) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(string(ev.Type)).Inc()
	if ev.Amount > 0 {
		m.amount.WithLabelValues(string(ev.Type)).Add(float64(ev.Amount))
	}
}
