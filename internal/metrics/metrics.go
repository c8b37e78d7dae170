package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors reporting registration and economy
// activity.
type Metrics struct {
	registrations     *prometheus.CounterVec
	paymentDecisions  *prometheus.CounterVec
	ledgerEntries     *prometheus.CounterVec
	promotions        prometheus.Counter
	promotionExpiries prometheus.Counter
	conflictRetries   prometheus.Counter
}

var (
	defaultOnce   sync.Once
	sharedMetrics *Metrics
)

// Default returns the package-level metrics instance registered with the
// global Prometheus registry. The collectors are created only once to avoid
// duplicate registration panics when services are instantiated multiple times
// (e.g. in unit tests).
func Default() *Metrics {
	defaultOnce.Do(func() {
		sharedMetrics = MustNew(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNew constructs a Metrics instance using the provided registerer. Pass a
// fresh registry in tests that need isolated collectors. Registration errors
// other than AlreadyRegistered panic, mirroring promauto semantics.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	registrations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deltaarena",
			Subsystem: "registry",
			Name:      "registrations_total",
			Help:      "Registration state transitions by outcome.",
		},
		[]string{"outcome"},
	)
	paymentDecisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deltaarena",
			Subsystem: "registry",
			Name:      "payment_decisions_total",
			Help:      "Payment workflow decisions by kind.",
		},
		[]string{"decision"},
	)
	ledgerEntries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deltaarena",
			Subsystem: "economy",
			Name:      "ledger_entries_total",
			Help:      "Ledger entries appended by reason.",
		},
		[]string{"reason"},
	)
	promotions := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "deltaarena",
			Subsystem: "registry",
			Name:      "waitlist_promotions_total",
			Help:      "Waitlisted registrations promoted into a free slot.",
		},
	)
	promotionExpiries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "deltaarena",
			Subsystem: "registry",
			Name:      "waitlist_promotion_expiries_total",
			Help:      "Promotions that lapsed unactioned and were requeued.",
		},
	)
	conflictRetries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "deltaarena",
			Subsystem: "registry",
			Name:      "conflict_retries_total",
			Help:      "Operations retried after a concurrency conflict.",
		},
	)

	collectors := []prometheus.Collector{
		registrations, paymentDecisions, ledgerEntries,
		promotions, promotionExpiries, conflictRetries,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch target := collector.(type) {
				case *prometheus.CounterVec:
					existing := already.ExistingCollector.(*prometheus.CounterVec)
					switch target {
					case registrations:
						registrations = existing
					case paymentDecisions:
						paymentDecisions = existing
					case ledgerEntries:
						ledgerEntries = existing
					}
				case prometheus.Counter:
					existing := already.ExistingCollector.(prometheus.Counter)
					switch target {
					case promotions:
						promotions = existing
					case promotionExpiries:
						promotionExpiries = existing
					case conflictRetries:
						conflictRetries = existing
					}
				}
				continue
			}
			panic(err)
		}
	}

	return &Metrics{
		registrations:     registrations,
		paymentDecisions:  paymentDecisions,
		ledgerEntries:     ledgerEntries,
		promotions:        promotions,
		promotionExpiries: promotionExpiries,
		conflictRetries:   conflictRetries,
	}
}

// IncRegistration counts a registration reaching the given outcome.
func (m *Metrics) IncRegistration(outcome string) {
	if m == nil || m.registrations == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

// IncPaymentDecision counts a payment workflow decision.
func (m *Metrics) IncPaymentDecision(decision string) {
	if m == nil || m.paymentDecisions == nil {
		return
	}
	m.paymentDecisions.WithLabelValues(decision).Inc()
}

// IncLedgerEntry counts an appended ledger entry by reason.
func (m *Metrics) IncLedgerEntry(reason string) {
	if m == nil || m.ledgerEntries == nil {
		return
	}
	m.ledgerEntries.WithLabelValues(reason).Inc()
}

// IncPromotion counts a waitlist promotion.
func (m *Metrics) IncPromotion() {
	if m == nil || m.promotions == nil {
		return
	}
	m.promotions.Inc()
}

// IncPromotionExpiry counts a lapsed promotion window.
func (m *Metrics) IncPromotionExpiry() {
	if m == nil || m.promotionExpiries == nil {
		return
	}
	m.promotionExpiries.Inc()
}

// IncConflictRetry counts an internal retry after a concurrency conflict.
func (m *Metrics) IncConflictRetry() {
	if m == nil || m.conflictRetries == nil {
		return
	}
	m.conflictRetries.Inc()
}
