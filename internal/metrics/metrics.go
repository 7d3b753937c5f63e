package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business metrics
var (
	CasesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCasesOpened,
			Help: HelpTextCasesOpened,
		},
		[]string{LabelCase, LabelRarity},
	)

	UpgradesResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpgradesResolved,
			Help: HelpTextUpgradesResolved,
		},
		[]string{LabelOutcome},
	)

	ItemsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameItemsSold,
			Help: HelpTextItemsSold,
		},
	)

	BonusesClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBonusesClaimed,
			Help: HelpTextBonusesClaimed,
		},
	)

	GiveawayJoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGiveawayJoins,
			Help: HelpTextGiveawayJoins,
		},
	)

	GiveawaysResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGiveawaysResolved,
			Help: HelpTextGiveawaysResolved,
		},
	)
)
