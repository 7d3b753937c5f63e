package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"

	MetricNameCasesOpened       = "cases_opened_total"
	MetricNameUpgradesResolved  = "upgrades_resolved_total"
	MetricNameItemsSold         = "items_sold_total"
	MetricNameBonusesClaimed    = "bonuses_claimed_total"
	MetricNameGiveawayJoins     = "giveaway_joins_total"
	MetricNameGiveawaysResolved = "giveaways_resolved_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextCasesOpened       = "Total number of cases opened"
	HelpTextUpgradesResolved  = "Total number of resolved upgrade attempts"
	HelpTextItemsSold         = "Total number of inventory items sold back"
	HelpTextBonusesClaimed    = "Total number of bonus claims"
	HelpTextGiveawayJoins     = "Total number of giveaway tickets bought"
	HelpTextGiveawaysResolved = "Total number of giveaways drawn"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelCase    = "case"
	LabelRarity  = "rarity"
	LabelOutcome = "outcome"
)

// HTTPLatencyBuckets covers the expected latency range of the API.
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
