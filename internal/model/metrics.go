package model

// MetricsTier names the fallback tier that produced a Metrics value.
type MetricsTier string

const (
	TierFastQuote MetricsTier = "fast"
	TierHistory   MetricsTier = "history"
	TierDefault   MetricsTier = "default"
)

// Metrics is the point-in-time summary tile of one asset.
type Metrics struct {
	Asset         string      `json:"asset"`
	Price         float64     `json:"price"`
	Change        float64     `json:"change"`
	PercentChange float64     `json:"percent_change"`
	Tier          MetricsTier `json:"tier"`
}

// TierOutcome is the result of one fallback tier: either Ok with Metrics, or
// Failed with a reason.
type TierOutcome struct {
	Metrics Metrics
	Reason  string
	OK      bool
}

// Ok wraps a usable tier result.
func Ok(m Metrics) TierOutcome { return TierOutcome{Metrics: m, OK: true} }

// Failed records why a tier produced nothing usable.
func Failed(reason string) TierOutcome { return TierOutcome{Reason: reason} }
