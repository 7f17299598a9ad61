package model

// RatioSeries is numerator/denominator over the timestamps where both are
// defined and the denominator is non-zero.
type RatioSeries struct {
	Numerator   string       `json:"numerator"`
	Denominator string       `json:"denominator"`
	Points      []PricePoint `json:"points"`
}

// RatioSummary describes a non-empty RatioSeries.
type RatioSummary struct {
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Name is the display label, e.g. "Gold / Silver".
func (r RatioSeries) Name() string { return r.Numerator + " / " + r.Denominator }
