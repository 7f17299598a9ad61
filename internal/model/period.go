package model

import "fmt"

// Period is a lookback window understood by the quote source. It is passed
// through untouched.
type Period string

const (
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
	PeriodMax Period = "max"
)

// Periods lists the selectable periods in display order.
var Periods = []Period{Period1mo, Period3mo, Period6mo, Period1y, Period2y, Period5y, Period10y, PeriodMax}

// DefaultPeriod is the period preselected for history views.
const DefaultPeriod = Period5y

// Valid reports whether p is one of the selectable periods.
func (p Period) Valid() bool {
	for _, x := range Periods {
		if p == x {
			return true
		}
	}
	return false
}

func (p Period) String() string { return string(p) }

// ParsePeriod validates s against the selectable periods.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown period %q, want one of %v", s, Periods)
	}
	return p, nil
}
