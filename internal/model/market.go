package model

import "time"

// Bar is one history row from the quote source.
type Bar struct {
	Time  time.Time
	Close float64
}

// FastQuote is the lightweight last-price endpoint result. A field the source
// did not report has its Has flag unset and a zero value.
type FastQuote struct {
	LastPrice        float64
	PreviousClose    float64
	HasLastPrice     bool
	HasPreviousClose bool
}
