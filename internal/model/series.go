package model

import "time"

// DateFormat is the layout used when timestamps are rendered as calendar days.
const DateFormat = "2006-01-02"

// PricePoint is a price at a naive calendar timestamp.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Series is an ascending, duplicate-free price history for one asset.
// An empty Series means no data for the requested period.
type Series struct {
	Asset  string
	Points []PricePoint
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Points) }

// Empty reports whether the series holds no points.
func (s Series) Empty() bool { return len(s.Points) == 0 }

// Latest returns the last point, or false when the series is empty.
func (s Series) Latest() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// NaiveDate drops the zone of t, keeping its wall-clock calendar day as a
// midnight timestamp labelled UTC.
func NaiveDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
