package calculator

import (
	"errors"
	"math"
)

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values provided")
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// MinMax scans values and returns the lowest and highest.
func MinMax(values []float64) (low, high float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return low, high, nil
}

// Change returns current-previous and the percentage of previous it
// represents. The percentage is zero when previous is zero.
func Change(current, previous float64) (change, percent float64) {
	change = current - previous
	if previous == 0 {
		return change, 0
	}
	return change, change / previous * 100
}
