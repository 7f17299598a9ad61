package collector

import "fmt"

// TransportError wraps a network, HTTP or decode failure from a QuoteSource.
type TransportError struct {
	Source string
	Ticker string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Ticker, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
