package collector

import (
	"context"
	"time"

	"AssetTracker/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
// Explicit Bars and Quotes win over bars generated from Prices.
type MockSource struct {
	Prices map[string]float64
	Bars   map[string][]model.Bar
	Quotes map[string]model.FastQuote
	Fail   map[string]error
	Now    func() time.Time
}

func (m *MockSource) Name() string { return "mock" }

// periodDays approximates calendar days per period for generated data.
var periodDays = map[model.Period]int{
	ShortHistory:    5,
	model.Period1mo: 30,
	model.Period3mo: 91,
	model.Period6mo: 182,
	model.Period1y:  365,
	model.Period2y:  730,
	model.Period5y:  1826,
	model.Period10y: 3652,
	model.PeriodMax: 7305,
}

func (m *MockSource) History(_ context.Context, ticker string, period model.Period) ([]model.Bar, error) {
	if err := m.Fail[ticker]; err != nil {
		return nil, &TransportError{Source: m.Name(), Ticker: ticker, Err: err}
	}
	if bars, ok := m.Bars[ticker]; ok {
		out := make([]model.Bar, len(bars))
		copy(out, bars)
		return out, nil
	}
	price, ok := m.Prices[ticker]
	if !ok {
		return nil, nil
	}
	days, ok := periodDays[period]
	if !ok {
		days = 30
	}
	return m.generateBars(price, days), nil
}

func (m *MockSource) FastQuote(ctx context.Context, ticker string) (model.FastQuote, error) {
	if err := m.Fail[ticker]; err != nil {
		return model.FastQuote{}, &TransportError{Source: m.Name(), Ticker: ticker, Err: err}
	}
	if q, ok := m.Quotes[ticker]; ok {
		return q, nil
	}
	bars, err := m.History(ctx, ticker, ShortHistory)
	if err != nil || len(bars) < 2 {
		return model.FastQuote{}, err
	}
	return model.FastQuote{
		LastPrice:        bars[len(bars)-1].Close,
		PreviousClose:    bars[len(bars)-2].Close,
		HasLastPrice:     true,
		HasPreviousClose: true,
	}, nil
}

func (m *MockSource) generateBars(basePrice float64, days int) []model.Bar {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	today := model.NaiveDate(now())
	bars := make([]model.Bar, days)
	for i := 0; i < days; i++ {
		bars[i] = model.Bar{
			Time:  today.AddDate(0, 0, -(days - 1 - i)),
			Close: basePrice * (1 + float64(i-days/2)*0.001),
		}
	}
	return bars
}
