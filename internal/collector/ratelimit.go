package collector

import (
	"context"
	"sync"
	"time"

	"AssetTracker/internal/model"
)

// MinInterval wraps a source and spaces outbound calls at least Interval
// apart. Each caller reserves its slot before waiting, so concurrent callers
// queue instead of firing together. A canceled context gives up the wait.
type MinInterval struct {
	Source   QuoteSource
	Interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func (m *MinInterval) Name() string { return m.Source.Name() }

func (m *MinInterval) wait(ctx context.Context) error {
	if m.Interval <= 0 {
		return nil
	}
	m.mu.Lock()
	now := time.Now()
	slot := m.next
	if slot.Before(now) {
		slot = now
	}
	m.next = slot.Add(m.Interval)
	m.mu.Unlock()

	d := time.Until(slot)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *MinInterval) History(ctx context.Context, ticker string, period model.Period) ([]model.Bar, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.Source.History(ctx, ticker, period)
}

func (m *MinInterval) FastQuote(ctx context.Context, ticker string) (model.FastQuote, error) {
	if err := m.wait(ctx); err != nil {
		return model.FastQuote{}, err
	}
	return m.Source.FastQuote(ctx, ticker)
}
