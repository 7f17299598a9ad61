package collector_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"AssetTracker/internal/collector"
	"AssetTracker/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMockCollector(t *testing.T) (*collector.Collector, *MockQuoteSource) {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := NewMockQuoteSource(ctrl)
	return collector.NewCollector(src, model.MustRegistry(model.DefaultAssets)), src
}

func bar(day int, close float64) model.Bar {
	return model.Bar{Time: time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC), Close: close}
}

func TestResolveMetrics_FastQuote(t *testing.T) {
	t.Parallel()

	c, src := newMockCollector(t)
	// Assert: the history tier is never consulted when the fast quote is usable.
	src.EXPECT().
		FastQuote(gomock.Any(), "GC=F").
		Return(model.FastQuote{LastPrice: 110, PreviousClose: 100, HasLastPrice: true, HasPreviousClose: true}, nil).
		Times(1)

	m := c.ResolveMetrics(t.Context(), "Gold")
	require.Equal(t, model.Metrics{Asset: "Gold", Price: 110, Change: 10, PercentChange: 10, Tier: model.TierFastQuote}, m)
}

func TestResolveMetrics_FallsBackToShortHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		quote model.FastQuote
		err   error
	}{
		{name: "transport error", err: errors.New("connection reset")},
		{name: "missing previous close", quote: model.FastQuote{LastPrice: 5, HasLastPrice: true}},
		{name: "zero previous close", quote: model.FastQuote{LastPrice: 5, HasLastPrice: true, HasPreviousClose: true}},
		{name: "zero last price", quote: model.FastQuote{PreviousClose: 5, HasLastPrice: true, HasPreviousClose: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, src := newMockCollector(t)
			src.EXPECT().FastQuote(gomock.Any(), "SI=F").Return(tt.quote, tt.err)
			src.EXPECT().
				History(gomock.Any(), "SI=F", collector.ShortHistory).
				Return([]model.Bar{bar(1, 20), bar(2, 24), bar(3, 30)}, nil)

			m := c.ResolveMetrics(t.Context(), "Silver")
			require.Equal(t, model.TierHistory, m.Tier)
			require.Equal(t, 30.0, m.Price)
			require.Equal(t, 6.0, m.Change)
			require.InDelta(t, 25.0, m.PercentChange, 1e-9)
		})
	}
}

func TestResolveMetrics_SingleHistoryRow(t *testing.T) {
	t.Parallel()

	c, src := newMockCollector(t)
	src.EXPECT().FastQuote(gomock.Any(), "BTC-USD").Return(model.FastQuote{}, nil)
	src.EXPECT().History(gomock.Any(), "BTC-USD", collector.ShortHistory).Return([]model.Bar{bar(1, 65000)}, nil)

	m := c.ResolveMetrics(t.Context(), "Bitcoin")
	require.Equal(t, model.Metrics{Asset: "Bitcoin", Price: 65000, Tier: model.TierHistory}, m)
}

func TestResolveMetrics_ShortHistoryFoldsIntradayRow(t *testing.T) {
	t.Parallel()

	c, src := newMockCollector(t)
	src.EXPECT().FastQuote(gomock.Any(), "SI=F").Return(model.FastQuote{}, errors.New("timeout"))
	src.EXPECT().
		History(gomock.Any(), "SI=F", collector.ShortHistory).
		Return([]model.Bar{
			bar(1, 20),
			bar(2, 24),
			{Time: time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC), Close: 25},
		}, nil)

	m := c.ResolveMetrics(t.Context(), "Silver")
	require.Equal(t, model.TierHistory, m.Tier)
	require.Equal(t, 25.0, m.Price)
	require.Equal(t, 5.0, m.Change)
	require.InDelta(t, 25.0, m.PercentChange, 1e-9)
}

func TestResolveMetrics_DefaultWhenAllTiersFail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bars    []model.Bar
		histErr error
	}{
		{name: "history error", histErr: errors.New("timeout")},
		{name: "history empty"},
		{name: "only non-finite closes", bars: []model.Bar{bar(1, math.NaN()), bar(2, math.Inf(1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, src := newMockCollector(t)
			src.EXPECT().FastQuote(gomock.Any(), "PA=F").Return(model.FastQuote{}, errors.New("boom"))
			src.EXPECT().History(gomock.Any(), "PA=F", collector.ShortHistory).Return(tt.bars, tt.histErr)

			m := c.ResolveMetrics(t.Context(), "Palladium")
			require.Equal(t, model.Metrics{Asset: "Palladium", Tier: model.TierDefault}, m)
		})
	}
}

func TestResolveMetrics_PanickingSourceIsIsolated(t *testing.T) {
	t.Parallel()

	c, src := newMockCollector(t)
	src.EXPECT().FastQuote(gomock.Any(), "ETH-USD").DoAndReturn(func(_ context.Context, _ string) (model.FastQuote, error) {
		panic("malformed payload")
	})
	src.EXPECT().History(gomock.Any(), "ETH-USD", collector.ShortHistory).Return([]model.Bar{bar(1, 3000), bar(2, 3300)}, nil)

	m := c.ResolveMetrics(t.Context(), "Ethereum")
	require.Equal(t, model.TierHistory, m.Tier)
	require.InDelta(t, 10.0, m.PercentChange, 1e-9)
}

func TestResolveMetrics_UnknownAsset(t *testing.T) {
	t.Parallel()

	// Assert: no source calls are expected for an unregistered asset.
	c, _ := newMockCollector(t)
	m := c.ResolveMetrics(t.Context(), "FakeAsset")
	require.Equal(t, model.Metrics{Asset: "FakeAsset", Tier: model.TierDefault}, m)
}

func TestAllMetrics_OneFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	src := &collector.MockSource{
		Quotes: map[string]model.FastQuote{
			"GC=F": {LastPrice: 2400, PreviousClose: 2380, HasLastPrice: true, HasPreviousClose: true},
		},
		Fail: map[string]error{"SI=F": errors.New("unreachable")},
	}
	reg := model.MustRegistry([]model.Asset{{Name: "Gold", Ticker: "GC=F"}, {Name: "Silver", Ticker: "SI=F"}})
	c := collector.NewCollector(src, reg)

	out := c.AllMetrics(t.Context())
	require.Len(t, out, 2)
	require.Equal(t, "Gold", out[0].Asset)
	require.Equal(t, 2400.0, out[0].Price)
	require.Equal(t, model.TierFastQuote, out[0].Tier)
	require.Equal(t, model.Metrics{Asset: "Silver", Tier: model.TierDefault}, out[1])
}
