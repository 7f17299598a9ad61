package collector

import (
	"context"
	"time"

	"AssetTracker/internal/model"

	"golang.org/x/sync/errgroup"
)

// JoinAssets fetches every asset and outer-joins the non-empty series on
// date. Columns follow the order of assets; repeated names are fetched once.
// Any transport failure fails the whole join.
func (c *Collector) JoinAssets(ctx context.Context, assets []string, period model.Period) (model.JoinedTable, error) {
	names := unique(assets)
	series := make([]model.Series, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i, name := range names {
		g.Go(func() error {
			s, err := c.FetchSeries(gctx, name, period)
			if err != nil {
				return err
			}
			series[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.JoinedTable{}, err
	}

	withData := make([]model.Series, 0, len(series))
	for _, s := range series {
		if !s.Empty() {
			withData = append(withData, s)
		}
	}
	table := OuterJoin(withData...)
	table.FetchedAt = c.now()
	return table, nil
}

// OuterJoin aligns ascending series on the union of their timestamps.
// Cells an asset has no point for hold model.None.
func OuterJoin(series ...model.Series) model.JoinedTable {
	table := model.JoinedTable{Columns: make([]string, len(series))}
	for i, s := range series {
		table.Columns[i] = s.Asset
	}

	cursor := make([]int, len(series))
	for {
		var next time.Time
		found := false
		for i, s := range series {
			if cursor[i] < len(s.Points) {
				ts := s.Points[cursor[i]].Time
				if !found || ts.Before(next) {
					next, found = ts, true
				}
			}
		}
		if !found {
			return table
		}

		row := model.Row{Time: next, Values: make([]model.Value, len(series))}
		for i, s := range series {
			if cursor[i] < len(s.Points) && s.Points[cursor[i]].Time.Equal(next) {
				row.Values[i] = model.Some(s.Points[cursor[i]].Price)
				cursor[i]++
			}
		}
		table.Rows = append(table.Rows, row)
	}
}

func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
