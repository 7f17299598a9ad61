package calculator

import "AssetTracker/internal/model"

// Normalize rebases every column to its first defined value, expressing each
// cell as percent change from that value. Missing cells stay missing, and a
// column whose first value is zero has no base and becomes all-missing.
func Normalize(table model.JoinedTable) model.JoinedTable {
	bases := make([]model.Value, len(table.Columns))
	for _, row := range table.Rows {
		for i, v := range row.Values {
			if !bases[i].Valid && v.Valid {
				bases[i] = v
			}
		}
	}
	rows := make([]model.Row, len(table.Rows))
	for r, row := range table.Rows {
		values := make([]model.Value, len(row.Values))
		for i, v := range row.Values {
			base := bases[i]
			if !v.Valid || !base.Valid || base.Float == 0 {
				values[i] = model.None
				continue
			}
			values[i] = model.Some(v.Float/base.Float*100 - 100)
		}
		rows[r] = model.Row{Time: row.Time, Values: values}
	}
	return model.JoinedTable{Columns: table.Columns, Rows: rows, FetchedAt: table.FetchedAt}
}
