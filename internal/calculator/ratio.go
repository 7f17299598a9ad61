package calculator

import (
	"errors"
	"math"

	"AssetTracker/internal/model"
)

var (
	// ErrSameAsset rejects a ratio of an asset against itself.
	ErrSameAsset = errors.New("select different assets to calculate a ratio")
	// ErrNoOverlap means the two columns share no usable timestamp.
	ErrNoOverlap = errors.New("no overlapping data for the selected assets")
)

// ComputeRatio divides the numerator column by the denominator column on the
// timestamps where both are defined. Points with a zero denominator are
// dropped. Missing columns yield an empty series.
func ComputeRatio(table model.JoinedTable, numerator, denominator string) (model.RatioSeries, error) {
	if numerator == denominator {
		return model.RatioSeries{}, ErrSameAsset
	}
	out := model.RatioSeries{Numerator: numerator, Denominator: denominator}
	ni, di := table.ColumnIndex(numerator), table.ColumnIndex(denominator)
	if ni < 0 || di < 0 {
		return out, nil
	}
	for _, row := range table.Rows {
		n, d := row.Values[ni], row.Values[di]
		if !n.Valid || !d.Valid || d.Float == 0 {
			continue
		}
		r := n.Float / d.Float
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		out.Points = append(out.Points, model.PricePoint{Time: row.Time, Price: r})
	}
	return out, nil
}

// Summarize computes current, average, min and max over the series.
// It returns ErrNoOverlap when the series has no points.
func Summarize(series model.RatioSeries) (model.RatioSummary, error) {
	if len(series.Points) == 0 {
		return model.RatioSummary{}, ErrNoOverlap
	}
	values := make([]float64, len(series.Points))
	for i, p := range series.Points {
		values[i] = p.Price
	}
	avg, err := Mean(values)
	if err != nil {
		return model.RatioSummary{}, err
	}
	low, high, err := MinMax(values)
	if err != nil {
		return model.RatioSummary{}, err
	}
	return model.RatioSummary{
		Current: values[len(values)-1],
		Average: avg,
		Min:     low,
		Max:     high,
	}, nil
}

// Analyze computes the ratio series and its summary. The summary is nil when
// the assets share no usable date; only ErrSameAsset is returned as an error.
func Analyze(table model.JoinedTable, numerator, denominator string) (model.RatioSeries, *model.RatioSummary, error) {
	series, err := ComputeRatio(table, numerator, denominator)
	if err != nil {
		return series, nil, err
	}
	summary, err := Summarize(series)
	if errors.Is(err, ErrNoOverlap) {
		return series, nil, nil
	}
	if err != nil {
		return series, nil, err
	}
	return series, &summary, nil
}
