package server

import (
	"time"

	"AssetTracker/internal/model"
	"AssetTracker/internal/recorder"
)

type errorResponse struct {
	Error string `json:"error"`
}

type assetsResponse struct {
	Assets        []model.Asset  `json:"assets"`
	Periods       []model.Period `json:"periods"`
	DefaultPeriod model.Period   `json:"default_period"`
}

type rowDTO struct {
	Date   string        `json:"date"`
	Values []model.Value `json:"values"`
}

type historyResponse struct {
	Period     model.Period `json:"period"`
	Columns    []string     `json:"columns"`
	Rows       []rowDTO     `json:"rows"`
	Empty      bool         `json:"empty"`
	Normalized bool         `json:"normalized"`
	FetchedAt  time.Time    `json:"fetched_at"`
	AgeSeconds float64      `json:"age_seconds"`
}

type pointDTO struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type ratioResponse struct {
	Period      model.Period        `json:"period"`
	Name        string              `json:"name"`
	Numerator   string              `json:"numerator"`
	Denominator string              `json:"denominator"`
	Points      []pointDTO          `json:"points"`
	Summary     *model.RatioSummary `json:"summary"`
}

type refreshDTO struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Period     string    `json:"period"`
	Requested  []string  `json:"requested"`
	Returned   []string  `json:"returned"`
	Rows       int       `json:"rows"`
	Error      string    `json:"error,omitempty"`
}

func newHistoryResponse(period model.Period, table model.JoinedTable, normalized bool, now time.Time) historyResponse {
	resp := historyResponse{
		Period:     period,
		Columns:    table.Columns,
		Rows:       make([]rowDTO, len(table.Rows)),
		Empty:      table.Empty(),
		Normalized: normalized,
		FetchedAt:  table.FetchedAt,
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	if !table.FetchedAt.IsZero() {
		resp.AgeSeconds = now.Sub(table.FetchedAt).Seconds()
	}
	for i, row := range table.Rows {
		resp.Rows[i] = rowDTO{Date: row.Time.Format(model.DateFormat), Values: row.Values}
	}
	return resp
}

func newRatioResponse(period model.Period, series model.RatioSeries, summary *model.RatioSummary) ratioResponse {
	resp := ratioResponse{
		Period:      period,
		Name:        series.Name(),
		Numerator:   series.Numerator,
		Denominator: series.Denominator,
		Points:      make([]pointDTO, len(series.Points)),
		Summary:     summary,
	}
	for i, p := range series.Points {
		resp.Points[i] = pointDTO{Date: p.Time.Format(model.DateFormat), Value: p.Price}
	}
	return resp
}

func newRefreshDTO(evt recorder.RefreshEvent) refreshDTO {
	return refreshDTO{
		ID:         evt.ID.String(),
		StartedAt:  evt.StartedAt,
		DurationMs: evt.Duration.Milliseconds(),
		Period:     evt.Period,
		Requested:  evt.Requested,
		Returned:   evt.Returned,
		Rows:       evt.Rows,
		Error:      evt.Err,
	}
}
