package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"AssetTracker/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// YahooSource implements QuoteSource using the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL string
	Client  HTTPClient

	zones sync.Map // exchange timezone name -> *time.Location
}

// NewYahooSource creates a Yahoo Finance source.
func NewYahooSource(client HTTPClient) *YahooSource {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &YahooSource{BaseURL: DefaultYahooBaseURL, Client: client}
}

func (s *YahooSource) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []yahooResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooResult struct {
	Meta struct {
		ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
		RegularMarketPrice   *float64 `json:"regularMarketPrice"`
		PreviousClose        *float64 `json:"previousClose"`
		ChartPreviousClose   *float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// fetchChart returns the first chart result, or nil when Yahoo answered
// with no result.
func (s *YahooSource) fetchChart(ctx context.Context, ticker, rng string) (*yahooResult, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		s.BaseURL, url.PathEscape(ticker), url.QueryEscape(rng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, s.fail(ticker, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, s.fail(ticker, fmt.Errorf("fetch: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.fail(ticker, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, s.fail(ticker, fmt.Errorf("status %d, body: %.200s", resp.StatusCode, body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, s.fail(ticker, fmt.Errorf("decode: %w", err))
	}
	if chart.Chart.Error != nil {
		return nil, s.fail(ticker, fmt.Errorf("api error: %s", chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}
	return &chart.Chart.Result[0], nil
}

func (s *YahooSource) fail(ticker string, err error) error {
	return &TransportError{Source: s.Name(), Ticker: ticker, Err: err}
}

// location resolves the exchange zone, falling back to UTC.
func (s *YahooSource) location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	if loc, ok := s.zones.Load(name); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	s.zones.Store(name, loc)
	return loc
}

// History returns daily closes in the exchange's own time zone. Null closes
// (holidays, halted sessions) are skipped.
func (s *YahooSource) History(ctx context.Context, ticker string, period model.Period) ([]model.Bar, error) {
	res, err := s.fetchChart(ctx, ticker, string(period))
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Timestamp) == 0 || len(res.Indicators.Quote) == 0 {
		return nil, nil
	}

	loc := s.location(res.Meta.ExchangeTimezoneName)
	closes := res.Indicators.Quote[0].Close
	bars := make([]model.Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		bars = append(bars, model.Bar{Time: time.Unix(ts, 0).In(loc), Close: *closes[i]})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// FastQuote reads the last price and previous close from the chart metadata.
func (s *YahooSource) FastQuote(ctx context.Context, ticker string) (model.FastQuote, error) {
	res, err := s.fetchChart(ctx, ticker, "1d")
	if err != nil {
		return model.FastQuote{}, err
	}
	var q model.FastQuote
	if res == nil {
		return q, nil
	}
	if p := res.Meta.RegularMarketPrice; p != nil {
		q.LastPrice, q.HasLastPrice = *p, true
	}
	prev := res.Meta.PreviousClose
	if prev == nil {
		prev = res.Meta.ChartPreviousClose
	}
	if prev != nil {
		q.PreviousClose, q.HasPreviousClose = *prev, true
	}
	return q, nil
}
