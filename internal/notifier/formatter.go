package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"AssetTracker/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatPrice renders a price with thousands separators, e.g. "$1,234.57".
func FormatPrice(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func signed(v float64) string {
	s := humanize.FormatFloat("#,###.##", v)
	if v >= 0 {
		return "+" + s
	}
	return s
}

// FormatMetricsDigest formats the current metrics of every asset.
func FormatMetricsDigest(metrics []model.Metrics, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Asset Tracker</b> | %s\n\n", now.Format(model.DateFormat)))
	if len(metrics) == 0 {
		b.WriteString("No assets configured.\n")
		return b.String()
	}
	for _, m := range metrics {
		marker := "▲"
		if m.Change < 0 {
			marker = "▼"
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b>: %s %s (%s%%)",
			marker, html.EscapeString(m.Asset), FormatPrice(m.Price), signed(m.Change), signed(m.PercentChange)))
		if m.Tier == model.TierDefault {
			b.WriteString(" ⚠️ unavailable")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRatio formats a ratio summary. A nil summary means the two assets
// have no overlapping dates.
func FormatRatio(series model.RatioSeries, summary *model.RatioSummary, period model.Period) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚖️ <b>%s</b> | %s\n\n", html.EscapeString(series.Name()), period))
	if summary == nil {
		b.WriteString("No overlapping data for this period.\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Current: %.4f\n", summary.Current))
	b.WriteString(fmt.Sprintf("Average: %.4f\n", summary.Average))
	b.WriteString(fmt.Sprintf("Range: %.4f – %.4f\n", summary.Min, summary.Max))
	b.WriteString(fmt.Sprintf("Points: %s\n", humanize.Comma(int64(len(series.Points)))))
	return b.String()
}

// FormatRefreshFailure formats a scheduled refresh error.
func FormatRefreshFailure(period model.Period, startedAt time.Time, err error) string {
	return fmt.Sprintf("🚨 <b>Refresh failed</b> (%s, %s)\n%s",
		period, humanize.Time(startedAt), html.EscapeString(err.Error()))
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🤖 <b>Commands</b>\n\n")
	b.WriteString("/prices - current price of every asset\n")
	b.WriteString("/ratio &lt;num&gt; &lt;den&gt; [period] - price ratio summary\n")
	b.WriteString("/help - this message\n")
	return b.String()
}
