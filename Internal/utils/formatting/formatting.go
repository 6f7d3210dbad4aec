package formatting

import (
	"fmt"
	"strings"

	"github.com/bajutae/Findupbitjewel/Internal/types"
)

// RepeatString repeats a string n times
func RepeatString(s string, count int) string {
	result := ""
	for i := 0; i < count; i++ {
		result += s
	}
	return result
}

// Separator returns a line separator of given width
func Separator(width int) string {
	return RepeatString("=", width)
}

// FormatCompact renders a large currency amount as $1.2M / $3.4B style.
func FormatCompact(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// RenderReport lays out a finished screening run as a console table.
func RenderReport(report *types.ScreenReport) string {
	var b strings.Builder

	b.WriteString(Separator(80) + "\n")
	b.WriteString("💎 HIDDEN GEM SCREENING RESULTS\n")
	b.WriteString(Separator(80) + "\n")
	fmt.Fprintf(&b, "Evaluated: %d | Admitted: %d | Short on data: %d | Rejected: %d | Took %.2fs\n",
		report.Evaluated, report.Admitted, report.InsufficientData,
		report.CriteriaRejected, report.Duration.Seconds())
	b.WriteString(Separator(80) + "\n")

	if len(report.Candidates) == 0 {
		b.WriteString("No candidates passed the criteria this run.\n")
		return b.String()
	}

	for i, c := range report.Candidates {
		fmt.Fprintf(&b, "%2d. %-12s  score %6.1f  [%s]\n", i+1, c.Symbol, c.Score, c.Recommendation)
		fmt.Fprintf(&b, "    Price %s | 24h value %s | RSI %.1f | CCI %.1f | Vol %.1f%% | Down %.1f%% from high\n",
			FormatCompact(c.Metrics.Price), FormatCompact(c.Metrics.TradedValue24h),
			c.Metrics.RSI, c.Metrics.CCI, c.Metrics.Volatility, c.Metrics.DeclineFromHigh)
		if c.Metrics.MarketCap != nil {
			fmt.Fprintf(&b, "    Market cap %s\n", FormatCompact(*c.Metrics.MarketCap))
		}
		if len(c.Signals) > 0 {
			fmt.Fprintf(&b, "    Signals: %s\n", strings.Join(c.Signals, ", "))
		}
		fmt.Fprintf(&b, "    %s\n", c.Reason)
	}

	b.WriteString(Separator(80) + "\n")
	return b.String()
}
