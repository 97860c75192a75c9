package extract

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"edinet-facts/pkg/taxonomy"
)

// NotAvailable is rendered for unresolved values in reports.
const NotAvailable = "N/A"

// FormatValue renders a yen amount with a magnitude-scaled unit
// (億円/百万円/千円). Presentation only: the stored value is never
// changed.
func FormatValue(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.2f億円", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.2f百万円", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.2f千円", v/1_000)
	default:
		return fmt.Sprintf("%.0f円", v)
	}
}

// SummaryReport renders a human-readable concept listing for one
// extraction, sorted by concept name for stable output.
func SummaryReport(results map[string]Result, category taxonomy.Category) string {
	if len(results) == 0 {
		return "財務データの抽出に失敗しました。"
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "\n=== 財務データ抽出結果 (%s) ===\n", category)
	for _, name := range names {
		r := results[name]
		fmt.Fprintf(&b, "%s: %s\n", r.DisplayName, FormatValue(r.Value))
	}
	return b.String()
}
