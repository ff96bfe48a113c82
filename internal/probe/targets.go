package probe

import "strings"

const (
	pingPrefix = "ping_"
	avgSuffix  = "_avg_ms"
	lossSuffix = "_loss_pct"
)

// AvgColumn returns the average-latency column name for target.
func AvgColumn(target string) string { return pingPrefix + target + avgSuffix }

// LossColumn returns the packet-loss column name for target.
func LossColumn(target string) string { return pingPrefix + target + lossSuffix }

// Targets returns the ping targets advertised by ping_<target>_avg_ms columns,
// in column order and without duplicates. Columns whose target part is empty
// are ignored.
func Targets(t Table) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range t.ColumnNames() {
		if len(c) <= len(pingPrefix)+len(avgSuffix) {
			continue
		}
		if !strings.HasPrefix(c, pingPrefix) || !strings.HasSuffix(c, avgSuffix) {
			continue
		}
		target := c[len(pingPrefix) : len(c)-len(avgSuffix)]
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}
