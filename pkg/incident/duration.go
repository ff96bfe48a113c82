package incident

import (
	"fmt"
	"time"
)

// FormatDuration renders d in a short human form. Sub-second remainders are
// truncated and negative spans render as "0s".
//
//	< 1m  → "45s"
//	< 1h  → "3m 7s"
//	else  → "2h 15m"
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	mins, s := secs/60, secs%60
	if mins < 60 {
		return fmt.Sprintf("%dm %ds", mins, s)
	}
	hrs, m := mins/60, mins%60
	return fmt.Sprintf("%dh %dm", hrs, m)
}
