package helpers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pvb-community/pvb-bot/app/shared/errs"
)

var strictDurationPattern = regexp.MustCompile(`^(\d+)\s*([smhd])$`)

var unitSeconds = map[string]int64{
	"s": 1, "sec": 1, "secs": 1, "second": 1, "seconds": 1,
	"m": 60, "min": 60, "mins": 60, "minute": 60, "minutes": 60,
	"h": 3600, "hr": 3600, "hrs": 3600, "hour": 3600, "hours": 3600,
	"d": 86400, "day": 86400, "days": 86400,
}

// ParseStrictDuration parses a bare integer with a single unit suffix
// ("30s", "10m", "2h", "1d"). Timers and timeouts use this form; anything
// else, including a unitless number, is an InvalidArgument.
func ParseStrictDuration(spec string) (time.Duration, error) {
	m := strictDurationPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(spec)))
	if m == nil {
		return 0, errs.InvalidArgument("invalid duration %q: use forms like 30s, 10m, 2h, 1d", spec)
	}
	val, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, errs.InvalidArgument("invalid duration %q: %v", spec, err)
	}
	return time.Duration(val*unitSeconds[m[2]]) * time.Second, nil
}

// ParseDuration parses the lenient giveaway form: whitespace-separated
// terms like "1h 30m", long unit names ("2 hours"), and bare numbers
// meaning minutes. A spec that yields nothing positive is rejected.
func ParseDuration(spec string) (time.Duration, error) {
	var total int64
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(spec)))
	for i := 0; i < len(fields); i++ {
		var numStr, unitStr strings.Builder
		for _, r := range fields[i] {
			if unicode.IsDigit(r) {
				numStr.WriteRune(r)
			} else {
				unitStr.WriteRune(r)
			}
		}
		if numStr.Len() == 0 {
			continue
		}
		num, err := strconv.ParseInt(numStr.String(), 10, 64)
		if err != nil {
			continue
		}
		unit := unitStr.String()
		if unit == "" && i+1 < len(fields) {
			// "2 hours" splits the number from its unit word.
			if _, ok := unitSeconds[fields[i+1]]; ok {
				unit = fields[i+1]
				i++
			}
		}
		if secs, ok := unitSeconds[unit]; ok {
			total += num * secs
		} else if unit == "" {
			total += num * 60
		}
	}
	if total <= 0 {
		return 0, errs.InvalidArgument("invalid duration %q: use forms like 1h, 30m, 1d, 10s", spec)
	}
	return time.Duration(total) * time.Second, nil
}

// FormatElapsed renders a duration as "1h 2m 3s" the way the welcome-back
// notice displays AFK time.
func FormatElapsed(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
