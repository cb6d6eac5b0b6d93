package params

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxTopN caps how many rows a ranked dashboard series may be asked for.
const MaxTopN = 50

// URL: /v1/superadmin/league-dashboard?top_n=5
// → ParseReport() → Report{TopN:5}
// → SQL: ... ORDER BY value DESC, name ASC NULLS LAST LIMIT 5
// Report holds the knobs a caller may turn on the dashboard report.
type Report struct {
	TopN int `json:"top_n"`
}

// ParseReport parses ?top_n=... safely. Missing or malformed values fall back to fallback;
// values are clamped to [1, MaxTopN]. Careful key is case sensitive.
func ParseReport(q url.Values, fallback int) Report {
	r := Report{TopN: clampTopN(fallback)}

	if s := strings.TrimSpace(q.Get("top_n")); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			r.TopN = clampTopN(n)
		}
	}
	return r
}

func clampTopN(n int) int {
	switch {
	case n <= 0:
		return 1
	case n > MaxTopN:
		return MaxTopN
	default:
		return n
	}
}
