package leaguestats

import (
	"sort"
	"time"
)

type Aggregate int

const (
	Sum Aggregate = iota
	Count
)

// TopN sorts grouped rows by value descending and keeps the first n. Ties are broken by label
// ascending, with the nil label last. The input slice is not modified.
func TopN(rows []GroupRow, n int) []GroupRow {
	if n <= 0 {
		return []GroupRow{}
	}

	out := make([]GroupRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return LabelLess(out[i].Label, out[j].Label)
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopNGrouped groups rows by key, aggregates each group and returns the n largest groups.
// value is ignored for Count; a Sum with a nil value falls back to counting rows.
func TopNGrouped[T any](rows []T, key func(T) *string, value func(T) int64, agg Aggregate, n int) []GroupRow {
	if value == nil {
		agg = Count
	}

	totals := make(map[string]int64)
	var order []string
	var nilTotal int64
	var hasNil bool

	for _, row := range rows {
		v := int64(1)
		if agg == Sum {
			v = value(row)
		}

		k := key(row)
		if k == nil {
			nilTotal += v
			hasNil = true
			continue
		}
		if _, ok := totals[*k]; !ok {
			order = append(order, *k)
		}
		totals[*k] += v
	}

	groups := make([]GroupRow, 0, len(order)+1)
	for _, k := range order {
		label := k
		groups = append(groups, GroupRow{Label: &label, Value: totals[k]})
	}
	if hasNil {
		groups = append(groups, GroupRow{Label: nil, Value: nilTotal})
	}

	return TopN(groups, n)
}

// MonthBucket is one (month[, key]) group produced by MonthlyBreakdown.
type MonthBucket struct {
	Month time.Time
	Key   *string
	Count int64
}

type monthKey struct {
	year   int
	month  time.Month
	key    string
	hasKey bool
}

// MonthlyBreakdown truncates each row's date to the first day of its month and counts rows per
// month, or per (month, extra key) when extra is non-nil. Rows without a date are skipped.
// Buckets come back in chronological order.
func MonthlyBreakdown[T any](rows []T, date func(T) *time.Time, extra func(T) *string) []MonthBucket {
	index := make(map[monthKey]int)
	buckets := []MonthBucket{}

	for _, row := range rows {
		d := date(row)
		if d == nil {
			continue
		}

		mk := monthKey{year: d.Year(), month: d.Month()}
		var key *string
		if extra != nil {
			if key = extra(row); key != nil {
				mk.key = *key
				mk.hasKey = true
			}
		}

		if i, ok := index[mk]; ok {
			buckets[i].Count++
			continue
		}

		b := MonthBucket{Month: time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC), Count: 1}
		if key != nil {
			k := *key
			b.Key = &k
		}
		index[mk] = len(buckets)
		buckets = append(buckets, b)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if !buckets[i].Month.Equal(buckets[j].Month) {
			return buckets[i].Month.Before(buckets[j].Month)
		}
		return LabelLess(buckets[i].Key, buckets[j].Key)
	})
	return buckets
}

// LabelLess orders labels ascending with nil after every non-nil label.
func LabelLess(a, b *string) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}
