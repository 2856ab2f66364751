package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmylchreest/toasty/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortByText      SortField = "text"
	SortByDuration  SortField = "duration"
	SortByDelay     SortField = "delay"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions returns default sort options (newest first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByTimestamp,
		Order: SortDesc,
	}
}

// Sort sorts records in place. Ties keep their original order.
func Sort(records []model.Record, opts SortOptions) {
	if len(records) == 0 {
		return
	}

	compare := func(i, j int) int {
		a, b := records[i], records[j]
		switch opts.Field {
		case SortByText:
			return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
		case SortByDuration:
			return int(a.Duration) - int(b.Duration)
		case SortByDelay:
			return cmpInt64(a.DelayMS, b.DelayMS)
		default:
			return cmpInt64(a.Timestamp, b.Timestamp)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if opts.Order == SortDesc {
			return compare(i, j) > 0
		}
		return compare(i, j) < 0
	})
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "timestamp", "time", "t":
		return SortByTimestamp, nil
	case "text", "x":
		return SortByText, nil
	case "duration", "d":
		return SortByDuration, nil
	case "delay":
		return SortByDelay, nil
	default:
		return SortByTimestamp, fmt.Errorf("invalid sort field: %s (use timestamp, text, duration, or delay)", s)
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending", "d":
		return SortDesc, nil
	case "asc", "ascending", "a":
		return SortAsc, nil
	default:
		return SortDesc, fmt.Errorf("invalid sort order: %s (use asc or desc)", s)
	}
}
