package domain

import (
	"sort"
	"strconv"
	"time"
)

// Colors allowed on a status option badge.
var OptionColors = []string{"slate", "green", "amber", "red", "blue", "purple"}

// ValidOptionColor reports whether c is one of the fixed palette values.
func ValidOptionColor(c string) bool {
	for _, v := range OptionColors {
		if v == c {
			return true
		}
	}
	return false
}

// StatusOption is an admin-curated quick-select status value. It is a
// suggestion catalog only: stored user statuses are free text and are
// not constrained to this set.
type StatusOption struct {
	ID    string
	Name  string // unique
	Color string // one of OptionColors

	// SortOrder is stored as text for historical reasons but compared
	// numerically. Values that fail to parse sort after all parseable
	// ones.
	SortOrder string

	CreatedAt time.Time
}

// orderValue parses the textual sort order. Unparsable values report
// ok=false and are pushed after every parseable value.
func (o StatusOption) orderValue() (int, bool) {
	n, err := strconv.Atoi(o.SortOrder)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortOptions orders options by numeric sort order ascending, with
// unparsable values last. Ties, including ties between unparsable
// values, keep their existing (insertion) order. Both store drivers use
// this so the rule cannot diverge between backends.
func SortOptions(opts []StatusOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		a, aok := opts[i].orderValue()
		b, bok := opts[j].orderValue()
		switch {
		case aok && bok:
			return a < b
		case aok:
			return true // parseable before unparsable
		default:
			return false // unparsable never moves ahead
		}
	})
}
