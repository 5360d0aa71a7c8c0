package criteria

import "strings"

// SortOrder is an ORDER BY direction.
type SortOrder string

const (
	Asc  SortOrder = "ASC"
	Desc SortOrder = "DESC"
)

// ParseSortOrder returns Desc for a case-insensitive "DESC" and Asc otherwise.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Modifiers holds the optional sort, window and grouping settings that any
// node may carry. The zero value is unsorted, unbounded and ungrouped.
//
// Setters may be called any number of times before rendering.
type Modifiers struct {
	sort    string
	order   SortOrder
	limit   int
	start   int
	groupBy string
}

// SetSort sets the ORDER BY column.
func (m *Modifiers) SetSort(column string) { m.sort = column }

// SetOrder sets the sort direction. Anything but "DESC" means ascending.
func (m *Modifiers) SetOrder(order string) { m.order = ParseSortOrder(order) }

// SetLimit sets the row limit. Negative values are treated as 0 (unbounded).
func (m *Modifiers) SetLimit(limit int) { m.limit = max(limit, 0) }

// SetStart sets the offset of the first row. Negative values are treated as 0.
func (m *Modifiers) SetStart(start int) { m.start = max(start, 0) }

// SetGroupBy sets the GROUP BY column.
func (m *Modifiers) SetGroupBy(column string) { m.groupBy = column }

func (m Modifiers) Sort() string { return m.sort }

func (m Modifiers) Order() SortOrder {
	if m.order == "" {
		return Asc
	}
	return m.order
}

func (m Modifiers) Limit() int { return m.limit }

func (m Modifiers) Start() int { return m.start }

func (m Modifiers) GroupBy() string { return m.groupBy }

// HasWindow reports whether a limit or offset is set.
func (m Modifiers) HasWindow() bool { return m.limit != 0 || m.start != 0 }

// HasModifiers reports whether any modifier is set.
func (m Modifiers) HasModifiers() bool {
	return m.HasWindow() || m.sort != "" || m.groupBy != ""
}
