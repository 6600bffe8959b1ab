package freshness

import "strings"

// Table maps a normalized produce name to its shelf life in calendar days.
// It is immutable after construction and safe for concurrent reads.
type Table struct {
	days        map[string]int
	defaultDays int
}

func NewTable(entries map[string]int, defaultDays int) *Table {
	days := make(map[string]int, len(entries))
	for name, d := range entries {
		days[Normalize(name)] = d
	}
	return &Table{
		days:        days,
		defaultDays: defaultDays,
	}
}

// Lookup never fails: unknown names resolve to the default shelf life.
func (t *Table) Lookup(name string) int {
	if d, ok := t.days[Normalize(name)]; ok {
		return d
	}
	return t.defaultDays
}

func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
