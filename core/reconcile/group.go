package reconcile

import "street-sync/core/feed"

// Group is every feed line sharing one street key, in feed order.
type Group struct {
	Key   StreetKey
	Lines []feed.Line
}

// GroupLines groups lines by street key, preserving first-seen order.
// Lines without a defined parity are dropped.
func GroupLines(lines []feed.Line) []Group {
	index := make(map[StreetKey]int)
	var groups []Group

	for _, l := range lines {
		if l.Parity == feed.ParityUndefined {
			continue
		}
		key := NewStreetKey(l.Name(), l.MunicipalityCode)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Lines = append(groups[i].Lines, l)
	}

	return groups
}
