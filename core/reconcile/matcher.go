package reconcile

import (
	"github.com/google/uuid"
)

// Matcher resolves feed line groups against a Cache.
type Matcher struct {
	cache *Cache
	newID func() string
}

// NewMatcher creates a matcher that mints random UUIDs.
func NewMatcher(cache *Cache) *Matcher {
	return &Matcher{cache: cache, newID: uuid.NewString}
}

// WithIDGenerator replaces the ID generator, mainly for tests.
func (m *Matcher) WithIDGenerator(fn func() string) *Matcher {
	m.newID = fn
	return m
}

// Match resolves every group. It performs no I/O and cannot fail.
func (m *Matcher) Match(groups []Group) Result {
	var t tally
	t.s.CanonicalStreets = m.cache.Len()
	t.s.Streets = len(groups)

	streets := make([]StreetResult, 0, len(groups))
	for _, g := range groups {
		if len(g.Lines) == 0 {
			continue
		}
		sr := m.matchGroup(g, &t)
		if !sr.Existing {
			t.s.NewStreets++
		}
		streets = append(streets, sr)
	}

	return Result{Streets: streets, Summary: t.result()}
}

func (m *Matcher) matchGroup(g Group, t *tally) StreetResult {
	first := g.Lines[0]
	sr := StreetResult{
		MunicipalityCode: g.Key.MunicipalityCode,
		NameFi:           first.NameFi,
		NameSv:           first.NameSv,
		Outcomes:         make([]Outcome, 0, len(g.Lines)),
	}

	street, exists := m.cache.Lookup(g.Key)
	if !exists {
		// Newly observed street: one minted ID, every range is new
		sr.StreetID = m.newID()
		for _, l := range g.Lines {
			o := Outcome{StreetID: sr.StreetID, RangeID: m.newID(), Status: StatusNew, Line: l}
			t.add(o.Status)
			sr.Outcomes = append(sr.Outcomes, o)
		}
		return sr
	}

	sr.StreetID = street.ID
	sr.Existing = true
	sr.NonCanonical = street.IsNonCanonical
	for _, l := range g.Lines {
		candidates := m.cache.Candidates(g.Key, l.Parity, l.PostalCode)
		o := Outcome{StreetID: street.ID, Line: l}
		if r, status, ok := resolveRange(candidates, l.Start, l.Smallest(), l.Highest()); ok {
			o.RangeID = r.ID
			o.Status = status
		} else {
			o.RangeID = m.newID()
			o.Status = StatusNew
		}
		t.add(o.Status)
		sr.Outcomes = append(sr.Outcomes, o)
	}
	return sr
}

// resolveRange applies exact, start boundary and end boundary matching in
// that order. Candidates must be ordered by ID; the first of equally close
// candidates wins.
func resolveRange(candidates []CanonicalRange, start, smallest, highest int) (CanonicalRange, Status, bool) {
	// 1. Exact match on the overall min/max
	for _, c := range candidates {
		if c.Start == smallest && c.End == highest {
			return c, StatusMatched, true
		}
	}

	// 2. Same start, closest end
	if c, ok := closest(candidates,
		func(c CanonicalRange) bool { return c.Start == start },
		func(c CanonicalRange) int { return abs(c.End - highest) },
	); ok {
		return c, StatusUpdated, true
	}

	// 3. Same end, closest start
	if c, ok := closest(candidates,
		func(c CanonicalRange) bool { return c.End == highest },
		func(c CanonicalRange) int { return abs(c.Start - smallest) },
	); ok {
		return c, StatusUpdated, true
	}

	return CanonicalRange{}, StatusNew, false
}

func closest(candidates []CanonicalRange, keep func(CanonicalRange) bool, distance func(CanonicalRange) int) (CanonicalRange, bool) {
	var (
		best  CanonicalRange
		bestD int
		found bool
	)
	for _, c := range candidates {
		if !keep(c) {
			continue
		}
		if d := distance(c); !found || d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
