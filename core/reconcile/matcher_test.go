package reconcile

import (
	"fmt"
	"testing"

	"street-sync/core/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a deterministic ID generator.
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func line(name, municipality, postal string, start, end int) feed.Line {
	p := feed.ParityOf(start)
	return feed.Line{
		NameFi:           name,
		MunicipalityCode: municipality,
		PostalCode:       postal,
		Start:            start,
		End:              end,
		Parity:           p,
		Valid:            p != feed.ParityUndefined,
	}
}

func registry(ranges ...CanonicalRange) *Cache {
	return NewCache([]CanonicalStreet{{
		ID: "street-1", Name: "Mannerheimintie", MunicipalityCode: "091", IsValid: true,
		Ranges: ranges,
	}})
}

func odd(id string, start, end int) CanonicalRange {
	return CanonicalRange{ID: id, Start: start, End: end, Parity: feed.ParityOdd, PostalCode: "00100", IsValid: true}
}

func even(id string, start, end int) CanonicalRange {
	return CanonicalRange{ID: id, Start: start, End: end, Parity: feed.ParityEven, PostalCode: "00100", IsValid: true}
}

func matchOne(t *testing.T, cache *Cache, l feed.Line) Outcome {
	t.Helper()
	result := NewMatcher(cache).WithIDGenerator(sequence("minted")).Match(GroupLines([]feed.Line{l}))
	require.Len(t, result.Streets, 1)
	require.Len(t, result.Streets[0].Outcomes, 1)
	return result.Streets[0].Outcomes[0]
}

func TestMatcher_ExactMatchPriority(t *testing.T) {
	// A start boundary candidate exists too; exact must still win
	cache := registry(odd("r-long", 11, 29), odd("r-exact", 11, 21))

	o := matchOne(t, cache, line("Mannerheimintie", "091", "00100", 11, 21))

	assert.Equal(t, StatusMatched, o.Status)
	assert.Equal(t, "r-exact", o.RangeID)
	assert.Equal(t, "street-1", o.StreetID)
}

func TestMatcher_ExactMatchOddRange(t *testing.T) {
	cache := NewCache([]CanonicalStreet{{
		ID: "street-1", Name: "Mannerheimintie", MunicipalityCode: "091", IsValid: true,
		Ranges: []CanonicalRange{{ID: "r1", Start: 10, End: 20, Parity: feed.ParityOdd, PostalCode: "00100"}},
	}})
	l := line("Mannerheimintie", "091", "00100", 10, 20)
	l.Parity = feed.ParityOdd

	o := matchOne(t, cache, l)

	assert.Equal(t, StatusMatched, o.Status)
	assert.Equal(t, "r1", o.RangeID)
}

func TestMatcher_StartBoundaryFallback(t *testing.T) {
	cache := registry(even("r-30", 10, 30), even("r-20", 10, 20))

	o := matchOne(t, cache, line("Mannerheimintie", "091", "00100", 10, 18))

	assert.Equal(t, StatusUpdated, o.Status)
	assert.Equal(t, "r-20", o.RangeID)
}

func TestMatcher_EndBoundaryFallback(t *testing.T) {
	cache := registry(odd("r-far", 1, 25), odd("r-near", 9, 25))

	o := matchOne(t, cache, line("Mannerheimintie", "091", "00100", 7, 25))

	assert.Equal(t, StatusUpdated, o.Status)
	assert.Equal(t, "r-near", o.RangeID)
}

func TestMatcher_EquidistantTieGoesToLowestID(t *testing.T) {
	cache := registry(even("r-b", 10, 22), even("r-a", 10, 18))

	o := matchOne(t, cache, line("Mannerheimintie", "091", "00100", 10, 20))

	assert.Equal(t, StatusUpdated, o.Status)
	assert.Equal(t, "r-a", o.RangeID)
}

func TestMatcher_DualRangeUsesOverallBounds(t *testing.T) {
	cache := registry(odd("r1", 1, 15))
	l := line("Mannerheimintie", "091", "00100", 5, 11)
	l.StartSecondary = 1
	l.EndSecondary = 15

	o := matchOne(t, cache, l)

	assert.Equal(t, StatusMatched, o.Status)
	assert.Equal(t, "r1", o.RangeID)
}

func TestMatcher_NoCandidateMintsRange(t *testing.T) {
	tests := []struct {
		name string
		l    feed.Line
	}{
		{"OtherParity", line("Mannerheimintie", "091", "00100", 2, 8)},
		{"OtherPostalCode", line("Mannerheimintie", "091", "00250", 1, 9)},
		{"NoBoundaryHit", line("Mannerheimintie", "091", "00100", 3, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := registry(odd("r1", 1, 9))

			o := matchOne(t, cache, tt.l)

			assert.Equal(t, StatusNew, o.Status)
			assert.Equal(t, "street-1", o.StreetID)
			assert.Equal(t, "minted-1", o.RangeID)
		})
	}
}

func TestMatcher_NewStreetSharesMintedID(t *testing.T) {
	cache := NewCache(nil)
	lines := []feed.Line{
		line("Mannerheimintie", "091", "00100", 1, 9),
		line("Mannerheimintie", "091", "00100", 11, 19),
	}

	result := NewMatcher(cache).Match(GroupLines(lines))

	require.Len(t, result.Streets, 1)
	outcomes := result.Streets[0].Outcomes
	require.Len(t, outcomes, 2)
	assert.Equal(t, outcomes[0].StreetID, outcomes[1].StreetID)
	assert.NotEqual(t, outcomes[0].RangeID, outcomes[1].RangeID)
	assert.Equal(t, StatusNew, outcomes[0].Status)
	assert.Equal(t, StatusNew, outcomes[1].Status)
	assert.False(t, result.Streets[0].Existing)
}

func TestMatcher_ParityFilter(t *testing.T) {
	cache := NewCache(nil)
	undefined := feed.Line{NameFi: "Mannerheimintie", MunicipalityCode: "091", PostalCode: "00100"}

	result := NewMatcher(cache).Match(GroupLines([]feed.Line{
		undefined,
		line("Mannerheimintie", "091", "00100", 1, 9),
	}))

	require.Len(t, result.Streets, 1)
	require.Len(t, result.Streets[0].Outcomes, 1)
	assert.Equal(t, 1, result.Streets[0].Outcomes[0].Line.Start)
	assert.Equal(t, 1, result.Summary.Outcomes())
}

func TestMatcher_Summary(t *testing.T) {
	cache := NewCache([]CanonicalStreet{
		{
			ID: "s1", Name: "Mannerheimintie", MunicipalityCode: "091", IsValid: true,
			Ranges: []CanonicalRange{odd("r1", 1, 9), even("r2", 2, 10)},
		},
		{ID: "s2", Name: "Aleksanterinkatu", MunicipalityCode: "091", IsValid: true},
	})
	lines := []feed.Line{
		line("Mannerheimintie", "091", "00100", 1, 9),   // matched
		line("Mannerheimintie", "091", "00100", 2, 12),  // updated
		line("Mannerheimintie", "091", "00100", 21, 29), // new range
		line("Bulevardi", "091", "00120", 1, 5),         // new street
	}

	result := NewMatcher(cache).Match(GroupLines(lines))

	s := result.Summary
	assert.Equal(t, 2, s.CanonicalStreets)
	assert.Equal(t, 2, s.Streets)
	assert.Equal(t, 1, s.NewStreets)
	assert.Equal(t, 1, s.Matched)
	assert.Equal(t, 1, s.Updated)
	assert.Equal(t, 2, s.New)
	assert.Equal(t, 4, s.Outcomes())
}

func TestGroupLines_PreservesOrder(t *testing.T) {
	groups := GroupLines([]feed.Line{
		line("Bulevardi", "091", "00120", 1, 5),
		line("Mannerheimintie", "091", "00100", 1, 9),
		line("BULEVARDI", "091", "00120", 2, 6),
		line("Bulevardi", "049", "02100", 1, 3),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, NewStreetKey("Bulevardi", "091"), groups[0].Key)
	assert.Len(t, groups[0].Lines, 2)
	assert.Equal(t, NewStreetKey("Mannerheimintie", "091"), groups[1].Key)
	assert.Equal(t, NewStreetKey("Bulevardi", "049"), groups[2].Key)
}

func TestSummary_WithScan(t *testing.T) {
	s := Summary{Matched: 3}.WithScan(feed.ScanStats{Read: 10, Valid: 6, Filtered: 2, Malformed: 1, Irrelevant: 1})

	assert.Equal(t, 10, s.LinesRead)
	assert.Equal(t, 2, s.Filtered)
	assert.Equal(t, 1, s.Malformed)
	assert.Equal(t, 1, s.Irrelevant)
	assert.Equal(t, 3, s.Matched)
}
