package reconcile

import (
	"sort"
	"strings"

	"street-sync/core/feed"

	"golang.org/x/text/cases"
)

// StreetKey identifies a street across the feed and the registry.
type StreetKey struct {
	Name             string
	MunicipalityCode string
}

// NewStreetKey builds a key from a raw name and municipality code.
func NewStreetKey(name, municipalityCode string) StreetKey {
	return StreetKey{
		Name:             NormalizeName(name),
		MunicipalityCode: strings.TrimSpace(municipalityCode),
	}
}

// NormalizeName trims, collapses inner whitespace and case-folds a street name.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// rangeKey buckets the ranges of one street.
type rangeKey struct {
	parity     feed.Parity
	postalCode string
}

// cachedStreet is a selected street with its ranges bucketed for matching.
type cachedStreet struct {
	street  CanonicalStreet
	buckets map[rangeKey][]CanonicalRange
}

// Cache is a read-only, per-run index of the canonical registry.
type Cache struct {
	streets map[StreetKey]*cachedStreet
}

// NewCache indexes the registry.
// Streets sharing a key are collapsed: a valid street beats an invalid one,
// and between equally valid streets the lowest ID wins.
func NewCache(streets []CanonicalStreet) *Cache {
	c := &Cache{streets: make(map[StreetKey]*cachedStreet, len(streets))}

	for _, s := range streets {
		key := NewStreetKey(s.Name, s.MunicipalityCode)
		if key.Name == "" || key.MunicipalityCode == "" {
			continue
		}
		if current, ok := c.streets[key]; ok && !prefer(s, current.street) {
			continue
		}
		c.streets[key] = &cachedStreet{street: s}
	}

	// Bucket ranges only for the selected streets
	for _, cs := range c.streets {
		cs.buckets = bucketRanges(cs.street.Ranges)
	}

	return c
}

// prefer reports whether candidate should replace current for the same key.
func prefer(candidate, current CanonicalStreet) bool {
	if candidate.IsValid != current.IsValid {
		return candidate.IsValid
	}
	return candidate.ID < current.ID
}

func bucketRanges(ranges []CanonicalRange) map[rangeKey][]CanonicalRange {
	buckets := make(map[rangeKey][]CanonicalRange)
	for _, r := range ranges {
		k := rangeKey{parity: r.Parity, postalCode: strings.TrimSpace(r.PostalCode)}
		buckets[k] = append(buckets[k], r)
	}
	// Lowest ID first so ties resolve deterministically
	for _, b := range buckets {
		sort.SliceStable(b, func(i, j int) bool {
			return b[i].ID < b[j].ID
		})
	}
	return buckets
}

// Lookup returns the canonical street selected for key.
func (c *Cache) Lookup(key StreetKey) (CanonicalStreet, bool) {
	cs, ok := c.streets[key]
	if !ok {
		return CanonicalStreet{}, false
	}
	return cs.street, true
}

// Candidates returns the ranges of the street under key with the given parity
// and postal code, ordered by range ID.
func (c *Cache) Candidates(key StreetKey, parity feed.Parity, postalCode string) []CanonicalRange {
	cs, ok := c.streets[key]
	if !ok {
		return nil
	}
	return cs.buckets[rangeKey{parity: parity, postalCode: strings.TrimSpace(postalCode)}]
}

// Len returns the number of selected streets.
func (c *Cache) Len() int {
	return len(c.streets)
}

// Release drops the index so it can be collected.
func (c *Cache) Release() {
	c.streets = make(map[StreetKey]*cachedStreet)
}
