package reconcile

import "street-sync/core/feed"

// CanonicalRange is one numbered range of a canonical street.
type CanonicalRange struct {
	// ID is the unique range identifier.
	ID string `json:"id"`

	// Start is the first building number of the range.
	Start int `json:"start"`

	// End is the last building number of the range.
	End int `json:"end"`

	// Parity is the side of the street the range lies on.
	Parity feed.Parity `json:"parity"`

	// PostalCode is the resolved postal code string (not its id).
	PostalCode string `json:"postal_code"`

	// IsValid mirrors the registry validity flag.
	IsValid bool `json:"is_valid"`
}

// CanonicalStreet is an authoritative street identity from the registry.
type CanonicalStreet struct {
	// ID is the unique street identifier.
	ID string `json:"id"`

	// Name is the street name in the reference language.
	Name string `json:"name"`

	// MunicipalityCode is the resolved municipality code.
	MunicipalityCode string `json:"municipality_code"`

	// IsValid is true for streets that are currently valid.
	IsValid bool `json:"is_valid"`

	// IsNonCanonical flags synthetic or non-authoritative entries.
	IsNonCanonical bool `json:"is_non_canonical"`

	// Ranges are the number ranges owned by this street.
	Ranges []CanonicalRange `json:"ranges"`
}

// Status classifies how a feed line was resolved.
type Status string

const (
	// StatusMatched means an existing range matched exactly.
	StatusMatched Status = "matched"
	// StatusUpdated means an existing range matched on one boundary.
	StatusUpdated Status = "updated"
	// StatusNew means no street or range was found and an ID was minted.
	StatusNew Status = "new"
)

// Outcome is the resolution of a single feed line.
type Outcome struct {
	// StreetID is the resolved or minted street identifier.
	StreetID string `json:"street_id"`

	// RangeID is the resolved or minted range identifier.
	RangeID string `json:"range_id"`

	// Status is the classification of the resolution.
	Status Status `json:"status"`

	// Line is the feed line this outcome was produced for.
	Line feed.Line `json:"-"`
}

// StreetResult holds the outcomes of one street key group.
type StreetResult struct {
	// StreetID is shared by every outcome of the group.
	StreetID string

	// MunicipalityCode is the group's municipality.
	MunicipalityCode string

	// NameFi and NameSv are taken from the first line of the group.
	NameFi string
	NameSv string

	// Existing is true when the street was found in the cache.
	Existing bool

	// NonCanonical mirrors the cached street's flag.
	NonCanonical bool

	// Outcomes has one entry per line of the group, in feed order.
	Outcomes []Outcome
}

// Result is the output of a matcher run.
type Result struct {
	// Streets are the resolved groups in first-seen feed order.
	Streets []StreetResult

	// Summary tallies the run.
	Summary Summary
}
