package reconcile

import "street-sync/core/feed"

// Summary is the tally of one reconciliation run.
// It is returned by value; nothing mutates it after the run.
type Summary struct {
	// LinesRead counts every feed line seen, before filtering.
	LinesRead int `json:"lines_read"`

	// Filtered counts lines without a usable number range.
	Filtered int `json:"filtered"`

	// Malformed counts lines too short to parse.
	Malformed int `json:"malformed"`

	// Irrelevant counts non-street records.
	Irrelevant int `json:"irrelevant"`

	// CanonicalStreets is the number of streets in the cache.
	CanonicalStreets int `json:"canonical_streets"`

	// Streets is the number of street key groups in the feed.
	Streets int `json:"streets"`

	// NewStreets counts groups that got a minted street ID.
	NewStreets int `json:"new_streets"`

	// Matched counts exact range matches.
	Matched int `json:"matched"`

	// Updated counts boundary range matches.
	Updated int `json:"updated"`

	// New counts minted ranges.
	New int `json:"new"`
}

// Outcomes returns the number of resolved lines.
func (s Summary) Outcomes() int {
	return s.Matched + s.Updated + s.New
}

// WithScan returns a copy of s carrying the feed scan counts.
func (s Summary) WithScan(stats feed.ScanStats) Summary {
	s.LinesRead = stats.Read
	s.Filtered = stats.Filtered
	s.Malformed = stats.Malformed
	s.Irrelevant = stats.Irrelevant
	return s
}

// tally accumulates counts while a run is in progress.
type tally struct {
	s Summary
}

func (t *tally) add(status Status) {
	switch status {
	case StatusMatched:
		t.s.Matched++
	case StatusUpdated:
		t.s.Updated++
	case StatusNew:
		t.s.New++
	}
}

func (t *tally) result() Summary {
	return t.s
}
