package snapshot

import (
	"fmt"
	"path"
	"strings"
	"time"

	"street-sync/core/reconcile"
)

// Names holds a street name per source language.
type Names struct {
	Fi string `json:"fi,omitempty"`
	Sv string `json:"sv,omitempty"`
}

// RangeRecord is one number range of a street in a snapshot.
type RangeRecord struct {
	RangeID              string           `json:"rangeId"`
	StartNumber          int              `json:"startNumber"`
	EndNumber            int              `json:"endNumber"`
	StartNumberSecondary int              `json:"startNumberSecondary,omitempty"`
	EndNumberSecondary   int              `json:"endNumberSecondary,omitempty"`
	Parity               string           `json:"parity"`
	PostalCode           string           `json:"postalCode"`
	Status               reconcile.Status `json:"status"`
}

// StreetRecord is one reconciled street in a snapshot.
type StreetRecord struct {
	StreetID         string        `json:"streetId"`
	MunicipalityCode string        `json:"municipalityCode"`
	Names            Names         `json:"names"`
	NonCanonical     bool          `json:"nonCanonical"`
	Status           string        `json:"status"`
	Ranges           []RangeRecord `json:"ranges"`
}

// Meta is the pagination block of a page.
type Meta struct {
	Code         int       `json:"code"`
	From         int       `json:"from"`
	PageSize     int       `json:"pageSize"`
	ResultCount  int       `json:"resultCount"`
	TotalResults int       `json:"totalResults"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Page is one serialized chunk of a run.
type Page struct {
	// Part is the 1-based page index.
	Part    int            `json:"-"`
	Meta    Meta           `json:"meta"`
	Results []StreetRecord `json:"results"`
}

// FromResult converts matcher output into snapshot records, keeping feed order.
func FromResult(result reconcile.Result) []StreetRecord {
	records := make([]StreetRecord, 0, len(result.Streets))
	for _, s := range result.Streets {
		status := "existing"
		if !s.Existing {
			status = string(reconcile.StatusNew)
		}
		rec := StreetRecord{
			StreetID:         s.StreetID,
			MunicipalityCode: s.MunicipalityCode,
			Names:            Names{Fi: s.NameFi, Sv: s.NameSv},
			NonCanonical:     s.NonCanonical,
			Status:           status,
			Ranges:           make([]RangeRecord, 0, len(s.Outcomes)),
		}
		for _, o := range s.Outcomes {
			rec.Ranges = append(rec.Ranges, RangeRecord{
				RangeID:              o.RangeID,
				StartNumber:          o.Line.Start,
				EndNumber:            o.Line.End,
				StartNumberSecondary: o.Line.StartSecondary,
				EndNumberSecondary:   o.Line.EndSecondary,
				Parity:               o.Line.Parity.String(),
				PostalCode:           o.Line.PostalCode,
				Status:               o.Status,
			})
		}
		records = append(records, rec)
	}
	return records
}

// Paginate splits records into pages of pageSize.
// Page i covers records [i*pageSize, min((i+1)*pageSize, len(records))).
func Paginate(records []StreetRecord, pageSize int, createdAt time.Time) []Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(records)
	pages := make([]Page, 0, (total+pageSize-1)/pageSize)

	for from := 0; from < total; from += pageSize {
		to := min(from+pageSize, total)
		pages = append(pages, Page{
			Part: len(pages) + 1,
			Meta: Meta{
				Code:         200,
				From:         from,
				PageSize:     pageSize,
				ResultCount:  to - from,
				TotalResults: total,
				CreatedAt:    createdAt,
			},
			Results: records[from:to],
		})
	}
	return pages
}

// runDateLayout is the date part of page file names.
const runDateLayout = "01_02_2006"

// FileName returns the page file name for a run date and part.
func FileName(prefix string, runDate time.Time, part int) string {
	return fmt.Sprintf("%s_%s_Part_%d.json", prefix, runDate.Format(runDateLayout), part)
}

// ParseRunDate extracts the UTC run date from a page file name or object key.
func ParseRunDate(name string) (time.Time, bool) {
	name = path.Base(name)
	i := strings.LastIndex(name, "_Part_")
	if i < len(runDateLayout)+1 || name[i-len(runDateLayout)-1] != '_' {
		return time.Time{}, false
	}
	t, err := time.Parse(runDateLayout, name[i-len(runDateLayout):i])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
