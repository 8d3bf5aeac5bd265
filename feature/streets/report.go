package streets

import (
	"fmt"
	"strings"
	"time"

	"street-sync/core/reconcile"
	"street-sync/core/snapshot"
)

// Durations records how long each phase of a run took.
type Durations struct {
	Download time.Duration
	Registry time.Duration
	Match    time.Duration
	Write    time.Duration
}

// Map returns the durations keyed by phase, rounded to milliseconds.
func (d Durations) Map() map[string]string {
	return map[string]string{
		"download": d.Download.Round(time.Millisecond).String(),
		"registry": d.Registry.Round(time.Millisecond).String(),
		"match":    d.Match.Round(time.Millisecond).String(),
		"write":    d.Write.Round(time.Millisecond).String(),
	}
}

// Report describes one reconciliation run.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Summary    reconcile.Summary
	Snapshot   *snapshot.WriteResult
	Durations  Durations
}

// Elapsed returns the wall time of the run.
func (r *Report) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// String renders the report for terminal output.
func (r *Report) String() string {
	var sb strings.Builder
	s := r.Summary

	fmt.Fprintf(&sb, "Street reconciliation finished in %s\n", r.Elapsed().Round(time.Millisecond))
	fmt.Fprintf(&sb, "  Lines read:        %d (filtered %d, malformed %d, irrelevant %d)\n", s.LinesRead, s.Filtered, s.Malformed, s.Irrelevant)
	fmt.Fprintf(&sb, "  Canonical streets: %d\n", s.CanonicalStreets)
	fmt.Fprintf(&sb, "  Feed streets:      %d (new %d)\n", s.Streets, s.NewStreets)
	fmt.Fprintf(&sb, "  Ranges matched:    %d\n", s.Matched)
	fmt.Fprintf(&sb, "  Ranges updated:    %d\n", s.Updated)
	fmt.Fprintf(&sb, "  Ranges new:        %d\n", s.New)

	switch {
	case r.DryRun:
		sb.WriteString("  Snapshot:          skipped (dry run)\n")
	case r.Snapshot != nil:
		fmt.Fprintf(&sb, "  Snapshot:          %d pages, %d written, %d failed, %d archived, %d purged\n",
			r.Snapshot.Pages, len(r.Snapshot.Written), len(r.Snapshot.Failed), r.Snapshot.Archived, r.Snapshot.Purged)
	}

	d := r.Durations.Map()
	fmt.Fprintf(&sb, "  Phases:            download %s, registry %s, match %s, write %s\n",
		d["download"], d["registry"], d["match"], d["write"])
	return sb.String()
}
