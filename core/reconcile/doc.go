// Package reconcile matches parsed feed lines against the canonical street
// registry.
//
// A reconciliation run is built from three pieces:
//
//  1. Cache: a per-run, read-only index of the canonical registry keyed by
//     (normalized street name, municipality code). Duplicate keys are collapsed
//     to a single street (valid beats invalid, then lowest ID), and every
//     street's number ranges are pre-bucketed by parity and postal code.
//  2. Matcher: resolves every group of feed lines sharing a street key to an
//     existing street or a newly minted one, and every line to an existing
//     number range (exact or boundary match) or a new one.
//  3. Summary: the immutable tally of a run (lines read, registry size and the
//     number of matched, updated and new ranges).
//
// # Range resolution
//
// For a street that already exists, the candidates of a line are the street's
// ranges with the same parity and postal code. The first rule that hits wins:
//
//   - exact: start == line.Smallest() and end == line.Highest() -> Matched
//   - start boundary: start == line.Start, closest end to line.Highest() -> Updated
//   - end boundary: end == line.Highest(), closest start to line.Smallest() -> Updated
//   - otherwise a new range ID is minted -> New
//
// Ties between equally close candidates go to the lowest range ID.
//
// # Memory
//
// The Cache holds the full registry. Call Release once matching is done so
// the registry can be collected before snapshots are written.
//
// # Usage Example
//
//	cache := reconcile.NewCache(streets)
//	result := reconcile.NewMatcher(cache).Match(reconcile.GroupLines(lines))
//	cache.Release()
package reconcile
