// Package feed reads the national street address feed.
//
// The feed is a fixed-width text file in ISO-8859-1 where every street record
// ("KATU") describes one numbered range of a street: its name in Finnish and
// Swedish, its municipality code, its postal code and the smallest and highest
// building numbers on one side of the street.
//
// # Parsing
//
// ParseLine decodes a single record. Parity is derived from the numeric range;
// a record without a usable range is returned with ParityUndefined and is meant
// to be filtered out by the caller rather than reported as an error. Records
// that are too short fail with ErrMalformedLine, and records of another type
// fail with ErrIrrelevantLine.
//
// # Streaming
//
// Scan walks an io.Reader line by line so the feed never has to be buffered in
// full. Open resolves the configured source (local path, HTTP URL or storage
// object) into such a reader.
//
// # Usage
//
//	rc, err := feed.Open(ctx, cfg.Feed, client, cfg.Storage.Bucket)
//	defer rc.Close()
//	stats, err := feed.Scan(ctx, rc, func(l feed.Line) error {
//	    lines = append(lines, l)
//	    return nil
//	})
package feed
