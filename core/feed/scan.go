package feed

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// maxLineSize bounds a single record; real records are a few hundred bytes.
// Longer lines are counted as malformed and skipped.
const maxLineSize = 64 * 1024

// ScanStats counts what Scan saw in the feed.
type ScanStats struct {
	// Read is every non-empty line, before any filtering.
	Read int `json:"read"`
	// Valid lines were handed to the callback.
	Valid int `json:"valid"`
	// Filtered lines had no usable number range.
	Filtered int `json:"filtered"`
	// Malformed lines were too short to parse or longer than maxLineSize.
	Malformed int `json:"malformed"`
	// Irrelevant lines were not street records.
	Irrelevant int `json:"irrelevant"`
}

// Scan reads r line by line and calls fn for every valid street line.
// Malformed, oversized, irrelevant and parity-less lines are skipped and
// counted. Read errors and errors returned by fn stop the scan.
func Scan(ctx context.Context, r io.Reader, fn func(Line) error) (ScanStats, error) {
	var stats ScanStats
	reader := bufio.NewReaderSize(r, maxLineSize)

	for {
		raw, readErr := reader.ReadSlice('\n')

		if errors.Is(readErr, bufio.ErrBufferFull) {
			// Oversized line: drop the rest of it
			for errors.Is(readErr, bufio.ErrBufferFull) {
				_, readErr = reader.ReadSlice('\n')
			}
			if err := stats.count(ctx); err != nil {
				return stats, err
			}
			stats.Malformed++
		} else if raw = bytes.TrimRight(raw, "\r\n"); len(raw) > 0 {
			if err := stats.count(ctx); err != nil {
				return stats, err
			}
			if err := stats.handle(raw, fn); err != nil {
				return stats, err
			}
		}

		if readErr == io.EOF {
			return stats, nil
		}
		if readErr != nil {
			return stats, fmt.Errorf("failed to read feed: %w", readErr)
		}
	}
}

// count registers a read line and checks for cancellation every so often.
func (s *ScanStats) count(ctx context.Context) error {
	s.Read++
	if s.Read%1024 == 0 {
		return ctx.Err()
	}
	return nil
}

// handle parses one line and hands it to fn when valid.
func (s *ScanStats) handle(raw []byte, fn func(Line) error) error {
	line, err := ParseLine(raw)
	switch {
	case errors.Is(err, ErrMalformedLine):
		s.Malformed++
		return nil
	case errors.Is(err, ErrIrrelevantLine):
		s.Irrelevant++
		return nil
	case err != nil:
		return err
	}

	if !line.Valid {
		s.Filtered++
		return nil
	}
	s.Valid++
	return fn(line)
}
