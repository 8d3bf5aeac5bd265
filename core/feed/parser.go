package feed

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// RecordType identifies street records in the feed.
const RecordType = "KATU"

var (
	// ErrMalformedLine is returned when a record is shorter than the layout requires.
	ErrMalformedLine = errors.New("malformed feed line")
	// ErrIrrelevantLine is returned for records that are not street records.
	ErrIrrelevantLine = errors.New("irrelevant feed line")
)

// field is a byte slice [from, to) of a record.
type field struct {
	from, to int
}

// Record layout. Offsets are a contract with the feed provider.
var (
	fieldRecordType       = field{0, 5}
	fieldPostalCode       = field{13, 18}
	fieldStreetNameFi     = field{102, 132}
	fieldStreetNameSv     = field{132, 162}
	fieldSmallest         = field{187, 192}
	fieldSmallestSecond   = field{195, 200}
	fieldHighest          = field{203, 208}
	fieldHighestSecond    = field{211, 216}
	fieldMunicipalityCode = field{219, 222}
)

// MinLineLength is the shortest record that still carries every field ParseLine reads.
const MinLineLength = 222

// ParseLine decodes one fixed-width record.
// A record without a usable number range is returned with Valid=false and no error.
func ParseLine(raw []byte) (Line, error) {
	raw = bytes.TrimRight(raw, "\r\n")
	if len(raw) < MinLineLength {
		return Line{}, fmt.Errorf("%w: %d bytes, want at least %d", ErrMalformedLine, len(raw), MinLineLength)
	}
	if typ := text(raw, fieldRecordType); strings.TrimSpace(typ) != RecordType {
		return Line{}, fmt.Errorf("%w: record type %q", ErrIrrelevantLine, typ)
	}

	line := Line{
		NameFi:           text(raw, fieldStreetNameFi),
		NameSv:           text(raw, fieldStreetNameSv),
		MunicipalityCode: text(raw, fieldMunicipalityCode),
		PostalCode:       text(raw, fieldPostalCode),
	}

	start, okStart := number(raw, fieldSmallest)
	end, okEnd := number(raw, fieldHighest)
	if !okStart || !okEnd {
		// No range: filtered downstream, not an error.
		return line, nil
	}
	line.Start = start
	line.End = end
	if n, ok := number(raw, fieldSmallestSecond); ok {
		line.StartSecondary = n
	}
	if n, ok := number(raw, fieldHighestSecond); ok {
		line.EndSecondary = n
	}

	line.Parity = ParityOf(line.Smallest())
	line.Valid = line.Parity != ParityUndefined
	return line, nil
}

// text decodes a field from ISO-8859-1 and trims padding.
func text(raw []byte, f field) string {
	b, err := charmap.ISO8859_1.NewDecoder().Bytes(raw[f.from:f.to])
	if err != nil {
		// ISO-8859-1 maps every byte, keep the raw bytes just in case.
		b = raw[f.from:f.to]
	}
	return strings.TrimSpace(string(b))
}

// number parses a space padded building number. Zero and blanks are absent.
func number(raw []byte, f field) (int, bool) {
	if len(raw) < f.to {
		return 0, false
	}
	s := strings.TrimSpace(string(raw[f.from:f.to]))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
