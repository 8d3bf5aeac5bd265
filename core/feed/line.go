package feed

// Parity tells on which side of the street a number range lies.
type Parity int

const (
	// ParityUndefined marks a line without a parsable number range.
	ParityUndefined Parity = iota
	// ParityOdd is the odd-numbered side.
	ParityOdd
	// ParityEven is the even-numbered side.
	ParityEven
)

// String returns the lowercase name used in snapshots.
func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "undefined"
	}
}

// ParityOf returns the parity of a building number.
func ParityOf(n int) Parity {
	if n <= 0 {
		return ParityUndefined
	}
	if n%2 == 0 {
		return ParityEven
	}
	return ParityOdd
}

// Line is one parsed street record of the feed.
type Line struct {
	// NameFi is the street name in Finnish.
	NameFi string
	// NameSv is the street name in Swedish.
	NameSv string
	// MunicipalityCode is the three digit municipality code (e.g. "091").
	MunicipalityCode string
	// PostalCode is the five digit postal code.
	PostalCode string

	// Start and End bound the primary number range.
	Start int
	End   int
	// StartSecondary and EndSecondary bound the optional second range.
	// Zero means absent.
	StartSecondary int
	EndSecondary   int

	// Parity is computed from the number range.
	Parity Parity
	// Valid is false when the parity could not be computed.
	Valid bool
}

// Name returns the Finnish name, falling back to Swedish when blank.
func (l Line) Name() string {
	if l.NameFi != "" {
		return l.NameFi
	}
	return l.NameSv
}

// Smallest returns the lowest number across both sub-ranges.
func (l Line) Smallest() int {
	if l.StartSecondary > 0 && l.StartSecondary < l.Start {
		return l.StartSecondary
	}
	return l.Start
}

// Highest returns the highest number across both sub-ranges.
func (l Line) Highest() int {
	if l.EndSecondary > l.End {
		return l.EndSecondary
	}
	return l.End
}
