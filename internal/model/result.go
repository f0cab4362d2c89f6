package model

// Outcome is the terminal state of a scan.
type Outcome int

const (
	// OutcomeClean means the file sequence was exhausted without a hit.
	OutcomeClean Outcome = iota

	// OutcomeFound means a bad word was found and the scan stopped.
	OutcomeFound
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeFound:
		return "found"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so outcomes are stored by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Unknown names decode to OutcomeClean.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "found":
		*o = OutcomeFound
	default:
		*o = OutcomeClean
	}
	return nil
}

// Result is the value returned by a scan.
//
// Design decision: A bad word is the primary signal of the program, not a
// failure of the scanner, so it is modeled as an explicit variant here rather
// than as an error. Infrastructure failures travel separately as errors.
type Result struct {
	// Outcome tells whether a bad word was found.
	Outcome Outcome `json:"outcome"`

	// Match is set only when Outcome is OutcomeFound.
	Match *Match `json:"match,omitempty"`
}

// Clean returns a result for a scan that found nothing.
func Clean() Result {
	return Result{Outcome: OutcomeClean}
}

// Found returns a result carrying the given match.
func Found(m Match) Result {
	return Result{Outcome: OutcomeFound, Match: &m}
}

// IsFound reports whether the result carries a match.
func (r Result) IsFound() bool {
	return r.Outcome == OutcomeFound && r.Match != nil
}
