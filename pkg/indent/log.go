package indent

import (
	"fmt"
	"strings"
)

// MatchKind is the indentation effect of a matched token.
type MatchKind int

const (
	// NoIndent emits the token at the current depth.
	NoIndent MatchKind = iota

	// IndentIncrease emits the token at the current depth and indents the
	// lines that follow by one more level.
	IndentIncrease

	// IndentDecrease lowers the depth by one and emits the token at the
	// lowered depth.
	IndentDecrease

	// Discard consumes the token without emitting a line.
	Discard
)

// String returns the short label used in the diagnostic log.
func (k MatchKind) String() string {
	switch k {
	case NoIndent:
		return "NO"
	case IndentIncrease:
		return "INCREASE"
	case IndentDecrease:
		return "DECREASE"
	case Discard:
		return "DISCARD"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by its log label.
func (k MatchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// LogEntry records one winning match of the tokenizer.
type LogEntry struct {
	// Rule is the indentation effect of the rule that matched.
	Rule MatchKind `json:"rule"`

	// Pattern identifies the rule that matched.
	Pattern string `json:"pattern"`

	// Subject is the unconsumed text the rule was tried against.
	Subject string `json:"subject"`

	// Match is the consumed prefix of Subject.
	Match string `json:"match"`
}

// verifyReplay checks that the logged matches concatenate to input.
func verifyReplay(entries []LogEntry, input string) error {
	var sb strings.Builder
	sb.Grow(len(input))
	for _, e := range entries {
		sb.WriteString(e.Match)
	}

	replayed := sb.String()
	if replayed == input {
		return nil
	}

	// Report where the replay diverged to make rule defects findable.
	offset := 0
	for offset < len(replayed) && offset < len(input) && replayed[offset] == input[offset] {
		offset++
	}
	return fmt.Errorf("%w: did not reproduce the exact input (diverged at byte %d of %d)",
		ErrInternalConsistency, offset, len(input))
}
