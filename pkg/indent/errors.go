package indent

import "errors"

// Sentinel errors for categorization via errors.Is.
var (
	// ErrInvalidArgument indicates an unknown option, an option of the wrong
	// type, an unknown element type, or input containing reserved runes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInternalConsistency indicates that replaying the matched tokens did
	// not reproduce the protected input. It points at a defect in the rule
	// table or an input shape the rules do not anticipate.
	ErrInternalConsistency = errors.New("internal consistency failure")
)
