package indent

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dlclark/regexp2"
)

// DefaultIndentation is the indentation unit used when none is configured.
const DefaultIndentation = "    "

// Option keys accepted by NewFromMap.
const (
	OptionIndentationCharacter = "indentation_character"
	OptionLogging              = "logging"
)

// Options controls indentation behavior.
type Options struct {
	// Indentation is repeated once per depth level at the start of a line.
	Indentation string

	// Logging records every winning match and verifies that the matches
	// reproduce the protected input.
	Logging bool
}

// DefaultOptions returns the default indentation options.
func DefaultOptions() Options {
	return Options{
		Indentation: DefaultIndentation,
		Logging:     false,
	}
}

// Option configures an Indenter.
type Option func(*Options)

// WithIndentation sets the indentation unit.
func WithIndentation(unit string) Option {
	return func(o *Options) {
		o.Indentation = unit
	}
}

// WithLogging enables or disables the diagnostic log.
func WithLogging(enabled bool) Option {
	return func(o *Options) {
		o.Logging = enabled
	}
}

// Indenter re-indents HTML.
//
// An Indenter may be shared between goroutines. All per-call state lives in
// the call; the inline element set and the last call's log are guarded.
type Indenter struct {
	opts Options

	mu            sync.RWMutex
	inline        map[string]struct{}
	inlinePattern *regexp2.Regexp
	log           []LogEntry
}

// New creates an Indenter with the default inline element set.
func New(opts ...Option) *Indenter {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	inline := make(map[string]struct{}, len(defaultInlineElements))
	for _, name := range defaultInlineElements {
		inline[name] = struct{}{}
	}

	return &Indenter{
		opts:   o,
		inline: inline,
	}
}

// NewFromMap creates an Indenter from loosely typed options keyed by
// OptionIndentationCharacter and OptionLogging. Any other key, or a value of
// the wrong type, fails with ErrInvalidArgument.
func NewFromMap(options map[string]any) (*Indenter, error) {
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var opts []Option
	for _, key := range keys {
		value := options[key]
		switch key {
		case OptionIndentationCharacter:
			unit, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: option %q must be a string, got %T", ErrInvalidArgument, key, value)
			}
			opts = append(opts, WithIndentation(unit))
		case OptionLogging:
			enabled, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: option %q must be a boolean, got %T", ErrInvalidArgument, key, value)
			}
			opts = append(opts, WithLogging(enabled))
		default:
			return nil, fmt.Errorf("%w: unrecognized option %q", ErrInvalidArgument, key)
		}
	}

	return New(opts...), nil
}

// Options returns the options the Indenter was created with.
func (ind *Indenter) Options() Options {
	return ind.opts
}

// Indent returns input re-indented. It fails with ErrInvalidArgument when
// input contains reserved sentinel code points, and with
// ErrInternalConsistency when logging is enabled and the logged matches do
// not reproduce the protected input. No partial output is returned on error.
func (ind *Indenter) Indent(input string) (string, error) {
	if ind.opts.Logging {
		ind.setLog(nil)
	}

	if err := checkReserved(input); err != nil {
		return "", err
	}

	r := &run{}

	protected, err := r.protect(input, ind.currentInlinePattern())
	if err != nil {
		return "", err
	}

	var log *[]LogEntry
	if ind.opts.Logging {
		log = &r.log
	}

	rendered := tokenize(protected, ind.opts.Indentation, log)

	if ind.opts.Logging {
		ind.setLog(r.log)
		if err := verifyReplay(r.log, protected); err != nil {
			return "", err
		}
	}

	return r.restore(rendered)
}

// Log returns the diagnostic log of the most recent Indent call. It is empty
// when logging is disabled or no call has been made.
func (ind *Indenter) Log() []LogEntry {
	ind.mu.RLock()
	defer ind.mu.RUnlock()

	return slices.Clone(ind.log)
}

func (ind *Indenter) setLog(entries []LogEntry) {
	ind.mu.Lock()
	ind.log = entries
	ind.mu.Unlock()
}

// currentInlinePattern returns the inline span pattern for the current
// element set, compiling it on first use after a change.
func (ind *Indenter) currentInlinePattern() *regexp2.Regexp {
	ind.mu.RLock()
	pattern := ind.inlinePattern
	ind.mu.RUnlock()
	if pattern != nil || ind.inlineSetEmpty() {
		return pattern
	}

	ind.mu.Lock()
	defer ind.mu.Unlock()
	if ind.inlinePattern == nil {
		ind.inlinePattern = compileInlinePattern(sortedNames(ind.inline))
	}
	return ind.inlinePattern
}

func (ind *Indenter) inlineSetEmpty() bool {
	ind.mu.RLock()
	defer ind.mu.RUnlock()
	return len(ind.inline) == 0
}
