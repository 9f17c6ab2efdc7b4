package tzif

import "errors"

// Errors returned by Decode and Validate. They are wrapped with context and
// can be matched with errors.Is.
var (
	// ErrMalformedHeader reports a bad magic, a truncated header or header
	// counts that contradict each other.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrUnsupportedVersion reports a version octet outside the known set.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrTruncatedBody reports counts that exceed the remaining data, or a
	// missing footer.
	ErrTruncatedBody = errors.New("truncated body")

	// ErrNonMonotonicTransitions reports transition times that decrease.
	ErrNonMonotonicTransitions = errors.New("non-monotonic transitions")

	// ErrIndexOutOfRange reports a transition type index or a designation
	// index outside its table.
	ErrIndexOutOfRange = errors.New("index out of range")
)
