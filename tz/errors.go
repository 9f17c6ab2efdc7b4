package tz

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-tzif/tzif"
	"github.com/ngrash/go-tzif/tzrule"
)

// Decoding errors, see package tzif.
var (
	ErrMalformedHeader         = tzif.ErrMalformedHeader
	ErrUnsupportedVersion      = tzif.ErrUnsupportedVersion
	ErrTruncatedBody           = tzif.ErrTruncatedBody
	ErrNonMonotonicTransitions = tzif.ErrNonMonotonicTransitions
	ErrIndexOutOfRange         = tzif.ErrIndexOutOfRange
)

// ErrMalformedRule is reported for an unparsable footer, either by Parse
// with Options.StrictRule or by Zone.RuleError.
var ErrMalformedRule = tzrule.ErrMalformedRule

var (
	// ErrExtrapolationUnavailable is returned by LookupStrict for instants
	// that a malformed footer rule would have governed.
	ErrExtrapolationUnavailable = errors.New("extrapolation unavailable")

	// ErrNonexistentLocalTime is returned by LookupLocal with GapReject
	// for a local time skipped by a transition.
	ErrNonexistentLocalTime = errors.New("nonexistent local time")
)

// ParseError is returned by Parse. It names the zone that failed.
type ParseError struct {
	Zone string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse zone %q: %v", e.Zone, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
