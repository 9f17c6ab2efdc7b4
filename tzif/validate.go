package tzif

import (
	"bytes"
	"errors"
	"fmt"
)

// Validate checks the block that carries the authoritative data of d (see
// Data.Retained). All problems found are joined into the returned error;
// each of them wraps one of the package's sentinel errors.
func Validate(d Data) error {
	if !d.Version.Known() {
		return fmt.Errorf("%w: %v", ErrUnsupportedVersion, d.Version)
	}
	var errs []error
	if d.Version.HasV2Block() {
		errs = validateBlock("v2", d.V2Header, d.V2Data)
	} else {
		errs = validateBlock("v1", d.V1Header, d.V1Data)
	}
	return errors.Join(errs...)
}

func validateBlock[T Time](name string, header Header, data DataBlock[T]) []error {
	var err []error

	// Isutcnt
	if header.Isutcnt != 0 && header.Isutcnt != header.Typecnt {
		err = append(err, fmt.Errorf("%w: invalid %s isutcnt (%d): must be 0 or equal to typecnt (%d)", ErrMalformedHeader, name, header.Isutcnt, header.Typecnt))
	}
	if len(data.UTLocalIndicators) != int(header.Isutcnt) {
		err = append(err, fmt.Errorf("%w: invalid %s isutcnt: header = %d, data = %d", ErrMalformedHeader, name, header.Isutcnt, len(data.UTLocalIndicators)))
	}

	// Isstdcnt
	if header.Isstdcnt != 0 && header.Isstdcnt != header.Typecnt {
		err = append(err, fmt.Errorf("%w: invalid %s isstdcnt (%d): must be 0 or equal to typecnt (%d)", ErrMalformedHeader, name, header.Isstdcnt, header.Typecnt))
	}
	if len(data.StandardWallIndicators) != int(header.Isstdcnt) {
		err = append(err, fmt.Errorf("%w: invalid %s isstdcnt: header = %d, data = %d", ErrMalformedHeader, name, header.Isstdcnt, len(data.StandardWallIndicators)))
	}

	// Leapcnt
	if len(data.LeapSecondRecords) != int(header.Leapcnt) {
		err = append(err, fmt.Errorf("%w: invalid %s leapcnt: header = %d, data = %d", ErrMalformedHeader, name, header.Leapcnt, len(data.LeapSecondRecords)))
	}

	// Timecnt
	if len(data.TransitionTimes) != int(header.Timecnt) {
		err = append(err, fmt.Errorf("%w: invalid %s timecnt: header = %d, transition times = %d", ErrMalformedHeader, name, header.Timecnt, len(data.TransitionTimes)))
	}
	if times, types := len(data.TransitionTimes), len(data.TransitionTypes); times != types {
		err = append(err, fmt.Errorf("%w: inconsistent %s transitions: transition times = %d, transition types = %d", ErrMalformedHeader, name, times, types))
	}
	for i := 1; i < len(data.TransitionTimes); i++ {
		if data.TransitionTimes[i] < data.TransitionTimes[i-1] {
			err = append(err, fmt.Errorf("%w: %s transition %d at %d precedes transition %d at %d", ErrNonMonotonicTransitions, name, i, data.TransitionTimes[i], i-1, data.TransitionTimes[i-1]))
			break
		}
	}
	for i, typ := range data.TransitionTypes {
		if int(typ) >= len(data.LocalTimeTypeRecord) {
			err = append(err, fmt.Errorf("%w: %s transition %d references local time type %d of %d", ErrIndexOutOfRange, name, i, typ, len(data.LocalTimeTypeRecord)))
		}
	}

	// Typecnt
	if header.Typecnt == 0 {
		err = append(err, fmt.Errorf("%w: invalid %s typecnt: must not be zero", ErrMalformedHeader, name))
	}
	if len(data.LocalTimeTypeRecord) != int(header.Typecnt) {
		err = append(err, fmt.Errorf("%w: invalid %s typecnt: header = %d, data = %d", ErrMalformedHeader, name, header.Typecnt, len(data.LocalTimeTypeRecord)))
	}

	// Charcnt
	if header.Charcnt == 0 {
		err = append(err, fmt.Errorf("%w: invalid %s charcnt: must not be zero", ErrMalformedHeader, name))
	}
	if len(data.TimeZoneDesignation) != int(header.Charcnt) {
		err = append(err, fmt.Errorf("%w: invalid %s charcnt: header = %d, data = %d", ErrMalformedHeader, name, header.Charcnt, len(data.TimeZoneDesignation)))
	}
	for i, r := range data.LocalTimeTypeRecord {
		if int(r.Idx) >= len(data.TimeZoneDesignation) {
			err = append(err, fmt.Errorf("%w: %s local time type %d references designation %d of %d", ErrIndexOutOfRange, name, i, r.Idx, len(data.TimeZoneDesignation)))
			continue
		}
		if bytes.IndexByte(data.TimeZoneDesignation[r.Idx:], 0) < 0 {
			err = append(err, fmt.Errorf("%w: %s local time type %d: designation at %d is not NUL-terminated", ErrIndexOutOfRange, name, i, r.Idx))
		}
	}
	return err
}
