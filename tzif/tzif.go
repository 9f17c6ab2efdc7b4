// Package tzif implements the TZif file format according to RFC 8536 and
// its successor RFC 9636.
// https://datatracker.ietf.org/doc/html/rfc9636
package tzif

import (
	"encoding/binary"
	"fmt"
	"io"
)

// NOTE: All multi-octet integer values MUST be stored in network octet
// order format (high-order octet first, otherwise known as big-endian),
// with all bits significant.  Signed integer values MUST be represented
// using two's complement.
var order = binary.BigEndian

// Version represents the version of a TZif file.
// In V1, time values are 32bit (four-octets) and in V2 upwards time values
// are 64bit (eight-octets). V2, V3 and V4 files carry a 32-bit block for
// compatibility, followed by a 64-bit block and a footer.
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

// Known reports whether v is a version this package can decode.
func (v Version) Known() bool {
	switch v {
	case V1, V2, V3, V4:
		return true
	}
	return false
}

// HasV2Block reports whether a file of version v carries a second, 64-bit
// data block and a footer after the first block.
func (v Version) HasV2Block() bool {
	return v >= V2
}

const (
	// V1 files contain only the version 1 header and data block.
	V1 Version = 0x00
	// V2 files contain the version 1 header and data block, a version 2+
	// header and data block, and a footer whose TZ string strictly adheres
	// to POSIX.
	V2 Version = 0x32 // '2'
	// V3 files are laid out like V2 files but the TZ string may use the
	// extensions of RFC 8536 Section 3.3.1: hours in a transition time
	// may range from -167 to 167, and DST may be in effect all year.
	V3 Version = 0x33 // '3'
	// V4 files are laid out like V3 files. The first leap second record
	// may have a correction other than +1 or -1 and the last record may
	// denote the expiration of the leap second table.
	V4 Version = 0x34 // '4'
)

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// HeaderSize is the size of an encoded Header including the magic.
const HeaderSize = 44

// Header is the header of a TZif file.
//
// A TZif header is structured as follows (the lengths of multi-octet
// fields are shown in parentheses):
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	// Version is an octet identifying the version of the file's format.
	Version Version
	// Reserved for future use.
	Reserved [15]byte

	// Isutcnt is the number of UT/local indicators contained in the data
	// block. MUST either be zero or equal to Typecnt.
	Isutcnt uint32

	// Isstdcnt is the number of standard/wall indicators contained in the
	// data block. MUST either be zero or equal to Typecnt.
	Isstdcnt uint32

	// Leapcnt is the number of leap-second records contained in the data
	// block.
	Leapcnt uint32

	// Timecnt is the number of transition times contained in the data
	// block.
	Timecnt uint32

	// Typecnt is the number of local time type records contained in the
	// data block. MUST NOT be zero.
	Typecnt uint32

	// Charcnt is the total number of octets used by the set of time zone
	// designations contained in the data block, including the trailing NUL
	// of the last designation. MUST NOT be zero.
	Charcnt uint32
}

// Write writes the Header to w.
func (h Header) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// blockSize returns the number of octets occupied by the data block that
// follows h when time values are timeSize octets wide.
func (h Header) blockSize(timeSize int) uint64 {
	ts := uint64(timeSize)
	return uint64(h.Timecnt)*ts +
		uint64(h.Timecnt) +
		uint64(h.Typecnt)*localTimeTypeRecordSize +
		uint64(h.Charcnt) +
		uint64(h.Leapcnt)*(ts+4) +
		uint64(h.Isstdcnt) +
		uint64(h.Isutcnt)
}

// Time is the set of integer types used for time values. The version 1
// data block uses int32, the version 2+ data block uses int64.
type Time interface {
	~int32 | ~int64
}

// timeSize returns the encoded size of a time value of type T.
func timeSize[T Time]() int {
	var t T
	return binary.Size(t)
}

// DataBlock is a TZif data block with time values of type T.
// The data block is structured as follows, TIME_SIZE being 4 for the
// version 1 block and 8 for the version 2+ block:
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	+---------------------------------------------------------+
//	|  transition types          (timecnt)                    |
//	+---------------------------------------------------------+
//	|  local time type records   (typecnt x 6)                |
//	+---------------------------------------------------------+
//	|  time zone designations    (charcnt)                    |
//	+---------------------------------------------------------+
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	+---------------------------------------------------------+
//	|  standard/wall indicators  (isstdcnt)                   |
//	+---------------------------------------------------------+
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type DataBlock[T Time] struct {
	// TransitionTimes are UNIX leap-time values sorted in ascending order.
	// Each value is used as a transition time at which the rules for
	// computing local time may change.
	TransitionTimes []T

	// TransitionTypes are zero-based indices into LocalTimeTypeRecord,
	// one for each transition time.
	TransitionTypes []uint8

	// LocalTimeTypeRecord holds the local time types referenced by
	// TransitionTypes.
	LocalTimeTypeRecord []LocalTimeTypeRecord

	// TimeZoneDesignation is an array of NUL-terminated designation
	// strings. Two designations MAY overlap if one is a suffix of the
	// other.
	TimeZoneDesignation []byte

	// LeapSecondRecords specify the corrections that need to be applied
	// to UTC in order to determine TAI, sorted by occurrence.
	LeapSecondRecords []LeapSecondRecord[T]

	// StandardWallIndicators tell whether the transition times associated
	// with local time types were specified as standard time (true) or
	// wall-clock time (false).
	StandardWallIndicators []bool

	// UTLocalIndicators tell whether the transition times associated with
	// local time types were specified as UT (true) or local time (false).
	UTLocalIndicators []bool
}

// Write writes the data block to w.
func (b DataBlock[T]) Write(w io.Writer) error {
	if err := binary.Write(w, order, b.TransitionTimes); err != nil {
		return err
	}
	if err := binary.Write(w, order, b.TransitionTypes); err != nil {
		return err
	}
	for _, r := range b.LocalTimeTypeRecord {
		if err := r.Write(w); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.TimeZoneDesignation); err != nil {
		return err
	}
	for _, r := range b.LeapSecondRecords {
		if err := r.Write(w); err != nil {
			return err
		}
	}
	if err := binary.Write(w, order, b.StandardWallIndicators); err != nil {
		return err
	}
	return binary.Write(w, order, b.UTLocalIndicators)
}

// Widen converts a version 1 data block to the 64-bit representation.
func Widen(b DataBlock[int32]) DataBlock[int64] {
	w := DataBlock[int64]{
		TransitionTypes:        b.TransitionTypes,
		LocalTimeTypeRecord:    b.LocalTimeTypeRecord,
		TimeZoneDesignation:    b.TimeZoneDesignation,
		StandardWallIndicators: b.StandardWallIndicators,
		UTLocalIndicators:      b.UTLocalIndicators,
	}
	if b.TransitionTimes != nil {
		w.TransitionTimes = make([]int64, len(b.TransitionTimes))
		for i, t := range b.TransitionTimes {
			w.TransitionTimes[i] = int64(t)
		}
	}
	if b.LeapSecondRecords != nil {
		w.LeapSecondRecords = make([]LeapSecondRecord[int64], len(b.LeapSecondRecords))
		for i, r := range b.LeapSecondRecords {
			w.LeapSecondRecords[i] = LeapSecondRecord[int64]{Occur: int64(r.Occur), Corr: r.Corr}
		}
	}
	return w
}

// LeapSecondRecord represents a leap-second record.
// Each record has the following format, TIME_SIZE being 4 or 8:
//
//	+---------------+---------------+
//	|  occur (TIME_SIZE)  | corr (4)|
//	+---------------+---------------+
type LeapSecondRecord[T Time] struct {
	// Occur is a UNIX leap time value specifying the time at which a
	// leap-second correction occurs.
	Occur T

	// Corr is the value of LEAPCORR on or after the occurrence. LEAPCORR
	// is zero before the first record.
	Corr int32
}

// Write writes the record to w.
func (r LeapSecondRecord[T]) Write(w io.Writer) error {
	if err := binary.Write(w, order, r.Occur); err != nil {
		return err
	}
	return binary.Write(w, order, r.Corr)
}

const localTimeTypeRecordSize = 6

// LocalTimeTypeRecord represents a local time type record.
// Each record has the following format (the lengths of multi-octet fields
// are shown in parentheses):
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeTypeRecord struct {
	// Utoff is the number of seconds to be added to UT in order to
	// determine local time. The value MUST NOT be -2**31 and SHOULD be in
	// the range [-89999, 93599].
	Utoff int32

	// Dst indicates whether local time should be considered Daylight
	// Saving Time.
	Dst bool

	// Idx is a zero-based index into the time zone designations. A NUL
	// octet MUST exist in the designations at or after position Idx.
	Idx uint8
}

// Write writes the record to w.
func (r LocalTimeTypeRecord) Write(w io.Writer) error {
	if err := binary.Write(w, order, r.Utoff); err != nil {
		return err
	}
	if err := binary.Write(w, order, r.Dst); err != nil {
		return err
	}
	return binary.Write(w, order, r.Idx)
}

// Footer represents the footer of a TZif file.
// The footer is structured as follows (the lengths of multi-octet
// fields are shown in parentheses):
//
//	+---+--------------------+---+
//	| NL|  TZ string (0...)  |NL |
//	+---+--------------------+---+
type Footer struct {
	// TZString contains a rule for computing local time changes after the
	// last transition time stored in the version 2+ data block. If empty,
	// the information is not available.
	TZString []byte
}

var asciiNewLine = byte(0x0A)

// Write writes the footer to w.
func (f Footer) Write(w io.Writer) error {
	if _, err := w.Write([]byte{asciiNewLine}); err != nil {
		return err
	}
	if _, err := w.Write(f.TZString); err != nil {
		return err
	}
	_, err := w.Write([]byte{asciiNewLine})
	return err
}
