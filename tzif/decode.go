package tzif

import (
	"bytes"
	"fmt"
)

// buffer is a read cursor over an immutable byte slice. Reads never go past
// the end of the slice.
type buffer struct {
	p   []byte
	off int
}

func (b *buffer) remaining() int {
	return len(b.p) - b.off
}

// read returns the next n bytes, or false if fewer than n remain.
func (b *buffer) read(n int) ([]byte, bool) {
	if n < 0 || n > b.remaining() {
		return nil, false
	}
	p := b.p[b.off : b.off+n : b.off+n]
	b.off += n
	return p, true
}

// rest returns the unread bytes.
func (b *buffer) rest() []byte {
	p := b.p[b.off:]
	b.off = len(b.p)
	return p
}

func readHeader(b *buffer) (Header, error) {
	var h Header
	magic, ok := b.read(len(Magic))
	if !ok {
		return h, fmt.Errorf("%w: reading magic: %d bytes remaining", ErrMalformedHeader, b.remaining())
	}
	if !bytes.Equal(magic, Magic[:]) {
		return h, fmt.Errorf("%w: invalid magic: %q", ErrMalformedHeader, magic)
	}
	p, ok := b.read(HeaderSize - len(Magic))
	if !ok {
		return h, fmt.Errorf("%w: header needs %d bytes, %d remaining", ErrMalformedHeader, HeaderSize-len(Magic), b.remaining())
	}
	h.Version = Version(p[0])
	if !h.Version.Known() {
		return h, fmt.Errorf("%w: %v", ErrUnsupportedVersion, h.Version)
	}
	copy(h.Reserved[:], p[1:16])
	counts := p[16:]
	h.Isutcnt = order.Uint32(counts[0:])
	h.Isstdcnt = order.Uint32(counts[4:])
	h.Leapcnt = order.Uint32(counts[8:])
	h.Timecnt = order.Uint32(counts[12:])
	h.Typecnt = order.Uint32(counts[16:])
	h.Charcnt = order.Uint32(counts[20:])
	return h, nil
}

// ReadHeader decodes a Header from the start of data.
func ReadHeader(data []byte) (Header, error) {
	return readHeader(&buffer{p: data})
}

// readBlock decodes the data block described by h. The whole block is
// checked against the remaining length before anything is allocated, so
// corrupted counts cannot cause large allocations.
func readBlock[T Time](b *buffer, h Header) (DataBlock[T], error) {
	var blk DataBlock[T]
	size := timeSize[T]()
	if need := h.blockSize(size); need > uint64(b.remaining()) {
		return blk, fmt.Errorf("%w: data block needs %d bytes, %d remaining", ErrTruncatedBody, need, b.remaining())
	}

	if h.Timecnt > 0 {
		p, _ := b.read(int(h.Timecnt) * size)
		blk.TransitionTimes = make([]T, h.Timecnt)
		for i := range blk.TransitionTimes {
			blk.TransitionTimes[i] = decodeTime[T](p[i*size:])
		}
		p, _ = b.read(int(h.Timecnt))
		blk.TransitionTypes = append([]uint8(nil), p...)
	}
	if h.Typecnt > 0 {
		p, _ := b.read(int(h.Typecnt) * localTimeTypeRecordSize)
		blk.LocalTimeTypeRecord = make([]LocalTimeTypeRecord, h.Typecnt)
		for i := range blk.LocalTimeTypeRecord {
			r := p[i*localTimeTypeRecordSize:]
			blk.LocalTimeTypeRecord[i] = LocalTimeTypeRecord{
				Utoff: int32(order.Uint32(r)),
				Dst:   r[4] != 0,
				Idx:   r[5],
			}
		}
	}
	if h.Charcnt > 0 {
		p, _ := b.read(int(h.Charcnt))
		blk.TimeZoneDesignation = append([]byte(nil), p...)
	}
	if h.Leapcnt > 0 {
		recSize := size + 4
		p, _ := b.read(int(h.Leapcnt) * recSize)
		blk.LeapSecondRecords = make([]LeapSecondRecord[T], h.Leapcnt)
		for i := range blk.LeapSecondRecords {
			r := p[i*recSize:]
			blk.LeapSecondRecords[i] = LeapSecondRecord[T]{
				Occur: decodeTime[T](r),
				Corr:  int32(order.Uint32(r[size:])),
			}
		}
	}
	if h.Isstdcnt > 0 {
		p, _ := b.read(int(h.Isstdcnt))
		blk.StandardWallIndicators = decodeBools(p)
	}
	if h.Isutcnt > 0 {
		p, _ := b.read(int(h.Isutcnt))
		blk.UTLocalIndicators = decodeBools(p)
	}
	return blk, nil
}

func decodeTime[T Time](p []byte) T {
	if timeSize[T]() == 8 {
		return T(int64(order.Uint64(p)))
	}
	return T(int32(order.Uint32(p)))
}

func decodeBools(p []byte) []bool {
	v := make([]bool, len(p))
	for i, b := range p {
		v[i] = b != 0
	}
	return v
}

// ReadV1DataBlock decodes a version 1 data block described by h from the
// start of data.
func ReadV1DataBlock(data []byte, h Header) (DataBlock[int32], error) {
	return readBlock[int32](&buffer{p: data}, h)
}

// ReadV2DataBlock decodes a version 2+ data block described by h from the
// start of data.
func ReadV2DataBlock(data []byte, h Header) (DataBlock[int64], error) {
	if !h.Version.HasV2Block() {
		return DataBlock[int64]{}, fmt.Errorf("%w: invalid header version for 64-bit block: %v", ErrUnsupportedVersion, h.Version)
	}
	return readBlock[int64](&buffer{p: data}, h)
}

func readFooter(b *buffer) (Footer, error) {
	var f Footer
	nl, ok := b.read(1)
	if !ok {
		return f, fmt.Errorf("%w: missing footer", ErrTruncatedBody)
	}
	if nl[0] != asciiNewLine {
		return f, fmt.Errorf("%w: footer: expected newline, got %#x", ErrTruncatedBody, nl[0])
	}
	rest := b.p[b.off:]
	i := bytes.IndexByte(rest, asciiNewLine)
	if i < 0 {
		return f, fmt.Errorf("%w: footer: unterminated TZ string", ErrTruncatedBody)
	}
	p, _ := b.read(i + 1)
	f.TZString = append([]byte(nil), p[:i]...)
	return f, nil
}

// ReadFooter decodes a Footer from the start of data.
func ReadFooter(data []byte) (Footer, error) {
	return readFooter(&buffer{p: data})
}
