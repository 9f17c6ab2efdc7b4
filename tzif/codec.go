package tzif

import (
	"fmt"
	"io"
)

// Data represents a TZif file.
type Data struct {
	Version Version

	V1Header Header
	V1Data   DataBlock[int32]

	V2Header Header
	V2Data   DataBlock[int64]
	V2Footer Footer

	// Trailing holds any bytes found after the footer (or after the
	// version 1 data block of a V1 file). It is never encoded.
	Trailing []byte
}

// Encode writes the given TZif data to the given writer.
// If the version is V1, the V2 fields are not written.
func (d Data) Encode(w io.Writer) error {
	if err := d.V1Header.Write(w); err != nil {
		return fmt.Errorf("write v1 header: %w", err)
	}
	if err := d.V1Data.Write(w); err != nil {
		return fmt.Errorf("write v1 data: %w", err)
	}
	if d.Version.HasV2Block() {
		if err := d.V2Header.Write(w); err != nil {
			return fmt.Errorf("write v2 header: %w", err)
		}
		if err := d.V2Data.Write(w); err != nil {
			return fmt.Errorf("write v2 data: %w", err)
		}
		if err := d.V2Footer.Write(w); err != nil {
			return fmt.Errorf("write v2 footer: %w", err)
		}
	}
	return nil
}

// Decode parses a complete TZif file from data.
//
// The first data block is always decoded in full, so that a corrupted
// 32-bit block is detected even when a 64-bit block follows. Callers
// interested in the authoritative data should use Retained.
func Decode(data []byte) (Data, error) {
	var (
		d   Data
		err error
		b   = &buffer{p: data}
	)
	d.V1Header, err = readHeader(b)
	if err != nil {
		return d, fmt.Errorf("read v1 header: %w", err)
	}
	d.Version = d.V1Header.Version

	d.V1Data, err = readBlock[int32](b, d.V1Header)
	if err != nil {
		return d, fmt.Errorf("read v1 data block: %w", err)
	}

	if d.Version.HasV2Block() {
		d.V2Header, err = readHeader(b)
		if err != nil {
			return d, fmt.Errorf("read v2 header: %w", err)
		}
		if !d.V2Header.Version.HasV2Block() {
			return d, fmt.Errorf("read v2 header: %w: %v follows a %v header", ErrUnsupportedVersion, d.V2Header.Version, d.Version)
		}
		d.V2Data, err = readBlock[int64](b, d.V2Header)
		if err != nil {
			return d, fmt.Errorf("read v2 data block: %w", err)
		}
		d.V2Footer, err = readFooter(b)
		if err != nil {
			return d, fmt.Errorf("read footer: %w", err)
		}
	}

	if rest := b.rest(); len(rest) > 0 {
		d.Trailing = append([]byte(nil), rest...)
	}
	return d, nil
}

// DecodeData reads the TZif Data from the given reader.
func DecodeData(r io.Reader) (Data, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Data{}, fmt.Errorf("read tzif: %w", err)
	}
	return Decode(data)
}

// Retained returns the header and data block carrying the authoritative
// data of d: the 64-bit block for version 2+ files, the widened 32-bit
// block otherwise.
func (d Data) Retained() (Header, DataBlock[int64]) {
	if d.Version.HasV2Block() {
		return d.V2Header, d.V2Data
	}
	return d.V1Header, Widen(d.V1Data)
}
