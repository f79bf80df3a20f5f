// Package samples iterates the packed-integer sample stream carried in a
// data frame body: a sequence of fixed-width, byte-aligned, little-endian
// signed integers. Samples never cross byte boundaries — a sample of width
// w occupies exactly ceil(w/8) whole bytes, and any bits in the top byte
// beyond w are carried through unmasked rather than stripped.
package samples

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidSampleWidth is returned when a requested width falls outside
// the 1-32 bit range the packed format supports.
var ErrInvalidSampleWidth = errors.New("samples: width must be between 1 and 32 bits")

// BytesPerSample returns ceil(width/8): the whole-byte footprint of one
// sample at the given bit width.
func BytesPerSample(width int) (int, error) {
	if width < 1 || width > 32 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSampleWidth, width)
	}
	return (width + 7) / 8, nil
}

// Count returns how many complete samples of the given bit width fit in
// body, dropping any trailing run of bytes shorter than one sample.
func Count(width int, body []byte) (int, error) {
	n, err := BytesPerSample(width)
	if err != nil {
		return 0, err
	}
	return len(body) / n, nil
}

// All returns a fresh, lazy sequence over every complete sample in body at
// the given bit width. It does not mutate body, so calling All again from
// the start — on the same body — yields the identical sequence; there is
// no stateful cursor to exhaust.
func All(width int, body []byte) (iter.Seq[int32], error) {
	n, err := BytesPerSample(width)
	if err != nil {
		return nil, err
	}
	count := len(body) / n

	return func(yield func(int32) bool) {
		for i := 0; i < count; i++ {
			sample := readLittleEndianSigned(body[i*n : i*n+n])
			if !yield(sample) {
				return
			}
		}
	}, nil
}

// readLittleEndianSigned reads b (1-4 bytes) as a little-endian integer and
// sign-extends it as a signed integer of len(b)*8 bits. No bits are masked
// off: a sample width that does not evenly divide 8 still occupies its full
// containing bytes, per the wire format's byte-alignment rule.
func readLittleEndianSigned(b []byte) int32 {
	var v uint32
	for i, by := range b {
		v |= uint32(by) << uint(8*i)
	}
	bits := uint(len(b) * 8)
	if bits >= 32 {
		return int32(v)
	}
	signBit := uint32(1) << (bits - 1)
	if v&signBit != 0 {
		v |= ^uint32(0) << bits
	}
	return int32(v)
}
