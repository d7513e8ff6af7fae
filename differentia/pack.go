package differentia

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrPackedLength is returned when a packed payload does not hold exactly
	// the requested number of fingerprints.
	ErrPackedLength = errors.New("differentia: packed length mismatch")

	// ErrPackedPadding is returned when the padding bits of a packed payload are not zero.
	ErrPackedPadding = errors.New("differentia: non-zero padding bits")
)

// PackedLen returns the byte length of count fingerprints packed at width.
func PackedLen(width, count int) int {
	checkWidth(width)
	return (width*count + 7) / 8
}

// Pack concatenates the width-bit encodings of ds, most significant bit first.
// The final byte is zero-padded.
func Pack(width int, ds []Differentia) []byte {
	w := bitWriter{buf: make([]byte, PackedLen(width, len(ds)))}

	skip := ByteLen(width)*8 - width
	for _, d := range ds {
		b := d.Bytes(width)
		for j := skip; j < len(b)*8; j++ {
			w.writeBit(b[j/8] >> (7 - j%8) & 1)
		}
	}

	return w.buf
}

// Unpack is the inverse of Pack.
func Unpack(width, count int, data []byte) ([]Differentia, error) {
	if want := PackedLen(width, count); len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrPackedLength, len(data), want)
	}

	r := bitReader{buf: data}
	n := ByteLen(width)
	skip := n*8 - width

	out := make([]Differentia, count)
	for i := range out {
		b := make([]byte, n)
		for j := skip; j < n*8; j++ {
			b[j/8] |= r.readBit() << (7 - j%8)
		}
		out[i] = FromBytes(width, b)
	}

	for r.pos < len(data)*8 {
		if r.readBit() != 0 {
			return nil, ErrPackedPadding
		}
	}

	return out, nil
}

// EncodeHex packs ds and returns the payload as lowercase hex.
func EncodeHex(width int, ds []Differentia) string {
	return hex.EncodeToString(Pack(width, ds))
}

// DecodeHex is the inverse of EncodeHex.
func DecodeHex(width, count int, s string) ([]Differentia, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("differentia: decode hex: %w", err)
	}
	return Unpack(width, count, data)
}

type bitWriter struct {
	buf []byte
	pos int
}

func (w *bitWriter) writeBit(bit byte) {
	if bit != 0 {
		w.buf[w.pos/8] |= 1 << (7 - w.pos%8)
	}
	w.pos++
}

type bitReader struct {
	buf []byte
	pos int
}

func (r *bitReader) readBit() byte {
	bit := r.buf[r.pos/8] >> (7 - r.pos%8) & 1
	r.pos++
	return bit
}
