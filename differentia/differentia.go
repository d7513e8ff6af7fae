package differentia

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strconv"
)

// ErrInvalidWidth is the panic value for bit widths below one.
var ErrInvalidWidth = errors.New("differentia: bit width must be at least 1")

// Differentia is a single fingerprint value.
// The zero value is the fingerprint 0 at any width.
type Differentia struct {
	hi string // big-endian bytes above the low 64 bits, without leading zeros
	lo uint64
}

// FromUint64 returns the fingerprint with value v.
func FromUint64(v uint64) Differentia {
	return Differentia{lo: v}
}

// ByteLen returns the number of bytes of the big-endian encoding at width.
func ByteLen(width int) int {
	checkWidth(width)
	return (width + 7) / 8
}

// FromBytes decodes a big-endian encoding produced by Bytes.
// Bits above width are ignored.
func FromBytes(width int, b []byte) Differentia {
	n := ByteLen(width)
	if len(b) != n {
		panic("differentia: encoding length does not match width")
	}

	buf := make([]byte, n)
	copy(buf, b)
	mask(width, buf)

	if n <= 8 {
		var lo uint64
		for _, x := range buf {
			lo = lo<<8 | uint64(x)
		}
		return Differentia{lo: lo}
	}

	head := buf[:n-8]
	for len(head) > 0 && head[0] == 0 {
		head = head[1:]
	}

	return Differentia{
		hi: string(head),
		lo: binary.BigEndian.Uint64(buf[n-8:]),
	}
}

// Uint64 returns the low 64 bits of the value.
func (d Differentia) Uint64() uint64 { return d.lo }

// Bytes returns the big-endian encoding of d at width.
func (d Differentia) Bytes(width int) []byte {
	n := ByteLen(width)
	buf := make([]byte, n)

	if n <= 8 {
		v := d.lo
		for i := n - 1; i >= 0; i-- {
			buf[i] = byte(v)
			v >>= 8
		}
	} else {
		binary.BigEndian.PutUint64(buf[n-8:], d.lo)
		head := buf[:n-8]
		hi := d.hi
		if len(hi) > len(head) {
			hi = hi[len(hi)-len(head):]
		}
		copy(head[len(head)-len(hi):], hi)
	}

	mask(width, buf)

	return buf
}

// Compare orders two fingerprints numerically.
// It returns -1, 0 or +1.
func (d Differentia) Compare(other Differentia) int {
	if len(d.hi) != len(other.hi) {
		if len(d.hi) < len(other.hi) {
			return -1
		}
		return 1
	}
	if d.hi != other.hi {
		if d.hi < other.hi {
			return -1
		}
		return 1
	}
	switch {
	case d.lo < other.lo:
		return -1
	case d.lo > other.lo:
		return 1
	default:
		return 0
	}
}

// String returns the value as lowercase hex without leading zeros.
func (d Differentia) String() string {
	if d.hi == "" {
		return strconv.FormatUint(d.lo, 16)
	}

	var lo [8]byte
	binary.BigEndian.PutUint64(lo[:], d.lo)

	s := hex.EncodeToString([]byte(d.hi)) + hex.EncodeToString(lo[:])
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}

	return s
}

func checkWidth(width int) {
	if width < 1 {
		panic(ErrInvalidWidth)
	}
}

// mask clears the bits of the leading byte that lie above width.
func mask(width int, buf []byte) {
	if r := width % 8; r != 0 && len(buf) > 0 {
		buf[0] &= byte(1<<r - 1)
	}
}
