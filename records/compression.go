package records

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/hstrat/internal/conv"
	"github.com/hupe1980/hstrat/internal/hash"
)

// CompressionType identifies the envelope compression.
type CompressionType uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD, trading speed for ratio.
	CompressionZSTD CompressionType = 2
)

func (t CompressionType) String() string {
	switch t {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(t))
	}
}

// Envelope layout: [magic "HSZ1"][type u8][uncompressed len u32][crc32c u32][payload].
// Integers are little-endian; the checksum covers the uncompressed bytes.
var envelopeMagic = []byte("HSZ1")

const envelopeHeaderSize = 4 + 1 + 4 + 4

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// IsEnveloped reports whether data starts with the envelope magic.
func IsEnveloped(data []byte) bool {
	return bytes.HasPrefix(data, envelopeMagic)
}

// Compress wraps data in an envelope compressed with t. LZ4 falls back to
// CompressionNone when the data does not shrink.
func Compress(data []byte, t CompressionType) ([]byte, error) {
	size, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("records: payload too large: %w", err)
	}

	var payload []byte
	switch t {
	case CompressionNone:
		payload = data
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("records: lz4: %w", err)
		}
		if n == 0 {
			t, payload = CompressionNone, data
		} else {
			payload = buf[:n]
		}
	case CompressionZSTD:
		enc := getZstdEncoder()
		payload = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: unknown compression %s", ErrCorruptEnvelope, t)
	}

	out := make([]byte, envelopeHeaderSize, envelopeHeaderSize+len(payload))
	copy(out, envelopeMagic)
	out[4] = byte(t)
	binary.LittleEndian.PutUint32(out[5:], size)
	binary.LittleEndian.PutUint32(out[9:], hash.CRC32C(data))

	return append(out, payload...), nil
}

// Decompress unwraps an envelope written by Compress and verifies its checksum.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < envelopeHeaderSize || !IsEnveloped(data) {
		return nil, fmt.Errorf("%w: missing header", ErrCorruptEnvelope)
	}

	t := CompressionType(data[4])
	size := binary.LittleEndian.Uint32(data[5:])
	sum := binary.LittleEndian.Uint32(data[9:])
	payload := data[envelopeHeaderSize:]

	n, err := conv.Uint32ToInt(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEnvelope, err)
	}

	var out []byte
	switch t {
	case CompressionNone:
		out = payload
	case CompressionLZ4:
		out = make([]byte, n)
		m, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorruptEnvelope, err)
		}
		out = out[:m]
	case CompressionZSTD:
		dec := getZstdDecoder()
		out, err = dec.DecodeAll(payload, make([]byte, 0, n))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrCorruptEnvelope, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown compression %s", ErrCorruptEnvelope, t)
	}

	if len(out) != n {
		return nil, fmt.Errorf("%w: got %d bytes, header says %d", ErrCorruptEnvelope, len(out), n)
	}
	if hash.CRC32C(out) != sum {
		return nil, ErrChecksumMismatch
	}

	return out, nil
}
