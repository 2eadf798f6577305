/*
 * classir - a JVM class-file decoder and SSA lifter
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderScalars(t *testing.T) {
	r := NewReader([]byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x01, 0xFF, 0xFF, 0xFF, 0xFF})
	magic, err := r.U4()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), magic)

	minor, err := r.U2()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), minor)

	neg, err := r.S4()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), neg)

	assert.Equal(t, 0, r.Remaining())
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01})
	_, err := r.U4()
	require.Error(t, err)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, Truncated, lerr.Kind)
}

func TestReaderFloats(t *testing.T) {
	r := NewReader([]byte{0x3F, 0x80, 0x00, 0x00, 0x3F, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	f, err := r.F4()
	require.NoError(t, err)
	assert.Equal(t, float32(1), f)

	d, err := r.F8()
	require.NoError(t, err)
	assert.Equal(t, float64(1), d)
}

func TestModifiedUTF8RoundTrip(t *testing.T) {
	cases := []string{"", "hello", "café", "\U0001F600", string(rune(0))}
	for _, s := range cases {
		encoded := EncodeModifiedUTF8(s)
		decoded := DecodeModifiedUTF8(encoded)
		require.True(t, decoded.Valid, "round-trip of %q should decode as valid", s)
		assert.Equal(t, s, decoded.Text)
	}
}

func TestModifiedUTF8NullByte(t *testing.T) {
	// U+0000 is encoded as the two-byte overlong form C0 80, never as a bare 0x00.
	encoded := EncodeModifiedUTF8(string(rune(0)))
	assert.Equal(t, []byte{0xC0, 0x80}, encoded)
}

func TestModifiedUTF8InvalidSequenceIsNotAnError(t *testing.T) {
	// A lone continuation byte never decodes to a valid string, but
	// DecodeModifiedUTF8 reports that via Valid rather than panicking or
	// returning an error, so the caller can surface the opaque raw bytes.
	raw := []byte{0x80, 0x80}
	decoded := DecodeModifiedUTF8(raw)
	assert.False(t, decoded.Valid)
	assert.Equal(t, raw, decoded.Raw)
}

func TestModifiedUTF8Surrogate(t *testing.T) {
	// A lone high surrogate without its low-surrogate partner is malformed
	// CESU-8, not valid modified UTF-8.
	raw := []byte{0xED, 0xA0, 0x80}
	decoded := DecodeModifiedUTF8(raw)
	assert.False(t, decoded.Valid)
}

func TestModifiedUTF8OverlongRejected(t *testing.T) {
	// U+0041 has a one-byte canonical form; the two-byte encoding is overlong.
	assert.False(t, DecodeModifiedUTF8([]byte{0xC1, 0x81}).Valid)
	// Three-byte encodings of code points below U+0800 are overlong too.
	assert.False(t, DecodeModifiedUTF8([]byte{0xE0, 0x80, 0xAF}).Valid)
	// The sole exception: C0 80, the mandated encoding of U+0000.
	decoded := DecodeModifiedUTF8([]byte{0xC0, 0x80})
	assert.True(t, decoded.Valid)
	assert.Equal(t, string(rune(0)), decoded.Text)
}

func TestReaderLengthPrefixedBytes(t *testing.T) {
	r := NewReader([]byte{0x00, 0x03, 'f', 'o', 'o', 'x'})
	b, err := r.LengthPrefixedBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("foo"), b)
	assert.Equal(t, 1, r.Remaining())
}
