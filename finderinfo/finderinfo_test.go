package finderinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macmeta/macmeta/data"
)

// seededRecord returns a record with non-zero bits scattered across every
// byte, so pass-through violations show up.
func seededRecord() []byte {
	record := make([]byte, RecordSize)
	for i := range record {
		record[i] = byte(0xA5 ^ i)
	}
	return record
}

func TestDecodeColorRejectsBadLength(t *testing.T) {
	_, err := DecodeColor(make([]byte, 16))
	require.Error(t, err)
	assert.True(t, errors.Is(err, data.ErrBinaryDecode))

	_, err = DecodeColor(nil)
	assert.True(t, errors.Is(err, data.ErrBinaryDecode))

	_, err = DecodeStationery(make([]byte, RecordSize+1))
	assert.True(t, errors.Is(err, data.ErrBinaryDecode))
}

func TestEncodeColorRoundTrip(t *testing.T) {
	for color := 0; color <= data.MaxColor; color++ {
		record, err := EncodeColor(nil, color)
		require.NoError(t, err)
		require.Len(t, record, RecordSize)

		decoded, err := DecodeColor(record)
		require.NoError(t, err)
		assert.Equal(t, color, decoded)
	}
}

func TestEncodeColorRejectsOutOfRange(t *testing.T) {
	_, err := EncodeColor(nil, 8)
	assert.True(t, errors.Is(err, data.ErrTypeMismatch))
	_, err = EncodeColor(nil, -1)
	assert.True(t, errors.Is(err, data.ErrTypeMismatch))
}

func TestEncodeColorPreservesUnrelatedBits(t *testing.T) {
	seeded := seededRecord()
	stationeryBefore, err := DecodeStationery(seeded)
	require.NoError(t, err)

	encoded, err := EncodeColor(seeded, data.ColorRed)
	require.NoError(t, err)

	// Input record untouched
	assert.Equal(t, seededRecord(), seeded)

	color, err := DecodeColor(encoded)
	require.NoError(t, err)
	assert.Equal(t, data.ColorRed, color)

	stationeryAfter, err := DecodeStationery(encoded)
	require.NoError(t, err)
	assert.Equal(t, stationeryBefore, stationeryAfter)

	// Every byte outside the flags word is untouched; within the flags
	// word only the three color bits may differ.
	for i := range encoded {
		if i == flagsOffset || i == flagsOffset+1 {
			continue
		}
		assert.Equal(t, seeded[i], encoded[i], "byte %d changed", i)
	}
	assert.Equal(t, seeded[flagsOffset], encoded[flagsOffset])
	assert.Equal(t, seeded[flagsOffset+1]&^byte(colorMask), encoded[flagsOffset+1]&^byte(colorMask))
}

func TestEncodeStationeryPreservesColor(t *testing.T) {
	seeded := seededRecord()
	colorBefore, err := DecodeColor(seeded)
	require.NoError(t, err)

	for _, flag := range []bool{true, false} {
		encoded, err := EncodeStationery(seeded, flag)
		require.NoError(t, err)

		decoded, err := DecodeStationery(encoded)
		require.NoError(t, err)
		assert.Equal(t, flag, decoded)

		colorAfter, err := DecodeColor(encoded)
		require.NoError(t, err)
		assert.Equal(t, colorBefore, colorAfter)
	}
}

func TestEncodeStationeryFromScratch(t *testing.T) {
	record, err := EncodeStationery(nil, true)
	require.NoError(t, err)

	flag, err := DecodeStationery(record)
	require.NoError(t, err)
	assert.True(t, flag)

	color, err := DecodeColor(record)
	require.NoError(t, err)
	assert.Equal(t, data.ColorNone, color)

	cleared, err := EncodeStationery(record, false)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, RecordSize), cleared)
}
