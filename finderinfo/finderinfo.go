// Package finderinfo encodes and decodes the color label and stationery pad
// fields of the com.apple.FinderInfo extended attribute.
//
// FinderInfo is a fixed 32-byte big-endian record. The Finder flags word
// occupies bytes 8-9; the label color is bits 1-3 of that word and the
// stationery pad flag is bit 0x0800. Every encoder is a read-modify-write
// over the full record: bits outside the target field pass through
// untouched, because color and stationery are independent logical attributes
// sharing the same physical bytes.
package finderinfo

import (
	"encoding/binary"
	"fmt"

	"github.com/macmeta/macmeta/data"
)

// RecordSize is the fixed length of a FinderInfo record in bytes.
const RecordSize = 32

const (
	flagsOffset    = 8
	colorMask      = 0x000E // bits 1-3 of the flags word
	colorShift     = 1
	stationeryMask = 0x0800
)

func validate(record []byte) error {
	if len(record) != RecordSize {
		return fmt.Errorf("%w: FinderInfo record is %d bytes, want %d", data.ErrBinaryDecode, len(record), RecordSize)
	}
	return nil
}

// template returns the record to modify: a copy of the existing record, or
// an all-zero record when none exists yet.
func template(record []byte) ([]byte, error) {
	if record == nil {
		return make([]byte, RecordSize), nil
	}
	if err := validate(record); err != nil {
		return nil, err
	}
	out := make([]byte, RecordSize)
	copy(out, record)
	return out, nil
}

// DecodeColor extracts the label color (0-7) from a FinderInfo record.
func DecodeColor(record []byte) (int, error) {
	if err := validate(record); err != nil {
		return 0, err
	}
	flags := binary.BigEndian.Uint16(record[flagsOffset:])
	return int((flags & colorMask) >> colorShift), nil
}

// EncodeColor returns a copy of record with the label color replaced. A nil
// record starts from the all-zero template.
func EncodeColor(record []byte, color int) ([]byte, error) {
	if color < data.ColorNone || color > data.MaxColor {
		return nil, fmt.Errorf("%w: color %d out of range 0-%d", data.ErrTypeMismatch, color, data.MaxColor)
	}
	out, err := template(record)
	if err != nil {
		return nil, err
	}
	flags := binary.BigEndian.Uint16(out[flagsOffset:])
	flags = (flags &^ colorMask) | (uint16(color) << colorShift)
	binary.BigEndian.PutUint16(out[flagsOffset:], flags)
	return out, nil
}

// DecodeStationery extracts the stationery pad flag from a FinderInfo record.
func DecodeStationery(record []byte) (bool, error) {
	if err := validate(record); err != nil {
		return false, err
	}
	flags := binary.BigEndian.Uint16(record[flagsOffset:])
	return flags&stationeryMask != 0, nil
}

// EncodeStationery returns a copy of record with the stationery pad flag
// replaced. A nil record starts from the all-zero template.
func EncodeStationery(record []byte, flag bool) ([]byte, error) {
	out, err := template(record)
	if err != nil {
		return nil, err
	}
	flags := binary.BigEndian.Uint16(out[flagsOffset:])
	if flag {
		flags |= stationeryMask
	} else {
		flags &^= stationeryMask
	}
	binary.BigEndian.PutUint16(out[flagsOffset:], flags)
	return out, nil
}
