package session

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	stateFormatVersionCurrent = 2
	stateFormatVersionV2      = 2
	stateFormatVersionV1      = 1
)

// CurrentSchemaVersion is an exported constant or variable used by the session client.
const CurrentSchemaVersion = stateFormatVersionCurrent

const (
	flagAuthenticated byte = 1 << 0
)

// ErrStateCorrupt is returned when a persisted snapshot blob cannot be decoded.
var ErrStateCorrupt = errors.New("session state corrupt")

func writeString(buf *bytes.Buffer, field, value string) error {
	if len(value) > 255 {
		return errors.New(field + " too long")
	}
	buf.WriteByte(byte(len(value)))
	buf.WriteString(value)
	return nil
}

func readString(data []byte, idx int) (string, int, error) {
	if idx >= len(data) {
		return "", 0, ErrStateCorrupt
	}
	n := int(data[idx])
	idx++
	if idx+n > len(data) {
		return "", 0, ErrStateCorrupt
	}
	return string(data[idx : idx+n]), idx + n, nil
}

// Encode serializes a [State] into the compact binary snapshot format.
// The encoding is append-only: new schema versions add fields but never
// reinterpret old ones.
func Encode(s *State) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(stateFormatVersionCurrent)

	if err := writeString(&buf, "role", string(s.Role)); err != nil {
		return nil, err
	}

	var flags byte
	if s.IsAuthenticated {
		flags |= flagAuthenticated
	}
	buf.WriteByte(flags)

	if err := writeString(&buf, "display name", s.Profile.DisplayName); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "picture url", s.Profile.PictureURL); err != nil {
		return nil, err
	}

	// v2 fields.
	if err := writeString(&buf, "company name", s.Profile.CompanyName); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "company logo url", s.Profile.CompanyLogoURL); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.BigEndian, s.UpdatedAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a persisted snapshot blob into a [State]. Older schema
// versions decode with their missing fields zeroed; [Store] re-encodes them
// at the current version on read.
func Decode(data []byte) (*State, error) {
	if len(data) < 2 {
		return nil, ErrStateCorrupt
	}

	version := data[0]
	if version < stateFormatVersionV1 || version > stateFormatVersionCurrent {
		return nil, ErrStateCorrupt
	}

	idx := 1

	role, idx, err := readString(data, idx)
	if err != nil {
		return nil, err
	}

	if idx >= len(data) {
		return nil, ErrStateCorrupt
	}
	flags := data[idx]
	idx++

	s := &State{
		Role:            Role(role),
		IsAuthenticated: flags&flagAuthenticated != 0,
		SchemaVersion:   version,
	}

	if s.Profile.DisplayName, idx, err = readString(data, idx); err != nil {
		return nil, err
	}
	if s.Profile.PictureURL, idx, err = readString(data, idx); err != nil {
		return nil, err
	}

	if version >= stateFormatVersionV2 {
		if s.Profile.CompanyName, idx, err = readString(data, idx); err != nil {
			return nil, err
		}
		if s.Profile.CompanyLogoURL, idx, err = readString(data, idx); err != nil {
			return nil, err
		}
	}

	if idx+8 > len(data) {
		return nil, ErrStateCorrupt
	}
	s.UpdatedAt = int64(binary.BigEndian.Uint64(data[idx : idx+8]))

	return s, nil
}
