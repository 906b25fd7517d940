package session

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeDecodeCurrentVersion(t *testing.T) {
	in := &State{
		Role:            RoleBusinessOwner,
		IsAuthenticated: true,
		Profile: Profile{
			DisplayName:    "A. Doyle",
			PictureURL:     "https://cdn.example.com/a.png",
			CompanyName:    "Doyle Logistics",
			CompanyLogoURL: "https://cdn.example.com/logo.png",
		},
		UpdatedAt: time.Now().Unix(),
	}

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if data[0] != stateFormatVersionCurrent {
		t.Fatalf("expected version byte %d, got %d", stateFormatVersionCurrent, data[0])
	}

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Role != in.Role || out.IsAuthenticated != in.IsAuthenticated || out.Profile != in.Profile || out.UpdatedAt != in.UpdatedAt {
		t.Fatalf("round trip mismatch: in=%+v out=%+v", in, out)
	}
	if out.SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("expected schema version %d, got %d", CurrentSchemaVersion, out.SchemaVersion)
	}
}

func TestDecodeV1MissingFieldsZeroed(t *testing.T) {
	// v1 layout: version, role, flags, display name, picture url, updatedAt.
	var buf bytes.Buffer
	buf.WriteByte(stateFormatVersionV1)
	buf.WriteByte(byte(len("employee")))
	buf.WriteString("employee")
	buf.WriteByte(flagAuthenticated)
	buf.WriteByte(1)
	buf.WriteString("E")
	buf.WriteByte(0)
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 42})

	out, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode v1 failed: %v", err)
	}
	if out.Role != RoleEmployee || !out.IsAuthenticated {
		t.Fatalf("unexpected v1 decode %+v", out)
	}
	if out.Profile.CompanyName != "" || out.Profile.CompanyLogoURL != "" {
		t.Fatalf("v2 fields must be zero for v1 blobs, got %+v", out.Profile)
	}
	if out.UpdatedAt != 42 {
		t.Fatalf("expected updatedAt 42, got %d", out.UpdatedAt)
	}
	if out.SchemaVersion != stateFormatVersionV1 {
		t.Fatalf("expected schema version 1, got %d", out.SchemaVersion)
	}
}

func TestDecodeRejectsCorruptBlobs(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{stateFormatVersionCurrent},
		{0},
		{99, 1, 'x'},
		{stateFormatVersionCurrent, 200, 'a'},
	}

	for i, data := range cases {
		if _, err := Decode(data); err == nil {
			t.Fatalf("case %d: expected decode error", i)
		}
	}
}

func TestEncodeRejectsOversizedFields(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}

	in := &State{Role: RoleManager, Profile: Profile{DisplayName: string(long)}}
	if _, err := Encode(in); err == nil {
		t.Fatal("expected encode error for oversized field")
	}
}
