package id

import (
	"encoding/base32"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewIDFormat(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if strings.Contains(id, "=") {
		t.Fatal("expected no padding")
	}
	if len(id) != 26 {
		t.Fatalf("expected 26-character id, got %d", len(id))
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
			t.Fatalf("unexpected character %q in id", r)
		}
	}

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("decode id: %v", err)
	}
	parsed, err := uuid.FromBytes(decoded)
	if err != nil {
		t.Fatalf("uuid from bytes: %v", err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected v4 uuid, got v%d", parsed.Version())
	}
}

func TestNewUUIDIsCanonical(t *testing.T) {
	got, err := NewUUID()
	if err != nil {
		t.Fatalf("new uuid: %v", err)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("parse %q: %v", got, err)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 64)
	for i := 0; i < 64; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
