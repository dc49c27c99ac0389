package idgen

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

func TestShort_LengthAndCharset(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]+$`)
	for i := 0; i < 100; i++ {
		id, err := Short()
		if err != nil {
			t.Fatalf("Short() error on iteration %d: %v", i, err)
		}
		if len(id) != Length {
			t.Fatalf("Short() length = %d, want %d (id=%q)", len(id), Length, id)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("Short() = %q, does not match expected charset", id)
		}
	}
}

func TestUUID(t *testing.T) {
	id, err := UUID()
	if err != nil {
		t.Fatalf("UUID() error: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("UUID() = %q is not a UUID: %v", id, err)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "short", "uuid"} {
		if g, err := ByName(name); err != nil || g == nil {
			t.Errorf("ByName(%q) = %v, %v", name, g, err)
		}
	}
	if _, err := ByName("sequential"); err == nil {
		t.Error("expected error for unknown generator")
	}
}
