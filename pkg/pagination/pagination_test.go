package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 1); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough limit, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{
		CreatedAt: time.Date(2026, 8, 15, 12, 30, 0, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	decoded, err := ParseCursor(EncodeCursor(cursor))
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !decoded.CreatedAt.Equal(cursor.CreatedAt) {
		t.Fatalf("expected %s got %s", cursor.CreatedAt, decoded.CreatedAt)
	}
	if decoded.ID != cursor.ID {
		t.Fatalf("expected %s got %s", cursor.ID, decoded.ID)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if _, err := ParseCursor("not-base64!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if cursor, err := ParseCursor("   "); err != nil || cursor != nil {
		t.Fatalf("blank cursor should parse to nil, got %v / %v", cursor, err)
	}
}
