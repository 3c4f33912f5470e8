package orders

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// FolioPrefix heads every order folio: OS-{year}-{month}-{seq}.
	FolioPrefix = "OS"

	folioMinWidth = 3
)

// FolioBucket scopes folio sequences to a calendar month. Sequences are
// monotonically increasing inside a bucket and never reused; nothing is
// guaranteed across buckets.
type FolioBucket struct {
	Year  int
	Month time.Month
}

// CurrentFolioBucket derives the bucket for the given instant in UTC.
func CurrentFolioBucket(now time.Time) FolioBucket {
	utc := now.UTC()
	return FolioBucket{Year: utc.Year(), Month: utc.Month()}
}

// Prefix renders the bucket's folio prefix, month zero-padded so the
// prefix match for one month can never swallow another (OS-2026-1- would
// otherwise also match OS-2026-10-...).
func (b FolioBucket) Prefix() string {
	return fmt.Sprintf("%s-%d-%02d-", FolioPrefix, b.Year, b.Month)
}

// NextFolio computes the successor of the highest existing folio in the
// bucket. An empty last folio starts the sequence at 1. The numeric
// suffix is left-padded to three digits and grows past 999 without ever
// truncating back.
func NextFolio(last string, bucket FolioBucket) (string, error) {
	prefix := bucket.Prefix()
	if last == "" {
		return fmt.Sprintf("%s%0*d", prefix, folioMinWidth, 1), nil
	}

	suffix, ok := strings.CutPrefix(last, prefix)
	if !ok {
		return "", fmt.Errorf("folio %q does not belong to bucket %s", last, prefix)
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("folio %q has a malformed sequence suffix: %w", last, err)
	}
	if seq < 0 {
		return "", fmt.Errorf("folio %q has a negative sequence suffix", last)
	}

	return fmt.Sprintf("%s%0*d", prefix, folioMinWidth, seq+1), nil
}

// FolioGenerationError reports that every allocation attempt collided
// with a concurrently inserted folio. Callers should treat it as
// transient and retry later.
type FolioGenerationError struct {
	Attempts int
}

func (e *FolioGenerationError) Error() string {
	return fmt.Sprintf("folio generation failed after %d attempts", e.Attempts)
}
