package constants

import (
	"regexp"
	"testing"
	"time"
)

func TestTimeFormat(t *testing.T) {
	// Check that the global regexp can match constant TimeFormatYearSeconds.
	re := regexp.MustCompile(TimeFormatYearSecondsRegex)
	if !re.MatchString(TimeFormatYearSeconds) {
		t.Fatal("Mismatch between TimeFormatYearSeconds and regexp in constant TimeFormatYearSecondsRegex.")
	}
	// Check a generated name matches too.
	if !re.MatchString(time.Date(2024, 3, 15, 10, 20, 30, 0, time.UTC).Format(TimeFormatYearSeconds)) {
		t.Fatal("Formatted time does not match TimeFormatYearSecondsRegex.")
	}
}

func TestDateFormatISO(t *testing.T) {
	got := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC).Format(DateFormatISO)
	if got != "2024-03-05" {
		t.Fatalf("expected 2024-03-05; got %q", got)
	}
}
