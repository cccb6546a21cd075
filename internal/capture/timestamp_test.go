package capture

import (
	"regexp"
	"strings"
	"testing"
)

var plainStampRe = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\] $`)

func TestTimestampPlain(t *testing.T) {
	got := Now().Plain()
	if !plainStampRe.MatchString(got) {
		t.Errorf("Plain() = %q, want match for %v", got, plainStampRe)
	}
}

func TestTimestampPlainFixedWidth(t *testing.T) {
	// "[" + 23 digit/punctuation chars + "] " = 26 bytes, always.
	got := Now().Plain()
	if len(got) != 26 {
		t.Errorf("Plain() length = %d (%q), want 26", len(got), got)
	}
}

func TestTimestampColored(t *testing.T) {
	ts := Now()
	colored := ts.Colored()

	want := "\x1b[0m[\x1b[32m" + ts.t.Format(stampLayout) + "\x1b[0m] "
	if colored != want {
		t.Errorf("Colored() = %q, want %q", colored, want)
	}
}

func TestTimestampSameInstantBothRenderings(t *testing.T) {
	ts := Now()

	plain := ts.Plain()
	colored := ts.Colored()

	digits := ts.t.Format(stampLayout)
	if !strings.Contains(plain, digits) {
		t.Errorf("Plain() = %q does not contain %q", plain, digits)
	}
	if !strings.Contains(colored, digits) {
		t.Errorf("Colored() = %q does not contain %q", colored, digits)
	}
}

func TestTopicTag(t *testing.T) {
	got := topicTag("sensors/temp")
	want := "\x1b[0m[\x1b[34msensors/temp\x1b[0m] "
	if got != want {
		t.Errorf("topicTag() = %q, want %q", got, want)
	}
}
