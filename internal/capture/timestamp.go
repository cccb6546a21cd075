package capture

import (
	"time"

	"github.com/fatih/color"
)

// stampLayout is the fixed-width record timestamp: zero-padded date and
// time with millisecond precision, in local time.
const stampLayout = "2006-01-02 15:04:05.000"

// ansiReset clears any prior terminal attributes before a colored segment.
const ansiReset = "\x1b[0m"

var (
	stampColor = color.New(color.FgGreen)
	topicColor = color.New(color.FgBlue)
)

func init() {
	// The colorized rendering is part of the console record format, so it
	// must stay byte-identical when stdout is redirected to a pipe.
	stampColor.EnableColor()
	topicColor.EnableColor()
}

// Timestamp is the reception instant of a single publication.
//
// It is captured once per message with Now and rendered into both forms
// from the same instant, so the file and console sinks always agree on
// the recorded time down to the millisecond.
type Timestamp struct {
	t time.Time
}

// Now captures the current local time as a Timestamp.
func Now() Timestamp {
	return Timestamp{t: time.Now()}
}

// Plain renders the timestamp for the file sink: `[YYYY-MM-DD HH:MM:SS.mmm] `
// with a trailing space.
func (ts Timestamp) Plain() string {
	return "[" + ts.t.Format(stampLayout) + "] "
}

// Colored renders the same instant for the console sink, with the digits
// in green bounded by reset escapes.
func (ts Timestamp) Colored() string {
	return ansiReset + "[" + stampColor.Sprint(ts.t.Format(stampLayout)) + "] "
}

// topicTag renders the blue console topic tag: `[<topic>] ` with the topic
// in color and a trailing space.
func topicTag(topic string) string {
	return ansiReset + "[" + topicColor.Sprint(topic) + "] "
}
