package subtitles

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// rangeSeparator splits the two timestamps of an SRT timing line.
const rangeSeparator = "-->"

var timestampRe = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}),(\d{3})$`)

// MaxTimestampMillis is the largest encodable offset, about 34 years. Below it
// every millisecond value survives the float64 seconds round trip.
const MaxTimestampMillis int64 = 1 << 40

const millisPerHour = 3_600_000

// ParseTimestamp decodes an SRT timestamp (HH:MM:SS,mmm) into seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, formatErr("", "empty timestamp")
	}
	m := timestampRe.FindStringSubmatch(value)
	if m == nil {
		return 0, formatErr(value, "timestamp does not match HH:MM:SS,mmm")
	}
	hours, errH := strconv.ParseInt(m[1], 10, 64)
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis, _ := strconv.Atoi(m[4])
	if errH != nil || hours > MaxTimestampMillis/millisPerHour {
		return 0, formatErr(value, "hours out of range")
	}
	if minutes >= 60 {
		return 0, formatErr(value, "minutes out of range")
	}
	if seconds >= 60 {
		return 0, formatErr(value, "seconds out of range")
	}
	// A single division keeps the result the nearest float to the exact
	// millisecond value, which is what makes Format/Parse round-trip.
	total := (hours*3600+int64(minutes)*60+int64(seconds))*1000 + int64(millis)
	if total > MaxTimestampMillis {
		return 0, formatErr(value, "timestamp out of range")
	}
	return float64(total) / 1000, nil
}

// FormatTimestamp encodes seconds as an SRT timestamp, rounded to the nearest
// millisecond.
func FormatTimestamp(seconds float64) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", formatErr(strconv.FormatFloat(seconds, 'f', -1, 64), "timestamp is not finite")
	}
	if seconds < 0 {
		return "", formatErr(strconv.FormatFloat(seconds, 'f', -1, 64), "timestamp is negative")
	}
	rounded := math.Round(seconds * 1000)
	if rounded > float64(MaxTimestampMillis) {
		return "", formatErr(strconv.FormatFloat(seconds, 'f', -1, 64), "timestamp out of range")
	}
	total := int64(rounded)
	ms := total % 1000
	total /= 1000
	hours := total / 3600
	total %= 3600
	minutes := total / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms), nil
}

// ParseRange decodes an SRT timing line ("start --> end") into seconds.
func ParseRange(line string) (float64, float64, error) {
	parts := strings.Split(line, rangeSeparator)
	if len(parts) != 2 {
		return 0, 0, formatErr(strings.TrimSpace(line), "timing line needs exactly one "+rangeSeparator)
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, formatErr(strings.TrimSpace(line), "end precedes start")
	}
	return start, end, nil
}

// FormatRange encodes a start/end pair as an SRT timing line.
func FormatRange(start, end float64) (string, error) {
	from, err := FormatTimestamp(start)
	if err != nil {
		return "", err
	}
	to, err := FormatTimestamp(end)
	if err != nil {
		return "", err
	}
	return from + " " + rangeSeparator + " " + to, nil
}
