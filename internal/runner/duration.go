package runner

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockPattern = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})$`)
	// Trail results often print times as 12h03'45 or 12h03m45s
	hourMarkPattern = regexp.MustCompile(`^(\d+)h(\d{1,2})(?:'|m)?(?:(\d{1,2})(?:"|s)?)?$`)
)

// ParseFinishTime attempts to parse a finish time into a duration.
// Returns 0 if parsing fails.
// Supports formats: "2:34:56", "34:56", "12h03'45", "12h03m45s", "26h05"
func ParseFinishTime(text string) time.Duration {
	text = strings.TrimSpace(text)
	if text == "" || text == NotAvailable {
		return 0
	}

	if m := clockPattern.FindStringSubmatch(text); m != nil {
		return clock(m[1], m[2], m[3])
	}

	if m := hourMarkPattern.FindStringSubmatch(strings.ToLower(text)); m != nil {
		return clock(m[1], m[2], m[3])
	}

	return 0
}

func clock(hours, minutes, seconds string) time.Duration {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// ParsePosition returns the numeric position, or 0 when the text is not a number.
// Trailing ordinal marks such as "1." or "2nd" are ignored.
func ParsePosition(text string) int {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}
	return n
}
