package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Staffing sheets abbreviate the overnight GOR shift instead of spelling
// out its interval.
const gorShift = "3p-7a"

var (
	meridiemRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?([ap])-(\d{1,2})(?::(\d{2}))?([ap])$`)
	clockRe    = regexp.MustCompile(`^(\d{2}):?(\d{2})-(\d{2}):?(\d{2})$`)
)

// ParseShift converts a staffing sheet shift interval into a 24-hour
// "HH:MM" in/out pair. Supported forms are meridiem intervals such as
// "7a-3:30p" or "7a-7a", plain 24-hour intervals such as "0700-1530" or
// "07:00-15:30", and the sheet shorthand "GOR" (the 3p-7a overnight
// shift).
func ParseShift(s string) (in, out string, err error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if s == "gor" {
		s = gorShift
	}

	if m := meridiemRe.FindStringSubmatch(s); m != nil {
		in, err = meridiemClock(m[1], m[2], m[3])
		if err != nil {
			return "", "", err
		}
		out, err = meridiemClock(m[4], m[5], m[6])
		if err != nil {
			return "", "", err
		}
		return in, out, nil
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		return m[1] + ":" + m[2], m[3] + ":" + m[4], nil
	}

	return "", "", fmt.Errorf("unrecognised shift interval %q", s)
}

// meridiemClock converts an hour, optional minute, and a/p marker into
// "HH:MM". Noon and midnight follow 12-hour convention: 12a is 00:00,
// 12p is 12:00.
func meridiemClock(hour, minute, meridiem string) (string, error) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 1 || h > 12 {
		return "", fmt.Errorf("bad shift hour %q", hour)
	}
	if minute == "" {
		minute = "00"
	}
	if meridiem == "a" && h == 12 {
		h = 0
	}
	if meridiem == "p" && h != 12 {
		h += 12
	}
	return fmt.Sprintf("%02d:%s", h, minute), nil
}
