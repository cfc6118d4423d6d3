package store

import (
	"strings"
	"time"
)

// DayFormat is the canonical calendar-day representation. Every date is
// normalised to it at the store boundary, on write and on read, so two
// encodings never coexist in new data.
const DayFormat = "2006-01-02"

// legacyLayouts are date encodings older rows may still carry: the
// US-locale form the first client versions wrote, and full timestamps.
var legacyLayouts = []string{
	"1/2/2006",
	time.RFC3339,
}

// CanonicalDate normalises s to DayFormat. The second return is false when
// s matches no known encoding, in which case s is returned unchanged.
func CanonicalDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(DayFormat, s); err == nil {
		return s, true
	}
	for _, layout := range legacyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DayFormat), true
		}
	}
	return s, false
}
