package money

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var nonDigits = regexp.MustCompile(`\D`)

// dateLayouts covers the separator-delimited forms the extracts and form
// inputs actually contain. Tried in order after the 8-digit fast path.
var dateLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate normalizes a date string to mm/dd/yyyy display form.
// "20260114" and "01142026" both resolve; blank or unparseable input
// yields "".
func ParseDate(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}

	digits := nonDigits.ReplaceAllString(t, "")
	if len(digits) == 8 {
		leading, _ := strconv.Atoi(digits[:4])
		layout := "01022006"
		if leading >= 1900 && leading <= 2100 {
			layout = "20060102"
		}
		if dt, err := time.Parse(layout, digits); err == nil {
			return dt.Format("01/02/2006")
		}
	}

	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, t); err == nil {
			return dt.Format("01/02/2006")
		}
	}
	return ""
}
