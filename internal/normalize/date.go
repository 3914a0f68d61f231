package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrNotADate = errors.New("token is not a date")

// dateFormats is the ordered list of layouts tried by ParseDate. Earlier
// entries win, so the unambiguous layouts come first.
var dateFormats = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006-01-02",
	"01-02-2006",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"02 Jan 2006",
}

var (
	zeroYearPattern    = regexp.MustCompile(`^(\d{1,2}[/-]\d{1,2}[/-])00(\d{2})$`)
	droppedLeadPattern = regexp.MustCompile(`^0/\d{1,2}/\d{2,4}$`)
	partialPattern     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
)

// ParseDate parses a date token against the known statement layouts.
// Two OCR repairs run before format matching:
//   - a four-digit year starting "00" has its leading zeros rewritten to
//     "20" (the scanner dropped the century: 04/15/0023 -> 04/15/2023)
//   - a token shaped 0/DD/YY lost the first digit of its month; month 10
//     is tried first, then month 01
func ParseDate(token string) (time.Time, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return time.Time{}, ErrNotADate
	}

	if m := zeroYearPattern.FindStringSubmatch(s); m != nil {
		s = m[1] + "20" + m[2]
	}

	if droppedLeadPattern.MatchString(s) {
		if t, err := parseFormats("1" + s); err == nil {
			return t, nil
		}
		return parseFormats("01" + s[1:])
	}

	return parseFormats(s)
}

func parseFormats(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrNotADate, s)
}

// IsPartialDate reports whether the token is an MM/DD date with no year,
// as printed by one credit union's statement layout.
func IsPartialDate(token string) bool {
	m := partialPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// YearAnchor carries the statement-period year extracted from a document
// header. Partial dates are resolved against the anchor so inference stays
// deterministic for a given document.
type YearAnchor struct {
	Year  int
	Found bool
}

var anchorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)statement\s+period.{0,40}?\b(20\d{2})\b`),
	regexp.MustCompile(`(?i)(?:for\s+the\s+period|period\s+(?:from|of|ending)|through|thru).{0,40}?\b(20\d{2})\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}/\d{1,2}/(20\d{2})\s*(?:-|to|through)\s*\d{1,2}/\d{1,2}/20\d{2}\b`),
}

// FindYearAnchor scans document text for a statement-period header and
// returns the first plausible coverage year.
func FindYearAnchor(text string) YearAnchor {
	for _, p := range anchorPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			year, err := strconv.Atoi(m[1])
			if err == nil && year >= 2000 && year <= time.Now().Year()+1 {
				return YearAnchor{Year: year, Found: true}
			}
		}
	}
	return YearAnchor{}
}

// ResolvePartialDate turns an MM/DD token into a full date. With an anchor
// the anchor year is used directly. Without one, the current year is
// assumed unless that would place the date more than a month into the
// future, in which case the statement is taken to cover the prior year.
func ResolvePartialDate(token string, anchor YearAnchor, now time.Time) (time.Time, error) {
	m := partialPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNotADate, token)
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNotADate, token)
	}

	year := now.Year()
	if anchor.Found {
		year = anchor.Year
	} else if month > int(now.Month())+1 {
		year--
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNotADate, token)
	}
	return t, nil
}
