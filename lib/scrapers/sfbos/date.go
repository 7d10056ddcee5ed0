package sfbos

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// the site is inconsistent about where the meeting date lives, it can be in
// the pdf url, in the link text or only in the surrounding listing row
var (
	isoDateRegex     = regexp.MustCompile(`(\d{4})[_-](\d{2})[_-](\d{2})`)
	usDateRegex      = regexp.MustCompile(`(\d{2})[_-](\d{2})[_-](\d{4})`)
	slashDateRegex   = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	monthNameRegex   = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2}),?\s+(\d{4})`)
	monthNumberByKey = map[string]time.Month{
		"january": 1, "february": 2, "march": 3, "april": 4,
		"may": 5, "june": 6, "july": 7, "august": 8,
		"september": 9, "october": 10, "november": 11, "december": 12,
	}
)

// extractDate tries the url first, then the link text, then the listing
// context, matching the date conventions observed on the site.
func extractDate(url, linkText, context string) (time.Time, bool) {
	for _, haystack := range []string{url, linkText, context} {
		if date, ok := matchDate(haystack); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

func matchDate(s string) (time.Time, bool) {
	if groups := isoDateRegex.FindStringSubmatch(s); groups != nil {
		return makeDate(groups[1], groups[2], groups[3])
	}
	if groups := usDateRegex.FindStringSubmatch(s); groups != nil {
		return makeDate(groups[3], groups[1], groups[2])
	}
	if groups := slashDateRegex.FindStringSubmatch(s); groups != nil {
		return makeDate(groups[3], groups[1], groups[2])
	}
	if groups := monthNameRegex.FindStringSubmatch(s); groups != nil {
		month := monthNumberByKey[strings.ToLower(groups[1])]
		day, err1 := strconv.Atoi(groups[2])
		year, err2 := strconv.Atoi(groups[3])
		if err1 != nil || err2 != nil || !validDay(day) {
			return time.Time{}, false
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func makeDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	year, err1 := strconv.Atoi(yearStr)
	month, err2 := strconv.Atoi(monthStr)
	day, err3 := strconv.Atoi(dayStr)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || !validDay(day) {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func validDay(day int) bool {
	return day >= 1 && day <= 31
}
