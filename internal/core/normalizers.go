package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Age Category labels written to CA-Age.
const (
	AgeNew              = "New less than 5 years old"
	AgeFiveToTen        = "Refurbished or installed between 5 and 10 years ago"
	AgeWithinFive       = "Refurbished within 5 years" // assigned to the >10..20 range
	AgeMoreThanTen      = "Refurbished or installed more than 10 years ago"
	daysPerClassifyYear = 365
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ComposeAssetName builds the canonical Asset Name:
// Description-WorkZone-Floor-Room-Asset#, whitespace runs collapsed, trimmed.
func ComposeAssetName(rec Record) string {
	name := strings.Join([]string{
		rec.Get(ColAssetDescription),
		rec.Get(ColWorkZone),
		rec.Get(ColFloor),
		rec.Get(ColRoom),
		rec.Get(ColAssetNumber),
	}, "-")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
}

// ParseServiceDate parses MM/DD/YYYY into local midnight in loc.
// Components need not be zero padded but must be numeric and form a real
// calendar date; 02/30/2020 is rejected rather than rolled over.
func ParseServiceDate(s string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	month, day, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return time.Time{}, false
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// ElapsedYears returns (now - then) in 365-day years, fractional.
func ElapsedYears(then, now time.Time) float64 {
	return now.Sub(then).Hours() / 24 / daysPerClassifyYear
}

// ClassifyYears maps elapsed years to an Age Category.
// 5 and 10 both belong to the 5-10 category.
func ClassifyYears(years float64) string {
	switch {
	case years < 5:
		return AgeNew
	case years <= 10:
		return AgeFiveToTen
	case years <= 20:
		return AgeWithinFive
	default:
		return AgeMoreThanTen
	}
}

// ClassifyAge returns the Age Category for an MM/DD/YYYY date relative to now,
// or "" when the date cannot be parsed.
func ClassifyAge(date string, now time.Time) string {
	if date == "" {
		return ""
	}
	d, ok := ParseServiceDate(date, now.Location())
	if !ok {
		return ""
	}
	return ClassifyYears(ElapsedYears(d, now))
}

// CapitalizeFirst upper-cases the first character and lower-cases the rest.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
