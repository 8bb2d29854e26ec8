package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeDayRe   = regexp.MustCompile(`(?i)\b(today|yesterday|tomorrow)\b`)
	lastWeekdayRe   = regexp.MustCompile(`(?i)\b(?:last|previous)\s+` + weekday + `\b`)
	nextWeekdayRe   = regexp.MustCompile(`(?i)\b(?:next|this)\s+` + weekday + `\b`)
	monthDayRe      = regexp.MustCompile(`(?i)\b` + month + `\.?\s+(\d{1,2})` + ordinal + `\b(?:,?\s+(\d{4})\b)?`)
	dayMonthRe      = regexp.MustCompile(`(?i)\b(\d{1,2})` + ordinal + `\s+(?:of\s+)?` + month + `\b\.?(?:,?\s+(\d{4})\b)?`)
	dotDateRe       = regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{2,4}\b`)
	currencyAfterRe = regexp.MustCompile(`(?i)^\s*` + currencySuffix)
)

var relativeOffsets = map[string]int{
	"today":     0,
	"yesterday": -1,
	"tomorrow":  1,
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

var months = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// dateFamily resolves one kind of date expression relative to ref, which is
// already truncated to midnight.
type dateFamily func(text string, ref time.Time, dayFirst bool) (time.Time, bool)

var (
	spokenDateFamilies  = []dateFamily{relativeDay, lastWeekday, nextWeekday, namedMonthDay, numericDay}
	receiptDateFamilies = []dateFamily{numericDay, namedMonthDay}
)

// ExtractDate resolves the first date expression in a spoken transcript,
// reading ambiguous numeric dates month first. The result is YYYY-MM-DD.
func ExtractDate(text string, ref time.Time) (string, bool) {
	return extractDate(spokenDateFamilies, text, ref, false)
}

// ExtractReceiptDate resolves the date printed on a receipt. Numeric dates are
// tried before named ones. In auto mode a euro sign or a dot separated date
// makes ambiguous numeric dates read day first.
func ExtractReceiptDate(text string, ref time.Time, order DateOrder) (string, bool) {
	dayFirst := order == DateOrderDayFirst
	if order == DateOrderAuto || order == "" {
		dayFirst = strings.Contains(text, "€") || dotDateRe.MatchString(text)
	}
	return extractDate(receiptDateFamilies, text, ref, dayFirst)
}

func extractDate(families []dateFamily, text string, ref time.Time, dayFirst bool) (string, bool) {
	ref = day(ref)
	for _, family := range families {
		if t, ok := family(text, ref, dayFirst); ok {
			return t.Format(isoDate), true
		}
	}
	return "", false
}

func relativeDay(text string, ref time.Time, _ bool) (time.Time, bool) {
	m := relativeDayRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return ref.AddDate(0, 0, relativeOffsets[strings.ToLower(m[1])]), true
}

// lastWeekday is the most recent strictly past occurrence; on the same
// weekday it goes back a full week.
func lastWeekday(text string, ref time.Time, _ bool) (time.Time, bool) {
	m := lastWeekdayRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	diff := (int(ref.Weekday()) - int(weekdayOf(m[1])) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return ref.AddDate(0, 0, -diff), true
}

// nextWeekday is the nearest strictly future occurrence.
func nextWeekday(text string, ref time.Time, _ bool) (time.Time, bool) {
	m := nextWeekdayRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	diff := (int(weekdayOf(m[1])) - int(ref.Weekday()) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return ref.AddDate(0, 0, diff), true
}

// namedMonthDay handles "march 5th" and "5 of march", with an optional year.
// Without a year a date after ref is assumed to be last year's.
func namedMonthDay(text string, ref time.Time, _ bool) (time.Time, bool) {
	type candidate struct {
		pos   int
		month string
		day   string
		year  string
	}
	var found []candidate
	for _, loc := range monthDayRe.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, candidate{loc[0], group(text, loc, 1), group(text, loc, 2), yearGroup(text, loc, 3, ref)})
	}
	for _, loc := range dayMonthRe.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, candidate{loc[0], group(text, loc, 2), group(text, loc, 1), yearGroup(text, loc, 3, ref)})
	}
	best := -1
	var result time.Time
	for _, c := range found {
		if best >= 0 && c.pos >= best {
			continue
		}
		d, _ := strconv.Atoi(c.day)
		m := monthOf(c.month)
		var t time.Time
		var ok bool
		if c.year != "" {
			y, _ := strconv.Atoi(c.year)
			t, ok = calendarDate(y, m, d, ref)
		} else {
			t, ok = calendarDate(ref.Year(), m, d, ref)
			if ok && t.After(ref) {
				t, ok = calendarDate(ref.Year()-1, m, d, ref)
			}
		}
		if ok {
			best, result = c.pos, t
		}
	}
	return result, best >= 0
}

// yearGroup returns the captured year unless it reads as an amount instead:
// outside 1900 through next year, or followed by a currency ("march 5 1500 rupees").
func yearGroup(text string, loc []int, n int, ref time.Time) string {
	s := group(text, loc, n)
	if s == "" {
		return ""
	}
	if y, _ := strconv.Atoi(s); y < 1900 || y > ref.Year()+1 {
		return ""
	}
	if currencyAfterRe.MatchString(text[loc[2*n+1]:]) {
		return ""
	}
	return s
}

// numericDay handles D/M/Y style dates. A part above 12 must be the day;
// otherwise dayFirst decides. ISO Y-M-D is recognized by its 4 digit head.
func numericDay(text string, ref time.Time, dayFirst bool) (time.Time, bool) {
	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		c, _ := strconv.Atoi(m[3])

		var y, mo, d int
		switch {
		case len(m[1]) == 4:
			if len(m[3]) > 2 {
				continue
			}
			y, mo, d = a, b, c
		case len(m[1]) == 3 || len(m[3]) == 3:
			continue
		default:
			y = expandYear(c, len(m[3]))
			switch {
			case a > 12:
				d, mo = a, b
			case b > 12:
				mo, d = a, b
			case dayFirst:
				d, mo = a, b
			default:
				mo, d = a, b
			}
		}
		if t, ok := calendarDate(y, time.Month(mo), d, ref); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// expandYear maps two digit years below 50 to the 2000s and the rest to the 1900s.
func expandYear(y, digits int) int {
	if digits != 2 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

// calendarDate builds y-m-d in ref's location. It rejects dates the calendar
// normalizes away (Feb 30) and dates more than a year after ref.
func calendarDate(y int, m time.Month, d int, ref time.Time) (time.Time, bool) {
	t := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	if t.Year() != y || t.Month() != m || t.Day() != d {
		return time.Time{}, false
	}
	if t.After(ref.AddDate(1, 0, 0)) {
		return time.Time{}, false
	}
	return t, true
}

func weekdayOf(name string) time.Weekday {
	return weekdays[strings.ToLower(name)[:3]]
}

func monthOf(name string) time.Month {
	return months[strings.ToLower(name)[:3]]
}

func group(text string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}
