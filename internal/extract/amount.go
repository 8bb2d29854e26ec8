package extract

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts outside (0, maxAmount) are treated as misreads.
var maxAmount = decimal.NewFromInt(100000)

// amountFamily is a group of patterns of the same specificity. Each pattern
// captures the number in its first group.
type amountFamily []*regexp.Regexp

type amountMatch struct {
	start int
	pos   int
	value decimal.Decimal
}

var (
	keywordTotals = amountFamily{
		regexp.MustCompile(`(?i)\b(?:grand\s+total|net\s+amount|balance\s+due|amount\s+due|total|amount|paid)\b\s*(?:is|was|of)?\s*[:\-]?\s*` + currencyPrefix + `?\s*` + number),
	}

	currencyAnchored = amountFamily{
		regexp.MustCompile(`(?i)` + currencyPrefix + `\s*` + number),
		regexp.MustCompile(`(?i)\b` + number + `\s*` + currencySuffix),
	}

	priceLike = amountFamily{
		regexp.MustCompile(`\b(\d+\.\d{2})\b`),
	}

	spokenContext = amountFamily{
		regexp.MustCompile(`(?i)\b(?:for|of|paid|cost|costs|worth|price|total|spent)\s+(?:(?:of|is|was|about|around)\s+)?` + currencyPrefix + `?\s*` + number),
		regexp.MustCompile(`(?i)\b` + number + `\s*(?:only|each|per|exactly)\b`),
	}

	// totalQualifier ends the text before a keyword that labels a partial
	// figure on the same line: "SUB TOTAL", "Tax Amount".
	totalQualifier = regexp.MustCompile(`(?i)\b(?:sub|tax|gst|vat|service)[ \t\-]*$`)

	voiceAmountFinders = []func(string) []amountMatch{totalMatches, currencyAnchored.matches, priceLike.matches, spokenContext.matches}

	bareNumberRe  = regexp.MustCompile(`\b` + number + `\b`)
	numericDateRe = regexp.MustCompile(numericDate)
	clockTimeRe   = regexp.MustCompile(`(?i)` + clockTime)
)

// ExtractAmount finds the amount in a spoken transcript. The first family with
// any valid match wins, and within it the leftmost match. When no family
// matches, the first plausible bare number is used.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	text = stripDatesAndTimes(text)
	for _, find := range voiceAmountFinders {
		if found := find(text); len(found) > 0 {
			return found[0].value, true
		}
	}
	return fallbackAmount(text)
}

// ExtractReceiptAmount finds the total on a receipt. A keyword anchored total
// wins; otherwise the largest currency or price looking number is assumed to
// be the total, since receipts print line item prices before it.
func ExtractReceiptAmount(text string) (decimal.Decimal, bool) {
	if found := totalMatches(text); len(found) > 0 {
		return found[0].value, true
	}

	text = stripDatesAndTimes(text)

	var best *decimal.Decimal
	for _, family := range []amountFamily{currencyAnchored, priceLike} {
		for _, m := range family.matches(text) {
			if best == nil || m.value.GreaterThan(*best) {
				v := m.value
				best = &v
			}
		}
	}
	if best == nil {
		return decimal.Decimal{}, false
	}
	return *best, true
}

// matches returns the valid matches of all patterns in the family, leftmost first.
func (f amountFamily) matches(text string) []amountMatch {
	var found []amountMatch
	for _, re := range f {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if loc[2] < 0 {
				continue
			}
			if v, ok := parseAmount(text[loc[2]:loc[3]]); ok {
				found = append(found, amountMatch{start: loc[0], pos: loc[2], value: v})
			}
		}
	}
	slices.SortStableFunc(found, func(a, b amountMatch) int {
		return cmp.Compare(a.pos, b.pos)
	})
	return found
}

// totalMatches is keywordTotals without the totals of a part of the bill.
func totalMatches(text string) []amountMatch {
	return slices.DeleteFunc(keywordTotals.matches(text), func(m amountMatch) bool {
		return totalQualifier.MatchString(text[:m.start])
	})
}

// stripDatesAndTimes blanks numeric dates and clock times, which would
// otherwise read as prices: 12.03.2024 -> 12.03
func stripDatesAndTimes(text string) string {
	text = numericDateRe.ReplaceAllString(text, " ")
	return clockTimeRe.ReplaceAllString(text, " ")
}

// fallbackAmount picks a bare number that is not a year, a clock time or a
// lone "1", preferring one with decimals.
func fallbackAmount(text string) (decimal.Decimal, bool) {
	var first *decimal.Decimal
	for _, s := range bareNumberRe.FindAllString(text, -1) {
		if looksLikeYearOrTime(s) {
			continue
		}
		v, ok := parseAmount(s)
		if !ok {
			continue
		}
		if strings.Contains(s, ".") {
			return v, true
		}
		if first == nil {
			first = &v
		}
	}
	if first == nil {
		return decimal.Decimal{}, false
	}
	return *first, true
}

func looksLikeYearOrTime(s string) bool {
	if s == "1" {
		return true
	}
	if strings.ContainsAny(s, ".,") {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	if n >= 1900 && n <= 2030 {
		return true
	}
	return n >= 100 && n <= 2400 && n%100 == 0
}

// parseAmount parses a captured number and applies the sanity range.
func parseAmount(s string) (decimal.Decimal, bool) {
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, false
	}
	if !v.IsPositive() || !v.LessThan(maxAmount) {
		return decimal.Decimal{}, false
	}
	return v, true
}
