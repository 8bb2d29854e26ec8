package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxTokenLength = 24

// Everything the other extractors recognize, removed in this order before the
// remaining words are treated as the description.
var (
	currencyExpressions = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b` + number + `\s*` + currencySuffix),
		regexp.MustCompile(`(?i)` + currencyPrefix + `\s*` + number),
		regexp.MustCompile(`(?i)\b` + number + `\s*(?:only|each|per|exactly)\b`),
		regexp.MustCompile(`(?i)\b` + currencyWord),
		regexp.MustCompile(currencySymbol),
	}

	dateExpressions = []*regexp.Regexp{
		relativeDayRe,
		lastWeekdayRe,
		nextWeekdayRe,
		regexp.MustCompile(`(?i)\b(?:last|this|next)\s+(?:week|weekend|month|year|night)\b`),
		regexp.MustCompile(`(?i)\b(?:on\s+)?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		monthDayRe,
		dayMonthRe,
		numericDateRe,
		clockTimeRe,
	}

	stopWords = regexp.MustCompile(`(?i)\b(?:i|a|an|the|for|of|on|at|to|in|from|with|and|or|my|me|we|our|us|by|bought|buy|buying|paid|pay|paying|spent|spend|spending|cost|costs|worth|total|was|is|it|its|got|get|ordered|order|purchased|price|amount|about|around|only|each|per|exactly|some|just|had|have|has|did|do|hundred|thousand|quantity|qty|last|next|previous|this|that)\b`)

	bareNumbers = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

	letterRun = regexp.MustCompile(`\p{L}{2,}`)
)

// ExtractDescription strips amount, date, quantity and filler words from a
// transcript and title-cases what is left. Common expense words are replaced
// by their canonical label.
func ExtractDescription(text string) (string, bool) {
	for _, re := range currencyExpressions {
		text = re.ReplaceAllString(text, " ")
	}
	for _, re := range quantityPatterns {
		text = re.ReplaceAllString(text, " ")
	}
	for _, re := range dateExpressions {
		text = re.ReplaceAllString(text, " ")
	}
	text = stopWords.ReplaceAllString(text, " ")
	text = bareNumbers.ReplaceAllString(text, " ")

	caser := cases.Title(language.English)
	var words []string
	for _, tok := range strings.Fields(text) {
		tok = strings.Trim(tok, `.,!?;:'"()[]-`)
		n := utf8.RuneCountInString(tok)
		if n < 2 || n > maxTokenLength || !letterRun.MatchString(tok) {
			continue
		}
		words = append(words, caser.String(strings.ToLower(tok)))
	}
	if len(words) == 0 {
		return "", false
	}

	joined := strings.Join(words, " ")
	if label, ok := canonicalLabel(strings.ToLower(joined)); ok {
		return label, true
	}
	if len(joined) < 3 {
		return "", false
	}
	return joined, true
}
