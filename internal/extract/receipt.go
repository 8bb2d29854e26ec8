package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const maxItems = 5

var (
	symbolsOnlyRe   = regexp.MustCompile(`^[\d\s.,:;/\\\-+=*#%()$€£₹]+$`)
	boilerplateRe   = regexp.MustCompile(`(?i)\b(?:receipt|invoice|bill\s*no|order\s*no|total|sub\s*total|subtotal|tax|gst|vat|cgst|sgst|date|time|cashier|server|table|change|cash|card|visa|mastercard|amex|debit|credit|thank|thanks|welcome|qty|price|amount)\b`)
	contactRe       = regexp.MustCompile(`(?i)(?:\b(?:tel|phone|ph|mob|mobile|fax|email|e-mail|gstin|address|street|road|avenue|suite|floor|st|rd|ave|blvd)\b\.?|www\.|https?://|\.com\b|\.in\b|\S+@\S+\.\w+)`)
	phoneRe         = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
	businessNameRe  = regexp.MustCompile(`^[A-Z][A-Za-z\s&'.\-]*$`)
	businessWordRe  = regexp.MustCompile(`(?i)\b(?:restaurant|cafe|café|coffee|bakery|bar|grill|kitchen|diner|pizzeria|pharmacy|chemist|medical|store|stores|mart|market|supermarket|shop|traders|enterprises|hotel|ltd|limited|inc|llc|pvt|co)\b`)
	twoLettersRe    = regexp.MustCompile(`[A-Za-z]{2}`)
	itemExclusionRe = regexp.MustCompile(`(?i)\b(?:total|subtotal|sub\s*total|tax|change|balance)\b`)
	digitRe         = regexp.MustCompile(`\d`)
	priceTokenRe    = regexp.MustCompile(`[$€£₹]?\s*\d+(?:[.,]\d+)*`)
	nonWordRe       = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// ParseReceipt extracts the total, date, merchant and up to five line items
// from OCR output. OCR below the configured confidence or length floor, or
// output that yields none of amount, date and description, is reported as
// ErrReceiptUnreadable.
func ParseReceipt(ocr OCRText, ref time.Time, opts Options) (Record, error) {
	text := strings.TrimSpace(ocr.Text)
	if ocr.Confidence < opts.minOCRConfidence() || utf8.RuneCountInString(text) < opts.minOCRLength() {
		return Record{}, ErrReceiptUnreadable
	}

	order := opts.DateOrder
	if order == "" {
		order = DateOrderAuto
	}

	lines := receiptLines(text)
	var rec Record
	if amount, ok := ExtractReceiptAmount(text); ok {
		rec.Amount = &amount
	}
	if date, ok := ExtractReceiptDate(text, ref, order); ok {
		rec.Date = date
	}
	if desc, ok := ExtractReceiptDescription(lines); ok {
		rec.Description = desc
	}
	rec.Items = ExtractItems(lines)

	if rec.Empty() {
		return Record{}, ErrReceiptUnreadable
	}
	return rec, nil
}

// ExtractReceiptDescription picks the merchant name from OCR lines: the first
// line that looks like a business name, else the first readable short line.
func ExtractReceiptDescription(lines []string) (string, bool) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < 2 || n > 50 || isBoilerplate(line) || symbolHeavy(line) {
			continue
		}
		if businessNameRe.MatchString(line) || businessWordRe.MatchString(line) {
			return sentenceCase(line), true
		}
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < 3 || n > 30 || isBoilerplate(line) || !twoLettersRe.MatchString(line) {
			continue
		}
		return sentenceCase(line), true
	}
	return "", false
}

// ExtractItems returns up to five item names from lines that carry both a
// word and a number, with the numbers and punctuation removed.
func ExtractItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < 3 || n > 100 {
			continue
		}
		if !twoLettersRe.MatchString(line) || !digitRe.MatchString(line) {
			continue
		}
		if itemExclusionRe.MatchString(line) || contactRe.MatchString(line) || phoneRe.MatchString(line) ||
			numericDateRe.MatchString(line) || clockTimeRe.MatchString(line) {
			continue
		}

		name := priceTokenRe.ReplaceAllString(line, " ")
		name = nonWordRe.ReplaceAllString(name, " ")
		var words []string
		for _, w := range strings.Fields(name) {
			if utf8.RuneCountInString(w) < 2 || isNumeric(w) {
				continue
			}
			words = append(words, w)
		}
		name = strings.Join(words, " ")
		if l := utf8.RuneCountInString(name); l <= 2 || l >= 50 {
			continue
		}

		items = append(items, sentenceCase(name))
		if len(items) == maxItems {
			break
		}
	}
	return items
}

func receiptLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func isBoilerplate(line string) bool {
	return symbolsOnlyRe.MatchString(line) ||
		boilerplateRe.MatchString(line) ||
		contactRe.MatchString(line) ||
		phoneRe.MatchString(line) ||
		numericDateRe.MatchString(line) ||
		clockTimeRe.MatchString(line)
}

// symbolHeavy reports whether more than 40% of the non-space characters
// are neither letters nor digits.
func symbolHeavy(line string) bool {
	var total, symbols int
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			symbols++
		}
	}
	return total == 0 || float64(symbols) > 0.4*float64(total)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// sentenceCase upper-cases the first letter and lower-cases the rest.
func sentenceCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
