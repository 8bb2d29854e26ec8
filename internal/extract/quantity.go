package extract

import (
	"regexp"
	"strconv"
)

const (
	minQuantity = 2
	maxQuantity = 100
)

// Ordered most specific first; each captures the count in its first group.
var quantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d+)\s*(?:quantity|qty|pieces?|pcs|items?|units?|times)\b`),
	regexp.MustCompile(`(?i)\b(?:quantity|qty|pieces?)\s*(?:of|:)?\s*(\d+)\b`),
	regexp.MustCompile(`(?i)\b(\d+)\s*(?:x|×)\s*(?:them|these|items?)\b`),
	regexp.MustCompile(`(?i)\b(?:bought|got|ordered|purchased)\s+(\d+)\b(?:\s+of\b)?`),
	regexp.MustCompile(`(?i)\b(\d+)\s+(?:cups?|bottles?|plates?|glasses|packets?|boxes)\b`),
	regexp.MustCompile(`(?i)\b(?:for|with)\s+(\d+)\s+(?:people|persons|friends|guests)\b`),
}

// ExtractQuantity finds an explicit item count between 2 and 100. A count of
// one is reported as absent because one is the default.
func ExtractQuantity(text string) (int, bool) {
	for _, re := range quantityPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n >= minQuantity && n <= maxQuantity {
				return n, true
			}
		}
	}
	return 0, false
}
