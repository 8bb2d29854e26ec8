package extract

import (
	"math"
	"time"
)

const (
	// defaultConfidence stands in for engines that report no confidence.
	defaultConfidence = 0.5

	// Below this weighted score no single alternative is trusted and the
	// fields are merged across all of them instead.
	combineThreshold = 2.0
)

// ParseTranscript runs the amount, date, quantity and description extractors
// over one transcript. It never fails; fields it cannot find are left empty.
func ParseTranscript(text string, ref time.Time, opts Options) Record {
	var rec Record
	if amount, ok := ExtractAmount(text); ok {
		rec.Amount = &amount
	}
	if date, ok := extractDate(spokenDateFamilies, text, ref, opts.DateOrder == DateOrderDayFirst); ok {
		rec.Date = date
	}
	if qty, ok := ExtractQuantity(text); ok {
		rec.Quantity = qty
	}
	if desc, ok := ExtractDescription(text); ok {
		rec.Description = desc
	}
	return rec
}

// Score weighs how complete a parsed transcript is: amount 4, description 3,
// date 2, quantity 1.
func Score(rec Record) float64 {
	var s float64
	if rec.Amount != nil {
		s += 4
	}
	if len(rec.Description) > 2 {
		s += 3
	}
	if rec.Date != "" {
		s += 2
	}
	if rec.Quantity > 0 {
		s += 1
	}
	return s
}

// ParseAlternatives parses every speech hypothesis and keeps the one with the
// best score weighted by the engine's confidence. When even the best is weak,
// each field is taken from the first alternative that has it. A result with
// neither amount nor description is ErrRecognitionAmbiguous.
func ParseAlternatives(alts []Alternative, ref time.Time, opts Options) (Record, error) {
	if len(alts) == 0 {
		return Record{}, ErrRecognitionAmbiguous
	}

	parsed := make([]Record, len(alts))
	best, bestScore := 0, math.Inf(-1)
	for i, alt := range alts {
		parsed[i] = ParseTranscript(alt.Transcript, ref, opts)
		score := Score(parsed[i]) * confidence(alt.Confidence)
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	rec := parsed[best]
	if bestScore < combineThreshold {
		rec = combine(parsed)
	}
	if rec.Amount == nil && rec.Description == "" {
		return Record{}, ErrRecognitionAmbiguous
	}
	return rec, nil
}

// combine merges field by field; the first alternative with a value wins.
func combine(parsed []Record) Record {
	var out Record
	for _, rec := range parsed {
		if out.Amount == nil && rec.Amount != nil {
			out.Amount = rec.Amount
		}
		if out.Date == "" {
			out.Date = rec.Date
		}
		if out.Description == "" {
			out.Description = rec.Description
		}
		if out.Quantity == 0 {
			out.Quantity = rec.Quantity
		}
	}
	return out
}

func confidence(c float64) float64 {
	if math.IsNaN(c) || c <= 0 {
		return defaultConfidence
	}
	if c > 1 {
		return 1
	}
	return c
}
