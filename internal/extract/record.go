// Package extract turns free text from speech recognition and receipt OCR into
// partially filled expense records.
//
// Every function in this package is pure: no I/O, no shared mutable state.
// A field that could not be extracted with confidence is left at its zero value.
package extract

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const isoDate = "2006-01-02"

// Record is the structured result of an extraction pipeline. Absent fields are
// zero values and are omitted from JSON.
type Record struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        string           `json:"date,omitempty"` // YYYY-MM-DD
	Description string           `json:"description,omitempty"`
	Quantity    int              `json:"quantity,omitempty"`
	Items       []string         `json:"items,omitempty"` // receipts only
}

// HasAmount reports whether an amount was extracted.
func (r Record) HasAmount() bool {
	return r.Amount != nil
}

// Empty reports whether none of amount, date or description were extracted.
func (r Record) Empty() bool {
	return r.Amount == nil && r.Date == "" && r.Description == ""
}

// Alternative is one speech recognition hypothesis for a single utterance.
type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"` // 0..1, 0 when the engine did not report one
}

// OCRText is the text block an OCR engine produced for one receipt image.
type OCRText struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0..100
}

// DateOrder selects how ambiguous numeric dates like 03/04/2024 are read.
type DateOrder string

const (
	// DateOrderAuto reads month first, except receipts that show a euro sign
	// or a dot separated date, which are read day first.
	DateOrderAuto       DateOrder = "auto"
	DateOrderMonthFirst DateOrder = "mdy"
	DateOrderDayFirst   DateOrder = "dmy"
)

// ParseDateOrder validates a DateOrder name. The empty string means auto.
func ParseDateOrder(s string) (DateOrder, error) {
	switch DateOrder(s) {
	case "", DateOrderAuto:
		return DateOrderAuto, nil
	case DateOrderMonthFirst, DateOrderDayFirst:
		return DateOrder(s), nil
	}
	return "", fmt.Errorf("invalid date order %q: want auto, mdy or dmy", s)
}

// Options tune the pipelines. The zero value is usable.
type Options struct {
	DateOrder DateOrder

	// Callers must not parse OCR output below these floors; ParseReceipt
	// enforces them. Zero means the defaults below.
	MinOCRConfidence float64
	MinOCRLength     int
}

const (
	DefaultMinOCRConfidence = 30
	DefaultMinOCRLength     = 10
)

func (o Options) minOCRConfidence() float64 {
	if o.MinOCRConfidence > 0 {
		return o.MinOCRConfidence
	}
	return DefaultMinOCRConfidence
}

func (o Options) minOCRLength() int {
	if o.MinOCRLength > 0 {
		return o.MinOCRLength
	}
	return DefaultMinOCRLength
}

// day truncates t to midnight in its own location.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
