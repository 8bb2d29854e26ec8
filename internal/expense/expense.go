package expense

import (
	"errors"
	"time"

	"github.com/SyedHassanUddin/expense-flow/internal/extract"
)

// Date layouts used for stored records and summary periods
const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

var (
	// ErrNotFound is returned when an expense, budget or file does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput wraps every validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrScannerUnavailable is returned when image capture is used without an OCR provider
	ErrScannerUnavailable = errors.New("receipt scanner is not configured")
	// ErrScanFailed wraps OCR provider failures
	ErrScanFailed = errors.New("scanning receipt failed")
)

// Kind separates money going out from money coming in
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Source records how an expense was captured
type Source string

const (
	SourceManual  Source = "manual"
	SourceVoice   Source = "voice"
	SourceReceipt Source = "receipt"
)

// Expense is a stored ledger entry
type Expense struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"` // Amount in cents
	Quantity    int       `json:"quantity"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Source      Source    `json:"source"`
	Filename    string    `json:"filename,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Budget is a monthly spending limit for one category
type Budget struct {
	Category     string    `json:"category"`
	MonthlyLimit int64     `json:"monthly_limit"` // Amount in cents
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategorySummary is the spending of one category within a month
type CategorySummary struct {
	Category   string `json:"category"`
	Spent      int64  `json:"spent"`
	Limit      int64  `json:"limit,omitempty"`
	Remaining  int64  `json:"remaining,omitempty"`
	OverBudget bool   `json:"over_budget"`
}

// Summary totals one calendar month. All amounts are in cents.
type Summary struct {
	Month      string            `json:"month"`
	Income     int64             `json:"income"`
	Expenses   int64             `json:"expenses"`
	Net        int64             `json:"net"`
	Categories []CategorySummary `json:"categories"`
}

// ReceiptDraft is the result of scanning a receipt image. The image stays in
// storage under Filename so the confirmed expense can reference it.
type ReceiptDraft struct {
	Record      extract.Record `json:"record"`
	Text        string         `json:"text"`
	Confidence  float64        `json:"confidence"`
	Filename    string         `json:"filename"`
	ContentType string         `json:"content_type"`
}
