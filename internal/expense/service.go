package expense

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/SyedHassanUddin/expense-flow/internal/extract"
	"github.com/SyedHassanUddin/expense-flow/internal/scanning"
)

const (
	defaultCategory = "Uncategorized"
	maxQuantity     = 100
)

var maxAmount = decimal.NewFromInt(100000)

// IDGenerator generates unique IDs for expenses and stored files
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Service runs the capture pipelines and manages the ledger
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	opts        extract.Options
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with UUIDs and the system clock. scanner may
// be nil, image capture then fails with ErrScannerUnavailable.
func NewService(db DB, scanner scanning.Scanner, storage Storage, opts extract.Options) *Service {
	return NewServiceWithDeps(db, scanner, storage, opts, uuidGenerator{}, systemClock{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, opts extract.Options, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		opts:        opts,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// CaptureVoice picks the best reading among speech alternatives
func (s *Service) CaptureVoice(ctx context.Context, alts []extract.Alternative) (*extract.Record, error) {
	rec, err := extract.ParseAlternatives(alts, s.timeSource.Now(), s.opts)
	if err != nil {
		slog.InfoContext(ctx, "Voice capture not understood", "alternatives", len(alts))
		return nil, fmt.Errorf("parsing voice capture: %w", err)
	}
	slog.DebugContext(ctx, "Voice capture parsed", "alternatives", len(alts), "score", extract.Score(rec))
	return &rec, nil
}

// CaptureReceiptText parses OCR output produced on the client
func (s *Service) CaptureReceiptText(ctx context.Context, ocr extract.OCRText) (*extract.Record, error) {
	rec, err := extract.ParseReceipt(ocr, s.timeSource.Now(), s.opts)
	if err != nil {
		slog.InfoContext(ctx, "Receipt text not readable", "confidence", ocr.Confidence, "length", len(ocr.Text))
		return nil, fmt.Errorf("parsing receipt text: %w", err)
	}
	return &rec, nil
}

var (
	filenameJunkRe  = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaceRe = regexp.MustCompile(`\s+`)
	filenameExtRe   = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)
)

// sanitizeFilename shortens phone-generated names and drops anything unsafe
func sanitizeFilename(filename string) string {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	if filenameExtRe.MatchString(ext) {
		base = base[:len(base)-len(ext)]
	} else {
		ext = ""
	}

	base = filenameJunkRe.ReplaceAllString(base, "")
	base = strings.TrimSpace(filenameSpaceRe.ReplaceAllString(base, " "))
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ScanReceipt stores a receipt image, reads it with the configured scanner
// and parses the text. The image is removed again if no draft comes of it.
func (s *Service) ScanReceipt(ctx context.Context, filename string, data []byte, contentType string) (*ReceiptDraft, error) {
	if s.scanner == nil {
		return nil, ErrScannerUnavailable
	}

	name := fmt.Sprintf("%s_%s", s.idGenerator.Generate(), sanitizeFilename(filename))
	saved, err := s.storage.Save(name, data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	discard := func() {
		if err := s.storage.Delete(saved); err != nil {
			slog.WarnContext(ctx, "Failed to delete file", "filename", saved, "error", err)
		}
	}

	ocr, err := s.scanner.ScanText(ctx, data, contentType)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		discard()
		return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}

	rec, err := extract.ParseReceipt(*ocr, s.timeSource.Now(), s.opts)
	if err != nil {
		slog.InfoContext(ctx, "Scanned receipt not readable", "filename", filename, "confidence", ocr.Confidence)
		discard()
		return nil, fmt.Errorf("parsing scanned receipt: %w", err)
	}

	return &ReceiptDraft{
		Record:      rec,
		Text:        ocr.Text,
		Confidence:  ocr.Confidence,
		Filename:    saved,
		ContentType: contentType,
	}, nil
}

// Input is a confirmed expense as entered or reviewed by the user. Amount is
// in major currency units.
type Input struct {
	Kind        Kind            `json:"kind"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    int             `json:"quantity"`
	Date        string          `json:"date"`
	Source      Source          `json:"source"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"content_type"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// normalizeCategory collapses whitespace and title-cases, so "eating  out"
// and "Eating Out" share a budget
func normalizeCategory(category string) string {
	category = strings.Join(strings.Fields(category), " ")
	if category == "" {
		return defaultCategory
	}
	return cases.Title(language.English).String(category)
}

// toCents converts a major-unit amount to whole cents, rounding half away from zero
func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func (s *Service) newExpense(in Input) (*Expense, error) {
	now := s.timeSource.Now()

	if !in.Amount.IsPositive() || !in.Amount.LessThan(maxAmount) {
		return nil, invalid("amount must be between 0 and %s", maxAmount)
	}
	description := strings.Join(strings.Fields(in.Description), " ")
	if description == "" {
		return nil, invalid("description is required")
	}

	kind := cmp.Or(in.Kind, KindExpense)
	if kind != KindExpense && kind != KindIncome {
		return nil, invalid("kind must be %q or %q", KindExpense, KindIncome)
	}
	source := cmp.Or(in.Source, SourceManual)
	if source != SourceManual && source != SourceVoice && source != SourceReceipt {
		return nil, invalid("unknown source %q", in.Source)
	}

	date := in.Date
	if date == "" {
		date = now.Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, invalid("date %q is not YYYY-MM-DD", date)
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > maxQuantity {
		return nil, invalid("quantity must be between 1 and %d", maxQuantity)
	}

	expense := &Expense{
		ID:          s.idGenerator.Generate(),
		Kind:        kind,
		Description: description,
		Category:    normalizeCategory(in.Category),
		Amount:      toCents(in.Amount),
		Quantity:    quantity,
		Date:        date,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.Filename != "" {
		if !s.storage.Exists(in.Filename) {
			return nil, invalid("unknown receipt file %q", in.Filename)
		}
		expense.Filename = in.Filename
		expense.ContentType = in.ContentType
		if expense.ContentType == "" {
			expense.ContentType = cmp.Or(mime.TypeByExtension(filepath.Ext(in.Filename)), "application/octet-stream")
		}
	}

	return expense, nil
}

// CreateExpense validates and stores a confirmed expense
func (s *Service) CreateExpense(ctx context.Context, in Input) (*Expense, error) {
	expense, err := s.newExpense(in)
	if err != nil {
		return nil, err
	}
	if err := s.db.SaveExpense(expense); err != nil {
		return nil, fmt.Errorf("saving expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense created", "id", expense.ID, "kind", expense.Kind, "source", expense.Source, "amount", expense.Amount)
	return expense, nil
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(id string) (*Expense, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return expense, nil
}

func parseMonth(month string) (string, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", invalid("month %q is not YYYY-MM", month)
	}
	return t.Format(monthLayout), nil
}

// ListExpenses returns expenses newest first. A non-empty month (YYYY-MM)
// restricts the list to that month.
func (s *Service) ListExpenses(month string) ([]*Expense, error) {
	if month != "" {
		var err error
		if month, err = parseMonth(month); err != nil {
			return nil, err
		}
	}

	all, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	expenses := make([]*Expense, 0, len(all))
	for _, e := range all {
		if month == "" || strings.HasPrefix(e.Date, month+"-") {
			expenses = append(expenses, e)
		}
	}
	slices.SortStableFunc(expenses, func(a, b *Expense) int {
		return cmp.Or(
			strings.Compare(b.Date, a.Date),
			b.CreatedAt.Compare(a.CreatedAt),
		)
	})
	return expenses, nil
}

// DeleteExpense removes an expense and its receipt image
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return fmt.Errorf("getting expense for deletion: %w", err)
	}

	if expense.Filename != "" {
		if err := s.storage.Delete(expense.Filename); err != nil {
			// The ledger entry still goes
			slog.WarnContext(ctx, "Failed to delete file", "filename", expense.Filename, "error", err)
		}
	}

	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense from database: %w", err)
	}
	return nil
}

// GetExpenseFile returns the receipt image attached to an expense
func (s *Service) GetExpenseFile(id string) ([]byte, string, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense: %w", err)
	}
	if expense.Filename == "" {
		return nil, "", fmt.Errorf("expense %s has no receipt file: %w", id, ErrNotFound)
	}

	data, err := s.storage.Get(expense.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense file: %w", err)
	}
	return data, expense.ContentType, nil
}

// SetBudget creates or replaces the monthly limit for a category
func (s *Service) SetBudget(category string, limit decimal.Decimal) (*Budget, error) {
	if strings.TrimSpace(category) == "" {
		return nil, invalid("category is required")
	}
	if !limit.IsPositive() {
		return nil, invalid("monthly limit must be positive")
	}

	now := s.timeSource.Now()
	budget := &Budget{
		Category:     normalizeCategory(category),
		MonthlyLimit: toCents(limit),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	existing, err := s.db.GetBudget(budget.Category)
	switch {
	case err == nil:
		budget.CreatedAt = existing.CreatedAt
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("getting budget: %w", err)
	}

	if err := s.db.SaveBudget(budget); err != nil {
		return nil, fmt.Errorf("saving budget: %w", err)
	}
	return budget, nil
}

// ListBudgets returns all budgets ordered by category
func (s *Service) ListBudgets() ([]*Budget, error) {
	budgets, err := s.db.ListBudgets()
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	slices.SortFunc(budgets, func(a, b *Budget) int {
		return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	})
	return budgets, nil
}

// DeleteBudget removes the limit for a category
func (s *Service) DeleteBudget(category string) error {
	if err := s.db.DeleteBudget(normalizeCategory(category)); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	return nil
}

// MonthlySummary totals income and spending for a month (YYYY-MM, empty for
// the current month) and compares spending per category against budgets.
// Categories are ordered by amount spent, largest first.
func (s *Service) MonthlySummary(month string) (*Summary, error) {
	if month == "" {
		month = s.timeSource.Now().Format(monthLayout)
	}
	month, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ListExpenses(month)
	if err != nil {
		return nil, err
	}
	budgets, err := s.ListBudgets()
	if err != nil {
		return nil, err
	}

	summary := &Summary{Month: month, Categories: []CategorySummary{}}
	byKey := make(map[string]*CategorySummary)
	category := func(name string) *CategorySummary {
		key := strings.ToLower(name)
		if c, ok := byKey[key]; ok {
			return c
		}
		c := &CategorySummary{Category: name}
		byKey[key] = c
		return c
	}

	for _, e := range expenses {
		if e.Kind == KindIncome {
			summary.Income += e.Amount
			continue
		}
		summary.Expenses += e.Amount
		category(e.Category).Spent += e.Amount
	}
	for _, b := range budgets {
		c := category(b.Category)
		c.Limit = b.MonthlyLimit
		c.Remaining = b.MonthlyLimit - c.Spent
		c.OverBudget = c.Spent > b.MonthlyLimit
	}
	summary.Net = summary.Income - summary.Expenses

	for _, c := range byKey {
		summary.Categories = append(summary.Categories, *c)
	}
	slices.SortFunc(summary.Categories, func(a, b CategorySummary) int {
		return cmp.Or(
			cmp.Compare(b.Spent, a.Spent),
			strings.Compare(a.Category, b.Category),
		)
	})
	return summary, nil
}
