package scanning

import (
	"context"

	"github.com/SyedHassanUddin/expense-flow/internal/extract"
)

// Scanner reads the printed text off a receipt image or PDF
type Scanner interface {
	// ScanText transcribes the receipt and reports a 0-100 confidence
	ScanText(ctx context.Context, imageData []byte, contentType string) (*extract.OCRText, error)
	// Close closes the scanner and releases resources
	Close() error
}
