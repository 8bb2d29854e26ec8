package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// transcribePrompt is shared by all vision providers. The parsing of amounts,
// dates and merchants happens locally, so the model only has to read.
const transcribePrompt = `You are an OCR engine. Transcribe every piece of text printed on this receipt or invoice.

Rules:
- Keep the original line breaks: one printed line per output line, top to bottom.
- Copy numbers, currency symbols, dates and punctuation exactly as printed. Do not compute or correct anything.
- Do not translate, summarize or add commentary.
- Estimate how legible the receipt was as a confidence between 0 and 100.

Return ONLY valid JSON in this exact format:
{
  "text": "LINE 1\nLINE 2\n...",
  "confidence": 0
}

Do not use markdown code blocks.`

// Upload formats that need special handling. PNG is only trusted by its
// signature, everything else goes through image.Decode.
const (
	formatPNG   = "png"
	formatPDF   = "pdf"
	formatHEIC  = "heic"
	formatOther = "other"
)

// detectFormat prefers magic bytes over the declared content type, phones
// often upload HEIC photos labelled as JPEG
func detectFormat(data []byte, contentType string) string {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return formatPDF
	case len(data) >= 12 && string(data[4:8]) == "ftyp":
		switch string(data[8:12]) {
		case "heic", "heix", "heif", "mif1", "msf1":
			return formatHEIC
		}
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return formatPNG
	}

	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case mimeType == "application/pdf":
		return formatPDF
	case strings.Contains(mimeType, "heic"), strings.Contains(mimeType, "heif"):
		return formatHEIC
	}
	return formatOther
}

// toPNG renders any supported upload as a PNG, the one format every
// provider accepts. PDFs are rendered from their first page.
func toPNG(data []byte, contentType string) ([]byte, error) {
	var (
		img image.Image
		err error
	)

	switch detectFormat(data, contentType) {
	case formatPNG:
		return data, nil
	case formatPDF:
		img, err = renderFirstPage(data)
	case formatHEIC:
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("decoding HEIC image: %w", err)
		}
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("unsupported image format (want JPEG, PNG, GIF, HEIC or PDF): %w", err)
		}
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func renderFirstPage(pdfData []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}
	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}
