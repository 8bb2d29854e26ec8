package scanning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SyedHassanUddin/expense-flow/internal/extract"
)

// Used when the model returns text without a confidence estimate
const defaultConfidence = 50.0

type ocrResponse struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// parseOCRResponse turns a model reply into OCR text. Replies that carry no
// JSON object at all are taken as the transcription itself.
func parseOCRResponse(reply string) (*extract.OCRText, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("empty response")
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end < start {
		return &extract.OCRText{Text: normalizeLines(reply), Confidence: defaultConfidence}, nil
	}

	var resp ocrResponse
	if err := json.Unmarshal([]byte(reply[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	text := normalizeLines(resp.Text)
	if text == "" {
		return nil, fmt.Errorf("no text found on receipt")
	}

	confidence := defaultConfidence
	if resp.Confidence != nil {
		confidence = *resp.Confidence
		// Some models answer on a 0-1 scale
		if confidence > 0 && confidence <= 1 {
			confidence *= 100
		}
		confidence = min(max(confidence, 0), 100)
	}

	return &extract.OCRText{Text: text, Confidence: confidence}, nil
}

// normalizeLines unifies line endings and drops blank lines
func normalizeLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
