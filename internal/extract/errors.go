package extract

import "errors"

var (
	// ErrRecognitionAmbiguous means no speech alternative, nor a field-wise
	// combination of them, produced an amount or a description.
	ErrRecognitionAmbiguous = errors.New("recognition ambiguous")

	// ErrReceiptUnreadable means the OCR output was below the confidence or
	// length floor, or nothing useful could be extracted from it.
	ErrReceiptUnreadable = errors.New("receipt unreadable")
)

// ExamplePhrase is shown to users when a voice capture has to be repeated.
const ExamplePhrase = "Paid 50 rupees for coffee today"

// UserMessage returns the text shown to a user for a pipeline failure, or the
// empty string if err is not one.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrRecognitionAmbiguous):
		return `Sorry, I couldn't understand that. Please retry and speak more clearly, for example: "` + ExamplePhrase + `".`
	case errors.Is(err, ErrReceiptUnreadable):
		return "Could not extract receipt data. Try a clearer image or enter the expense manually."
	}
	return ""
}
