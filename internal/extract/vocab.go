package extract

// Pattern fragments shared by the extractors. The description extractor strips
// whatever the amount, date and quantity extractors are able to recognize, so
// they all build on the same vocabulary.
const (
	// number captures an amount with optional thousands separators and decimals.
	number = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`

	currencySymbol = `(?:₹|\$|€|£)`

	// currencyPrefix may appear before a number: "$20", "Rs. 50", "INR 300".
	currencyPrefix = `(?:₹|\$|€|£|\b(?:rs|inr|usd|eur|gbp)\b\.?)`

	// currencyWord may appear after a number: "50 rupees", "20 bucks".
	currencyWord = `(?:rupees?|rupaye|rs|inr|dollars?|bucks?|usd|euros?|eur|pounds?|quid|gbp)\b\.?`

	// currencySuffix is anything that may follow a number to mark it as money.
	currencySuffix = `(?:₹|\$|€|£|` + currencyWord + `)`

	weekday = `(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)`

	month = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`

	ordinal = `(?:st|nd|rd|th)?`

	// numericDate captures the three parts of 12/03/2024, 3-12-24 or 12.03.2024.
	numericDate = `\b(\d{1,4})[/\-.](\d{1,2})[/\-.](\d{2,4})\b`

	clockTime = `\b\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?\b`
)
