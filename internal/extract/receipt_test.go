package extract

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const coffeeReceipt = `STARBUCKS COFFEE
123 Main Street
Tel: 555-867-5309
03/12/2024 10:42 AM
2 Latte 9.00
Blueberry Muffin 3.25
Subtotal 12.25
Tax 0.98
TOTAL: $13.23
Thank you`

var _ = Describe("ParseReceipt", func() {
	var (
		ocr  OCRText
		opts Options
		rec  Record
		err  error
	)

	BeforeEach(func() {
		ocr = OCRText{Text: coffeeReceipt, Confidence: 87}
		opts = Options{}
	})

	JustBeforeEach(func() {
		rec, err = ParseReceipt(ocr, wednesday, opts)
	})

	When("the OCR text is a clean receipt", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("uses the labelled total", func() {
			Expect(rec.Amount.StringFixed(2)).To(Equal("13.23"))
		})

		It("reads the date", func() {
			Expect(rec.Date).To(Equal("2024-03-12"))
		})

		It("uses the merchant as description", func() {
			Expect(rec.Description).To(Equal("Starbucks coffee"))
		})

		It("lists the line items", func() {
			Expect(rec.Items).To(Equal([]string{"Latte", "Blueberry muffin"}))
		})

		It("has no quantity", func() {
			Expect(rec.Quantity).To(BeZero())
		})
	})

	When("the receipt prints a sub total before the total", func() {
		BeforeEach(func() {
			ocr.Text = "CAFE NERO\n03/12/2024\nLatte 4.50\nBagel 2.75\nSUB TOTAL 7.25\nVAT Amount 1.45\nTOTAL 8.70"
		})

		It("uses the total", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Amount.StringFixed(2)).To(Equal("8.70"))
		})
	})

	When("the OCR confidence is below the floor", func() {
		BeforeEach(func() {
			ocr.Confidence = 20
		})

		It("returns ErrReceiptUnreadable", func() {
			Expect(err).To(MatchError(ErrReceiptUnreadable))
		})
	})

	When("a custom confidence floor is configured", func() {
		BeforeEach(func() {
			ocr.Confidence = 20
			opts.MinOCRConfidence = 10
		})

		It("accepts the text", func() {
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("the OCR text is too short", func() {
		BeforeEach(func() {
			ocr.Text = "  $4.00  "
		})

		It("returns ErrReceiptUnreadable", func() {
			Expect(err).To(MatchError(ErrReceiptUnreadable))
		})
	})

	When("nothing can be extracted", func() {
		BeforeEach(func() {
			ocr.Text = "------------\n*****\n"
		})

		It("returns ErrReceiptUnreadable", func() {
			Expect(err).To(MatchError(ErrReceiptUnreadable))
		})
	})
})

var _ = Describe("ExtractReceiptDescription", func() {
	It("prefers a line with a business keyword", func() {
		desc, ok := ExtractReceiptDescription([]string{"Tel: 555 0100", "joe's cafe & grill", "TOTAL 4.00"})
		Expect(ok).To(BeTrue())
		Expect(desc).To(Equal("Joe's cafe & grill"))
	})

	It("rejects symbol heavy lines", func() {
		desc, ok := ExtractReceiptDescription([]string{"#!% Mart %$#!", "Fresh Foods"})
		Expect(ok).To(BeTrue())
		Expect(desc).To(Equal("Fresh foods"))
	})

	It("falls back to the first readable line", func() {
		desc, ok := ExtractReceiptDescription([]string{"*** 12 ***", "order 45 pickup"})
		Expect(ok).To(BeTrue())
		Expect(desc).To(Equal("Order 45 pickup"))
	})

	It("skips boilerplate entirely", func() {
		_, ok := ExtractReceiptDescription([]string{"RECEIPT", "12/03/2024", "www.example.com", "0.98"})
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("ExtractItems", func() {
	It("keeps at most five items", func() {
		lines := strings.Split("Apple 1.00\nBanana 2.00\nCherry 3.00\nDates 4.00\nEggs 5.00\nFlour 6.00\nGrapes 7.00", "\n")
		Expect(ExtractItems(lines)).To(Equal([]string{"Apple", "Banana", "Cherry", "Dates", "Eggs"}))
	})

	It("strips quantities and prices", func() {
		Expect(ExtractItems([]string{"Cappuccino x2 $3.50", "3 @ BAGEL 1.25"})).To(Equal([]string{"Cappuccino", "Bagel"}))
	})

	It("skips totals and lines without words or numbers", func() {
		Expect(ExtractItems([]string{"TOTAL 12.00", "Change 0.50", "Balance 3.00", "WELCOME", "12.00"})).To(BeEmpty())
	})
})
