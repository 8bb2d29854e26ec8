package extract

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseTranscript", func() {
	It("parses a complete phrase", func() {
		rec := ParseTranscript("Paid 50 rupees for coffee today", wednesday, Options{})
		Expect(rec.Amount).NotTo(BeNil())
		Expect(rec.Amount.StringFixed(2)).To(Equal("50.00"))
		Expect(rec.Description).To(Equal("Coffee"))
		Expect(rec.Date).To(Equal("2024-03-13"))
		Expect(rec.Quantity).To(BeZero())
		Expect(rec.Items).To(BeEmpty())
	})

	It("parses amount, description and date", func() {
		rec := ParseTranscript("Pizza 200 rupees today", wednesday, Options{})
		Expect(rec.Amount.StringFixed(2)).To(Equal("200.00"))
		Expect(rec.Description).To(Equal("Pizza"))
		Expect(rec.Date).To(Equal("2024-03-13"))
	})

	It("parses quantity and a weekday", func() {
		rec := ParseTranscript("Movie tickets 300 rupees 2 quantity last Friday", wednesday, Options{})
		Expect(rec.Amount.StringFixed(2)).To(Equal("300.00"))
		Expect(rec.Quantity).To(Equal(2))
		Expect(rec.Description).To(Equal("Movie Tickets"))
		Expect(rec.Date).To(Equal("2024-03-08"))
	})

	It("honours a day first date order", func() {
		rec := ParseTranscript("groceries 40 euros on 03/04/2024", wednesday, Options{DateOrder: DateOrderDayFirst})
		Expect(rec.Date).To(Equal("2024-04-03"))
	})

	It("keeps a spoken amount out of the date", func() {
		rec := ParseTranscript("groceries march 5 1500 rupees", wednesday, Options{})
		Expect(rec.Amount).NotTo(BeNil())
		Expect(rec.Amount.StringFixed(2)).To(Equal("1500.00"))
		Expect(rec.Date).To(Equal("2024-03-05"))
	})

	It("leaves everything empty for noise", func() {
		rec := ParseTranscript("", wednesday, Options{})
		Expect(rec.Empty()).To(BeTrue())
		Expect(rec.Quantity).To(BeZero())
	})
})

var _ = Describe("Score", func() {
	It("weighs the fields", func() {
		amount, _ := ExtractAmount("50 rupees")
		Expect(Score(Record{})).To(BeZero())
		Expect(Score(Record{Amount: &amount})).To(Equal(4.0))
		Expect(Score(Record{Description: "Tea"})).To(Equal(3.0))
		Expect(Score(Record{Description: "Ab"})).To(BeZero())
		Expect(Score(Record{Amount: &amount, Description: "Tea", Date: "2024-03-13", Quantity: 2})).To(Equal(10.0))
	})
})

var _ = Describe("ParseAlternatives", func() {
	var (
		alts []Alternative
		rec  Record
		err  error
	)

	JustBeforeEach(func() {
		rec, err = ParseAlternatives(alts, wednesday, Options{})
	})

	When("one alternative clearly scores best", func() {
		BeforeEach(func() {
			alts = []Alternative{
				{Transcript: "pizza 200 rupees", Confidence: 0.9},
				{Transcript: "pizza 2 hundred rupees", Confidence: 0.4},
				{Transcript: "piece of 200", Confidence: 0.3},
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("uses the first alternative", func() {
			Expect(rec.Amount.StringFixed(2)).To(Equal("200.00"))
			Expect(rec.Description).To(Equal("Pizza"))
			Expect(rec.Date).To(BeEmpty())
			Expect(rec.Quantity).To(BeZero())
		})
	})

	When("an alternative has no reported confidence", func() {
		BeforeEach(func() {
			alts = []Alternative{
				{Transcript: "coffee", Confidence: 0.9},
				{Transcript: "coffee 60 rupees today", Confidence: 0},
			}
		})

		It("weights it at one half", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Amount.StringFixed(2)).To(Equal("60.00"))
			Expect(rec.Date).To(Equal("2024-03-13"))
		})
	})

	When("no alternative scores well", func() {
		BeforeEach(func() {
			alts = []Alternative{
				{Transcript: "coffee", Confidence: 0.2},
				{Transcript: "50 rupees", Confidence: 0.2},
				{Transcript: "yesterday 70 rupees", Confidence: 0.1},
			}
		})

		It("merges the first value of each field", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Description).To(Equal("Coffee"))
			Expect(rec.Amount.StringFixed(2)).To(Equal("50.00"))
			Expect(rec.Date).To(Equal("2024-03-12"))
		})
	})

	When("nothing useful was heard", func() {
		BeforeEach(func() {
			alts = []Alternative{
				{Transcript: "", Confidence: 0.8},
				{Transcript: "a", Confidence: 0.1},
			}
		})

		It("returns ErrRecognitionAmbiguous", func() {
			Expect(errors.Is(err, ErrRecognitionAmbiguous)).To(BeTrue())
		})
	})

	When("only a date was heard", func() {
		BeforeEach(func() {
			alts = []Alternative{{Transcript: "yesterday", Confidence: 0.9}}
		})

		It("returns ErrRecognitionAmbiguous", func() {
			Expect(err).To(MatchError(ErrRecognitionAmbiguous))
		})
	})

	When("there are no alternatives", func() {
		BeforeEach(func() {
			alts = nil
		})

		It("returns ErrRecognitionAmbiguous", func() {
			Expect(err).To(MatchError(ErrRecognitionAmbiguous))
		})
	})
})

var _ = Describe("UserMessage", func() {
	It("suggests an example phrase for ambiguous speech", func() {
		Expect(UserMessage(ErrRecognitionAmbiguous)).To(ContainSubstring(ExamplePhrase))
	})

	It("suggests manual entry for unreadable receipts", func() {
		Expect(UserMessage(ErrReceiptUnreadable)).To(ContainSubstring("manually"))
	})

	It("is empty for other errors", func() {
		Expect(UserMessage(errors.New("boom"))).To(BeEmpty())
	})
})
