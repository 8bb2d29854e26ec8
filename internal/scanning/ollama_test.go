package scanning

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/SyedHassanUddin/expense-flow/internal/extract"
)

var _ = Describe("Ollama", func() {
	var (
		server    *ghttp.Server
		scanner   *Ollama
		imageData []byte
		ocr       *extract.OCRText
		err       error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		scanner, err = NewOllama(server.URL()+"/", "llava")
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(png.Encode(&buf, sampleImage())).To(Succeed())
		imageData = buf.Bytes()
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		ocr, err = scanner.ScanText(context.Background(), imageData, "image/png")
	})

	When("the model answers", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					var req ollamaChatRequest
					Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
					Expect(req.Model).To(Equal("llava"))
					Expect(req.Format).To(Equal("json"))
					Expect(req.Messages).To(HaveLen(1))
					Expect(req.Messages[0].Images).To(HaveLen(1))
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{Role: "assistant", Content: `{"text": "BAKERY\nTOTAL 4.50", "confidence": 75}`},
					Done:    true,
				}),
			))
		})

		It("returns the transcription", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(ocr.Text).To(Equal("BAKERY\nTOTAL 4.50"))
			Expect(ocr.Confidence).To(Equal(75.0))
		})
	})

	When("the server returns an error", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not found"))
		})

		It("reports the status and body", func() {
			Expect(err).To(MatchError(ContainSubstring("status 500")))
			Expect(err).To(MatchError(ContainSubstring("model not found")))
		})
	})

	When("the image cannot be converted", func() {
		BeforeEach(func() {
			imageData = []byte("not an image")
		})

		It("fails before calling the server", func() {
			Expect(err).To(MatchError(ContainSubstring("unsupported image format")))
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})
})
