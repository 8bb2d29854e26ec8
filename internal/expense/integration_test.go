package expense_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/SyedHassanUddin/expense-flow/internal/expense"
	"github.com/SyedHassanUddin/expense-flow/internal/extract"
)

type stubScanner struct {
	text string
}

func (s *stubScanner) ScanText(context.Context, []byte, string) (*extract.OCRText, error) {
	return &extract.OCRText{Text: s.text, Confidence: 92}, nil
}

func (s *stubScanner) Close() error {
	return nil
}

var _ = Describe("Receipt to ledger", func() {
	var (
		storagePath string
		db          *expense.BoltDB
		ghServer    *ghttp.Server
	)

	BeforeEach(func() {
		tempDir := GinkgoT().TempDir()
		storagePath = filepath.Join(tempDir, "receipts")

		var err error
		db, err = expense.NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		store, err := expense.NewLocalStorage(storagePath)
		Expect(err).NotTo(HaveOccurred())

		scanner := &stubScanner{text: "FRESH MART\n12 Market Road\nTOTAL Rs 1,250.00\nThank you"}
		service := expense.NewService(db, scanner, store, extract.Options{})
		server := expense.NewServer(service, expense.BasicAuth{})

		ghServer = ghttp.NewServer()
		ghServer.SetAllowUnhandledRequests(false)
		ghServer.RouteToHandler("POST", "/api/capture/receipt", server.ServeHTTP)
		ghServer.RouteToHandler("POST", "/api/expenses", server.ServeHTTP)
		ghServer.RouteToHandler("GET", "/api/summary", server.ServeHTTP)
		DeferCleanup(ghServer.Close)
	})

	uploadReceipt := func() expense.ReceiptDraft {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "fresh-mart.png")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp, err := http.Post(ghServer.URL()+"/api/capture/receipt", writer.FormDataContentType(), &body)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		var draft expense.ReceiptDraft
		Expect(json.NewDecoder(resp.Body).Decode(&draft)).To(Succeed())
		return draft
	}

	postJSON := func(path string, v any) *http.Response {
		data, err := json.Marshal(v)
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.Post(ghServer.URL()+path, "application/json", bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(resp.Body.Close)
		return resp
	}

	It("scans a receipt, confirms it as an expense and reports it in the summary", func() {
		draft := uploadReceipt()
		Expect(draft.Record.Amount.StringFixed(2)).To(Equal("1250.00"))
		Expect(draft.Record.Description).To(Equal("Fresh mart"))
		Expect(filepath.Join(storagePath, draft.Filename)).To(BeAnExistingFile())

		resp := postJSON("/api/expenses", map[string]any{
			"description":  draft.Record.Description,
			"category":     "groceries",
			"amount":       draft.Record.Amount,
			"date":         "2024-03-10",
			"source":       "receipt",
			"filename":     draft.Filename,
			"content_type": draft.ContentType,
		})
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		var created expense.Expense
		Expect(json.NewDecoder(resp.Body).Decode(&created)).To(Succeed())
		Expect(created.Amount).To(Equal(int64(125000)))
		Expect(created.ContentType).To(Equal("image/png"))

		stored, err := db.GetExpense(created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Filename).To(Equal(draft.Filename))

		summaryResp, err := http.Get(ghServer.URL() + "/api/summary?month=2024-03")
		Expect(err).NotTo(HaveOccurred())
		defer summaryResp.Body.Close()
		raw, err := io.ReadAll(summaryResp.Body)
		Expect(err).NotTo(HaveOccurred())

		var summary expense.Summary
		Expect(json.Unmarshal(raw, &summary)).To(Succeed())
		Expect(summary.Expenses).To(Equal(int64(125000)))
		Expect(summary.Categories).To(ConsistOf(expense.CategorySummary{Category: "Groceries", Spent: 125000}))
	})
})
