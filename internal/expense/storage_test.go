package expense

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(filepath.Join(tmpDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		It("writes the file and returns its name", func() {
			name, err := storage.Save("id_receipt.jpg", []byte("data"))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("id_receipt.jpg"))
			Expect(filepath.Join(tmpDir, "receipts", "id_receipt.jpg")).To(BeAnExistingFile())
		})

		DescribeTable("refuses names outside the directory",
			func(name string) {
				_, err := storage.Save(name, []byte("data"))
				Expect(err).To(MatchError(ErrInvalidInput))
			},
			Entry("parent traversal", "../escape.jpg"),
			Entry("nested path", "sub/file.jpg"),
			Entry("dot dot", ".."),
			Entry("empty", ""),
		)
	})

	Describe("Get", func() {
		It("reads a saved file", func() {
			_, err := storage.Save("a.png", []byte("png bytes"))
			Expect(err).NotTo(HaveOccurred())

			data, err := storage.Get("a.png")
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("png bytes")))
		})

		It("returns ErrNotFound for a missing file", func() {
			_, err := storage.Get("missing.png")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("Exists", func() {
		It("reports saved files", func() {
			_, err := storage.Save("a.png", []byte("x"))
			Expect(err).NotTo(HaveOccurred())
			Expect(storage.Exists("a.png")).To(BeTrue())
			Expect(storage.Exists("b.png")).To(BeFalse())
		})

		It("ignores directories and traversal", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, "receipts", "dir"), 0755)).To(Succeed())
			Expect(storage.Exists("dir")).To(BeFalse())
			Expect(storage.Exists("../receipts")).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("removes a saved file", func() {
			_, err := storage.Save("a.png", []byte("x"))
			Expect(err).NotTo(HaveOccurred())
			Expect(storage.Delete("a.png")).To(Succeed())
			Expect(filepath.Join(tmpDir, "receipts", "a.png")).NotTo(BeAnExistingFile())
		})

		It("returns ErrNotFound for a missing file", func() {
			Expect(storage.Delete("missing.png")).To(MatchError(ErrNotFound))
		})
	})
})
