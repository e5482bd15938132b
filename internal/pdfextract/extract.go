package pdfextract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

// Extractor pulls plain text out of an uploaded document.
type Extractor interface {
	Extract(ctx context.Context, doc []byte) (string, error)
}

var pdfMagic = []byte("%PDF")

// ValidateDocument reports whether the bytes look like a PDF. Only the magic
// header is checked; deeper validation happens during extraction.
func ValidateDocument(doc []byte) bool {
	return len(doc) >= len(pdfMagic) && bytes.HasPrefix(doc, pdfMagic)
}

type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

func (e *PDFExtractor) Extract(ctx context.Context, doc []byte) (text string, err error) {
	const op = "PDFExtractor.Extract"

	// The underlying parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = utils.E(utils.CodeDocumentExtraction, op, "PDF parsing panicked", fmt.Errorf("%v", r))
		}
	}()

	if !ValidateDocument(doc) {
		return "", utils.E(utils.CodeDocumentInvalid, op, "document is not a valid PDF", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", utils.E(utils.CodeTimeout, op, "extraction cancelled", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", utils.E(utils.CodeDocumentExtraction, op, "failed to open PDF", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", utils.E(utils.CodeDocumentExtraction, op, "failed to extract text", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", utils.E(utils.CodeDocumentExtraction, op, "failed to read extracted text", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
