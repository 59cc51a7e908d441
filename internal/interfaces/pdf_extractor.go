package interfaces

import "context"

// PDFPageContent represents extracted content from a single PDF page
type PDFPageContent struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// PDFExtractor defines the interface for extracting text from PDF documents.
// This abstracts the PDF extraction implementation, allowing different
// backends (pdfcpu, Apache Tika, etc.) to be used interchangeably.
type PDFExtractor interface {
	// ExtractPages extracts text content by page from raw PDF bytes.
	// Pages without extractable text come back with empty Text so page
	// numbering stays aligned with the source document.
	ExtractPages(ctx context.Context, content []byte) ([]PDFPageContent, error)

	// ExtractText extracts all text content concatenated from all pages.
	ExtractText(ctx context.Context, content []byte) (string, error)
}
