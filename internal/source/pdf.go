package source

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// PDF pages render at a resolution comfortably above the 640px canvas.
const pdfRenderDPI = 150

// PDFSource screens a PDF document page by page.
type PDFSource struct {
	doc   *fitz.Document
	path  string
	pages int
}

func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &PDFSource{doc: doc, path: path, pages: doc.NumPage()}, nil
}

func (s *PDFSource) Count() int {
	return s.pages
}

func (s *PDFSource) Name(index int) string {
	return fmt.Sprintf("%s#page%d", s.path, index+1)
}

// Bytes renders one page to PNG. Each call opens its own document handle:
// fitz contexts are not safe for concurrent rendering.
func (s *PDFSource) Bytes(index int) ([]byte, error) {
	workerDoc, err := fitz.New(s.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index, pdfRenderDPI)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
