package source

import "strings"

// Source provides the finite set of images a batch run screens. Bytes may be
// called concurrently from worker goroutines.
type Source interface {
	Count() int
	Name(index int) string
	Bytes(index int) ([]byte, error)
	Close() error
}

// Open picks a backend for the path: PDF documents are screened page by
// page, anything else is treated as an image file or a directory of them.
func Open(path string) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewPDFSource(path)
	}
	return NewImageSource(path)
}
