// Package pdfinfo reads structural facts from PDF files with pdfcpu.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrUnreadable indicates pdfcpu could not parse the document.
var ErrUnreadable = errors.New("unreadable PDF")

// PageCountFile returns the page count of the PDF at path.
func PageCountFile(path string) (int, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return ctx.PageCount, nil
}

// PageCount returns the page count of an in-memory PDF.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return n, nil
}
