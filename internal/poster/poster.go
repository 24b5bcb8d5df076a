// Package poster drives the poster flow: the template catalog, the backend
// render request, and the cached download of the finished PDF.
package poster

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ledongthuc/pdf"

	"github.com/postrai/postr/internal/api"
)

// Poster is a rendered poster ready for viewing.
type Poster struct {
	ID       string
	PDFURL   string
	Template Template
}

// Download is a poster PDF fetched to local disk.
type Download struct {
	Path  string
	Pages int
}

// Renderer is the slice of the transport client the poster flow needs.
type Renderer interface {
	GeneratePoster(ctx context.Context, userID, templateID string, documentIDs []string) (*api.GeneratePosterResponse, error)
}

// Generate asks the backend to render a poster from the selected papers.
func Generate(ctx context.Context, backend Renderer, userID, templateID string, documentIDs []string) (*Poster, error) {
	tpl, ok := TemplateByID(templateID)
	if !ok {
		return nil, fmt.Errorf("unknown template %q", templateID)
	}
	if len(documentIDs) == 0 {
		return nil, fmt.Errorf("select at least one paper before generating a poster")
	}

	resp, err := backend.GeneratePoster(ctx, userID, templateID, documentIDs)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("poster generation failed: %s", resp.Message)
	}
	return &Poster{ID: resp.PosterID, PDFURL: resp.PDFURL, Template: tpl}, nil
}

// Fetch downloads the poster PDF through the file cache and verifies that the
// result actually opens as a PDF, reporting its page count.
func Fetch(ctx context.Context, client *http.Client, pdfURL string) (*Download, error) {
	cache, err := newFileCache(client)
	if err != nil {
		return nil, err
	}
	path, err := cache.Fetch(ctx, pdfURL)
	if err != nil {
		return nil, err
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("downloaded poster is not a readable PDF: %w", err)
	}
	defer file.Close()

	return &Download{Path: path, Pages: reader.NumPage()}, nil
}
