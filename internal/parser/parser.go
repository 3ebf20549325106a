package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
)

// ErrParseFailure marks a document the reader could not open or decode.
var ErrParseFailure = errors.New("parse failure")

// Parser converts raw document bytes into a paged Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// Loader resolves a document path into a parsed Document.
type Loader interface {
	Load(ctx context.Context, path string) (*doctree.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".csv":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// FileLoader reads documents from the local filesystem.
type FileLoader struct {
	FallbackPdfcpu bool
}

// CacheVariant names the extraction mode. Documents parsed under different
// modes differ, so cached results must not be shared between them.
func (l *FileLoader) CacheVariant() string {
	if l.FallbackPdfcpu {
		return "fonts+pdfcpu"
	}
	return "fonts"
}

func (l *FileLoader) Load(ctx context.Context, path string) (*doctree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	p, err := ForFile(name)
	if err != nil {
		return nil, err
	}
	if pp, ok := p.(*PDFParser); ok {
		pp.FallbackPdfcpu = l.FallbackPdfcpu
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	doc, err := p.Parse(f, name)
	if err != nil {
		return nil, err
	}
	doc.Name = name
	return doc, nil
}
