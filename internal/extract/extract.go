// Package extract turns uploaded resume files into raw text, plus per-glyph
// font sizes for PDFs. Image-only PDFs fall back to OCR when an engine was
// detected at startup.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

var (
	// ErrUnsupportedFormat marks a file whose extension is neither .pdf nor .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtraction marks a container that could not be read at all.
	ErrExtraction = errors.New("extraction failed")
)

// Format is a supported document container.
type Format string

const (
	FormatPDF  Format = ".pdf"
	FormatDOCX Format = ".docx"
)

// FontSpan is one glyph run and the font size it was set in.
type FontSpan struct {
	Text string
	Size float64
}

// Extraction is the raw text of a document. Spans is only set for PDFs
// whose text layer was usable.
type Extraction struct {
	Text  string
	Spans []FontSpan
}

// FormatOf sniffs the container from the filename extension.
func FormatOf(filename string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Extractor reads PDF and DOCX files. It is safe for concurrent use.
type Extractor struct {
	ocr *OCR
	log zerolog.Logger
}

type Option func(*Extractor)

// WithOCR enables the image-only PDF fallback. A nil engine disables it.
func WithOCR(o *OCR) Option {
	return func(e *Extractor) { e.ocr = o }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

func New(opts ...Option) *Extractor {
	e := &Extractor{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OCREnabled reports whether the OCR fallback is wired.
func (e *Extractor) OCREnabled() bool { return e.ocr != nil }

// Extract returns the document text. An unknown extension yields an empty
// Extraction and ErrUnsupportedFormat; a container that cannot be opened and
// is not recovered by OCR yields ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (Extraction, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return Extraction{}, err
	}
	switch format {
	case FormatDOCX:
		text, err := readDOCX(data)
		if err != nil {
			return Extraction{}, fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		return Extraction{Text: text}, nil
	default:
		return e.extractPDF(ctx, filename, data)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, filename string, data []byte) (Extraction, error) {
	text, spans, readErr := readPDF(data)
	if readErr == nil && isMeaningful(text) {
		return Extraction{Text: text, Spans: spans}, nil
	}

	log := e.log.With().Str("file", filename).Logger()
	if readErr != nil {
		log.Warn().Err(readErr).Msg("pdf text layer unreadable")
	}
	if e.ocr == nil {
		if readErr != nil {
			return Extraction{}, fmt.Errorf("%w: %w", ErrExtraction, readErr)
		}
		log.Warn().Msg("image-based pdf and ocr unavailable, skipping text")
		return Extraction{}, nil
	}

	log.Warn().Msg("image-based pdf detected, using ocr")
	ocrText, err := e.ocr.Recognize(ctx, data)
	if err != nil {
		log.Warn().Err(err).Msg("ocr failed")
		ocrText = ""
	}
	if readErr != nil && strings.TrimSpace(ocrText) == "" {
		return Extraction{}, fmt.Errorf("%w: %w", ErrExtraction, readErr)
	}
	return Extraction{Text: ocrText}, nil
}

// isMeaningful rejects text layers that are empty or mostly noise.
func isMeaningful(text string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < 50 {
		return false
	}
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 20
}
