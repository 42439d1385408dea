package extract

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// readPDF returns the page texts joined by newlines and every glyph that
// carries a font size. A page that panics or errors contributes nothing.
func readPDF(data []byte) (text string, spans []FontSpan, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		pageText, pageSpans := readPage(reader.Page(i))
		if pageText != "" {
			b.WriteString(pageText)
			b.WriteString("\n")
		}
		spans = append(spans, pageSpans...)
	}
	return b.String(), spans, nil
}

// readPage lays the positioned glyphs out into lines. Pages whose content
// stream cannot be interpreted fall back to the library's plain text.
func readPage(page pdf.Page) (text string, spans []FontSpan) {
	if page.V.IsNull() {
		return "", nil
	}

	glyphs := pageGlyphs(page)
	for _, g := range glyphs {
		if g.S == "" || g.FontSize <= 0 {
			continue
		}
		spans = append(spans, FontSpan{Text: g.S, Size: g.FontSize})
	}
	if text = layoutLines(glyphs); text != "" {
		return text, spans
	}

	plain, err := page.GetPlainText(nil)
	if err != nil {
		return "", spans
	}
	return strings.TrimSpace(plain), spans
}

func pageGlyphs(page pdf.Page) (glyphs []pdf.Text) {
	defer func() {
		if recover() != nil {
			glyphs = nil
		}
	}()
	return page.Content().Text
}

type textLine struct {
	y      float64
	glyphs []pdf.Text
}

// layoutLines groups glyphs by baseline, top of the page first, and orders
// each line left to right.
func layoutLines(glyphs []pdf.Text) string {
	sorted := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var lines []*textLine
	for _, g := range sorted {
		if n := len(lines); n > 0 && lines[n-1].y-g.Y <= lineTolerance(g.FontSize) {
			lines[n-1].glyphs = append(lines[n-1].glyphs, g)
			continue
		}
		lines = append(lines, &textLine{y: g.Y, glyphs: []pdf.Text{g}})
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		sort.SliceStable(l.glyphs, func(i, j int) bool { return l.glyphs[i].X < l.glyphs[j].X })
		if s := strings.TrimSpace(joinLine(l.glyphs)); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

func lineTolerance(size float64) float64 {
	return math.Max(1, size*0.4)
}

// joinLine concatenates the glyphs of one line, inserting a space where the
// gap to the previous glyph is wider than a fraction of the font size.
func joinLine(glyphs []pdf.Text) string {
	var b strings.Builder
	var prevEnd float64
	lastSpace := true
	for i, g := range glyphs {
		first, _ := utf8.DecodeRuneInString(g.S)
		if i > 0 && !lastSpace && !unicode.IsSpace(first) && g.X-prevEnd > g.FontSize*0.15 {
			b.WriteByte(' ')
		}
		b.WriteString(g.S)
		last, _ := utf8.DecodeLastRuneInString(g.S)
		lastSpace = unicode.IsSpace(last)
		prevEnd = g.X + g.W
	}
	return b.String()
}
