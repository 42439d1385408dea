package extract_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/resumescreener/internal/extract"
	"github.com/muhammadolammi/resumescreener/internal/identity"
)

// resumeStream positions lines with Td and T*, the way most generators do.
const resumeStream = `BT /F1 24 Tf 72 720 Td (Jane Doe) Tj ET
BT /F1 10 Tf 72 690 Td (Skills: Python) Tj 0 -14 Td (Docker and Kubernetes engineer) Tj ET
BT /F1 10 Tf 72 662 Td (Built services in) Tj 160 0 Td (Go) Tj ET
BT /F1 10 Tf 14 TL 72 640 Td (Remote) Tj T* (Bangalore) Tj ET`

// buildPDF writes a single-page PDF with one Helvetica font and the given
// content stream.
func buildPDF(t *testing.T, content string) []byte {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

func TestExtractPDFLines(t *testing.T) {
	got, err := extract.New().Extract(context.Background(), "jane.pdf", buildPDF(t, resumeStream))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(got.Text), "\n")
	assert.Equal(t, []string{
		"Jane Doe",
		"Skills: Python",
		"Docker and Kubernetes engineer",
		"Built services in Go",
		"Remote",
		"Bangalore",
	}, lines)
}

func TestExtractPDFFontSpans(t *testing.T) {
	got, err := extract.New().Extract(context.Background(), "jane.pdf", buildPDF(t, resumeStream))
	require.NoError(t, err)
	require.NotEmpty(t, got.Spans)

	sizes := map[float64]bool{}
	for _, s := range got.Spans {
		sizes[s.Size] = true
	}
	assert.True(t, sizes[24], "name size")
	assert.True(t, sizes[10], "body size")
	assert.Equal(t, "J", got.Spans[0].Text)

	name, ok := identity.ByFont(context.Background(), identity.Source{Text: got.Text, Spans: got.Spans})
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)

	name, ok = identity.ByPosition(context.Background(), identity.Source{Text: got.Text})
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
}
