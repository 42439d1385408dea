package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/resumescreener/internal/config"
	"github.com/muhammadolammi/resumescreener/internal/ranker"
)

func docx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	body.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string][]byte{
		"word/document.xml":            body.Bytes(),
		"word/_rels/document.xml.rels": []byte(`<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`),
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestBuildWithoutOptionalCapabilities(t *testing.T) {
	cfg, err := config.FromEnv(func(k string) (string, bool) {
		switch k {
		case "NLP_ENABLED", "OCR_ENABLED":
			return "false", true
		}
		return "", false
	})
	require.NoError(t, err)

	analyzer, caps, err := Build(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Capabilities{}, caps)

	recs, err := analyzer.Analyze(context.Background(), []ranker.Document{
		{Filename: "jane.docx", Data: docx(t, "Jane Doe", "jane.doe@example.com", "Python and Docker engineer")},
		{Filename: "notes.txt", Data: []byte("Python")},
	}, "Looking for a Python engineer who knows Docker and Kubernetes")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Jane Doe", recs[0].Name)
	assert.Equal(t, "jane.doe@example.com", recs[0].Email)
	assert.Subset(t, recs[0].Matched, []string{"python", "docker"})
	assert.Contains(t, recs[0].Missing, "kubernetes")
}
