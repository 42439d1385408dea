package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/resumescreener/internal/export"
	"github.com/muhammadolammi/resumescreener/internal/ranker"
)

func TestRunRequiresJD(t *testing.T) {
	t.Setenv("NLP_ENABLED", "false")
	t.Setenv("OCR_ENABLED", "false")
	err := run([]string{"resume.pdf"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "--jd")
}

func TestRunNoResumes(t *testing.T) {
	t.Setenv("NLP_ENABLED", "false")
	t.Setenv("OCR_ENABLED", "false")
	dir := t.TempDir()
	jd := filepath.Join(dir, "jd.txt")
	require.NoError(t, os.WriteFile(jd, []byte("Python developer"), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{"--jd", jd}, &out))
	assert.Equal(t, "no results\n", out.String())
}

func TestRunUnsupportedOnly(t *testing.T) {
	t.Setenv("NLP_ENABLED", "false")
	t.Setenv("OCR_ENABLED", "false")
	dir := t.TempDir()
	jd := filepath.Join(dir, "jd.txt")
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(jd, []byte("Python developer"), 0o600))
	require.NoError(t, os.WriteFile(notes, []byte("Python"), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{"--jd", jd, "--out", filepath.Join(dir, "r.xlsx"), notes}, &out))
	assert.Equal(t, "no results\n", out.String())
	assert.NoFileExists(t, filepath.Join(dir, "r.xlsx"))
}

func TestPrintRows(t *testing.T) {
	var out bytes.Buffer
	printRows(&out, ranker.Rows([]ranker.Record{
		{Name: "Jane Doe", Email: "jane@example.com", Phone: "9876543210", Matched: []string{"python"}, Percentage: 75},
	}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Candidate"))
	assert.Contains(t, lines[1], "Jane Doe")
	assert.Contains(t, lines[1], "75.00")
}

func writeDOCX(t *testing.T, path string, paragraphs ...string) {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	body.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            body.String(),
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestRunWritesWorkbook(t *testing.T) {
	t.Setenv("NLP_ENABLED", "false")
	t.Setenv("OCR_ENABLED", "false")
	dir := t.TempDir()
	jd := filepath.Join(dir, "jd.txt")
	require.NoError(t, os.WriteFile(jd, []byte("Python developer with Docker"), 0o600))
	writeDOCX(t, filepath.Join(dir, "jane.docx"), "Jane Doe", "Python and Docker")
	writeDOCX(t, filepath.Join(dir, "ravi.docx"), "Ravi Iyer", "Welding")
	xlsx := filepath.Join(dir, "results.xlsx")

	var out bytes.Buffer
	require.NoError(t, run([]string{"--jd", jd, "--role", "Backend", "--out", xlsx, "--workers", "2",
		filepath.Join(dir, "ravi.docx"), filepath.Join(dir, "jane.docx")}, &out))
	assert.Contains(t, out.String(), "wrote 2 candidates")

	data, err := os.ReadFile(xlsx)
	require.NoError(t, err)
	rows, err := export.ReadResults(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Jane Doe", rows[0].Candidate)
	assert.Equal(t, "Ravi Iyer", rows[1].Candidate)
	assert.Equal(t, "docker, python", rows[0].MatchedSkills)
}
