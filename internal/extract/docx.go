package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// readDOCX returns the non-empty paragraphs of the main document part in
// order, joined by newlines.
func readDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	paragraphs, err := paragraphs(doc.Editable().GetContent())
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

// paragraphs walks WordprocessingML and collects the text of each <w:p>.
// Paragraphs nested in text boxes are emitted on their own, before the
// paragraph that contains them.
func paragraphs(content string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var (
		out    []string
		open   []*strings.Builder
		inText bool
	)
	write := func(s string) {
		if n := len(open); n > 0 {
			open[n-1].WriteString(s)
		}
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				write("\t")
			case "br", "cr":
				write("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				n := len(open)
				if n == 0 {
					continue
				}
				if p := open[n-1].String(); strings.TrimSpace(p) != "" {
					out = append(out, p)
				}
				open = open[:n-1]
			}
		case xml.CharData:
			if inText {
				write(string(t))
			}
		}
	}
	return out, nil
}
