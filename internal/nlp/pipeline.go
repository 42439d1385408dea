// Package nlp is the optional linguistic pipeline: tokenization, part of
// speech tagging, lemmatization and PERSON entity recognition. Components
// that use it hold a *Pipeline that may be nil, and fall back to regex and
// word-list heuristics when it is.
package nlp

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// Token is one tagged token.
type Token struct {
	Text string
	Tag  string
}

// Pipeline tokenizes, tags and lemmatizes English text.
type Pipeline struct {
	lemmatizer *golem.Lemmatizer
	model      *prose.Model
}

var (
	loadOnce sync.Once
	loaded   *Pipeline
	loadErr  error
)

// Load builds the pipeline once per process: the lemma dictionary and
// prose's tagger and entity model are decoded here and shared by every call.
func Load() (*Pipeline, error) {
	loadOnce.Do(func() {
		lem, err := golem.New(en.New())
		if err != nil {
			loadErr = fmt.Errorf("failed to load english lemma dictionary: %w", err)
			return
		}
		doc, err := prose.NewDocument("", prose.WithSegmentation(false))
		if err != nil {
			loadErr = fmt.Errorf("failed to load tagging model: %w", err)
			return
		}
		loaded = &Pipeline{lemmatizer: lem, model: doc.Model}
	})
	return loaded, loadErr
}

// Tag tokenizes and POS-tags text. Sentence segmentation and entity
// extraction are skipped.
func (p *Pipeline) Tag(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
		prose.UsingModel(p.model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to tag text: %w", err)
	}
	tokens := doc.Tokens()
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, Token{Text: tok.Text, Tag: tok.Tag})
	}
	return out, nil
}

// Recognizer returns a local entity recognizer that reuses the loaded model.
func (p *Pipeline) Recognizer() ProseRecognizer {
	return ProseRecognizer{model: p.model}
}

// Lemma returns the dictionary base form of a lowercase word. Proper nouns
// keep their surface form.
func (p *Pipeline) Lemma(tok Token) string {
	word := strings.ToLower(tok.Text)
	if strings.HasPrefix(tok.Tag, "NNP") {
		return word
	}
	return p.lemmatizer.Lemma(word)
}

// IsStop reports whether word is an English stop word.
func IsStop(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// IsAlpha reports whether s is non-empty and made only of letters.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
