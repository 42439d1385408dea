// Package textclean turns raw resume and job-description text into the
// lowercase, lemmatized token string used for TF-IDF comparison.
package textclean

import (
	"crypto/sha256"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/muhammadolammi/resumescreener/internal/nlp"
)

// DefaultCacheSize bounds the memoization cache of a Normalizer.
const DefaultCacheSize = 128

var (
	reSpaces   = regexp.MustCompile(`\s+`)
	reURL      = regexp.MustCompile(`http\S+|www\.\S+`)
	reEmail    = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9.-]+`)
	rePhone    = regexp.MustCompile(`[+(]?[1-9][0-9 .\-()]{8,}[0-9]`)
	rePunct    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	reIntegers = regexp.MustCompile(`\b\d+\b`)
)

// manualStopWords is used when no linguistic pipeline is available.
var manualStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the is at which on and a an as are was were been be
		have has had do does did will would should could may might must can this that
		these those i you he she it we they what who when where why how all each every
		both few more most other some such no nor not only own same so than too very
		just now`) {
		manualStopWords[w] = struct{}{}
	}
}

// Normalizer cleans text and memoizes results in a bounded LRU keyed by the
// SHA-256 of the input. A Normalizer is safe for concurrent use; give each
// process its own.
type Normalizer struct {
	pipeline *nlp.Pipeline
	cache    *lru.Cache[[sha256.Size]byte, string]
}

// New returns a Normalizer. A nil pipeline selects the manual stop-word
// fallback. cacheSize <= 0 disables memoization.
func New(pipeline *nlp.Pipeline, cacheSize int) *Normalizer {
	n := &Normalizer{pipeline: pipeline}
	if cacheSize > 0 {
		c, err := lru.New[[sha256.Size]byte, string](cacheSize)
		if err == nil {
			n.cache = c
		}
	}
	return n
}

// Clean normalizes text. Empty input yields empty output.
func (n *Normalizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	if n.cache == nil {
		return n.clean(text)
	}
	key := sha256.Sum256([]byte(text))
	if v, ok := n.cache.Get(key); ok {
		return v
	}
	v := n.clean(text)
	n.cache.Add(key, v)
	return v
}

// CacheLen reports how many cleaned texts are memoized.
func (n *Normalizer) CacheLen() int {
	if n.cache == nil {
		return 0
	}
	return n.cache.Len()
}

func (n *Normalizer) clean(text string) string {
	text = Strip(text)
	if n.pipeline != nil {
		if out, ok := n.lemmatize(text); ok {
			return out
		}
	}
	return fallback(text)
}

// Strip applies the regex stage: lowercase, collapse whitespace, and drop
// URLs, emails, phone-like digit runs, punctuation (hyphens survive) and
// standalone integers.
func Strip(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))
	text = reSpaces.ReplaceAllString(text, " ")
	text = reURL.ReplaceAllString(text, "")
	text = reEmail.ReplaceAllString(text, "")
	text = rePhone.ReplaceAllString(text, "")
	text = rePunct.ReplaceAllString(text, " ")
	text = reIntegers.ReplaceAllString(text, "")
	return text
}

func (n *Normalizer) lemmatize(text string) (string, bool) {
	tokens, err := n.pipeline.Tag(text)
	if err != nil {
		return "", false
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !nlp.IsAlpha(tok.Text) || nlp.IsStop(tok.Text) || len([]rune(tok.Text)) <= 2 {
			continue
		}
		out = append(out, n.pipeline.Lemma(tok))
	}
	return strings.Join(out, " "), true
}

func fallback(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := manualStopWords[w]; stop || len([]rune(w)) <= 2 {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}
