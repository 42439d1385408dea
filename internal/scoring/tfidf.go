// Package scoring computes the weighted match percentage of a resume
// against a job description.
package scoring

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned when the documents share no usable terms.
var ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain no terms")

// Vectorizer builds smoothed TF-IDF vectors over a small corpus, using word
// n-grams and keeping only the MaxFeatures most frequent terms.
type Vectorizer struct {
	MinN, MaxN  int
	MaxFeatures int
}

// DefaultVectorizer uses unigrams and bigrams capped at 500 features.
var DefaultVectorizer = Vectorizer{MinN: 1, MaxN: 2, MaxFeatures: 500}

var reToken = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// FitTransform returns one L2-normalised vector per document, indexed by a
// shared vocabulary.
func (v Vectorizer) FitTransform(docs []string) ([][]float64, error) {
	counts := make([]map[string]int, len(docs))
	total := make(map[string]int)
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, g := range v.ngrams(doc) {
			counts[i][g]++
			total[g]++
		}
		for g := range counts[i] {
			df[g]++
		}
	}
	if len(total) == 0 {
		return nil, ErrEmptyVocabulary
	}

	vocab := make([]string, 0, len(total))
	for g := range total {
		vocab = append(vocab, g)
	}
	sort.Strings(vocab)
	if v.MaxFeatures > 0 && len(vocab) > v.MaxFeatures {
		sort.SliceStable(vocab, func(a, b int) bool { return total[vocab[a]] > total[vocab[b]] })
		vocab = vocab[:v.MaxFeatures]
		sort.Strings(vocab)
	}

	n := float64(len(docs))
	vectors := make([][]float64, len(docs))
	for i := range docs {
		vec := make([]float64, len(vocab))
		var norm float64
		for j, g := range vocab {
			tf := counts[i][g]
			if tf == 0 {
				continue
			}
			idf := math.Log((1+n)/(1+float64(df[g]))) + 1
			vec[j] = float64(tf) * idf
			norm += vec[j] * vec[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (v Vectorizer) ngrams(doc string) []string {
	tokens := reToken.FindAllString(strings.ToLower(doc), -1)
	minN, maxN := v.MinN, v.MaxN
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	var out []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Cosine is the cosine similarity of two equal-length vectors, 0 when
// either is all zeros.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// SemanticSimilarity is the TF-IDF cosine of two cleaned texts. Any
// vectorization failure yields 0.
func SemanticSimilarity(cleanResume, cleanJD string) float64 {
	vectors, err := DefaultVectorizer.FitTransform([]string{cleanResume, cleanJD})
	if err != nil {
		return 0
	}
	return Cosine(vectors[0], vectors[1])
}
