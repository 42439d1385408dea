package identity

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/muhammadolammi/resumescreener/internal/extract"
	"github.com/muhammadolammi/resumescreener/internal/nlp"
)

// UnknownCandidate is the name used when no strategy resolves one.
const UnknownCandidate = "Unknown Candidate"

// entityWindow is how much of the resume the entity recognizer sees.
const entityWindow = 3000

var invalidHeaders = []string{
	"skills", "experience", "education", "projects", "summary", "profile",
	"objective", "certifications", "technical skills", "work experience",
	"personal details", "contact", "career objective", "professional summary",
	"technical", "about me", "declaration", "resume", "curriculum vitae", "cv",
}

var locationKeywords = []string{
	"nagar", "city", "delhi", "mumbai", "bangalore", "pune", "chennai",
	"hyderabad", "kolkata", "ahmedabad", "lucknow", "kanpur", "meerut",
	"ghaziabad", "noida", "faridabad", "gurgaon", "uttar pradesh",
	"maharashtra", "karnataka", "tamil nadu", "india", "college",
	"university", "institute", "school", "pradesh",
}

// roleWords disqualify a heading line that looks like a job title.
var roleWords = map[string]struct{}{
	"technical": {}, "engineer": {}, "developer": {},
	"software": {}, "senior": {}, "junior": {},
}

var (
	reLongNumber   = regexp.MustCompile(`\d{5,}`)
	reSpecialChars = regexp.MustCompile(`[:|@#$%^&*()+=\[\]{};'"<>?/\\]`)
	reNameLine     = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3}$`)
	reLettersOnly  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	reDigit        = regexp.MustCompile(`\d`)
)

// Source is what the name strategies look at.
type Source struct {
	Text  string
	Spans []extract.FontSpan
}

// Strategy proposes a candidate name, or reports false.
type Strategy func(ctx context.Context, src Source) (string, bool)

// NameExtractor tries its strategies in order; the first hit wins.
type NameExtractor struct {
	strategies []Strategy
}

// NewNameExtractor builds the default chain: largest font, then the
// leading lines of text, then entity recognition when rec is non-nil.
func NewNameExtractor(rec nlp.EntityRecognizer, log zerolog.Logger) *NameExtractor {
	chain := []Strategy{ByFont, ByPosition}
	if rec != nil {
		chain = append(chain, ByEntities(rec, log))
	}
	return &NameExtractor{strategies: chain}
}

// NewNameExtractorWith uses an explicit chain.
func NewNameExtractorWith(strategies ...Strategy) *NameExtractor {
	return &NameExtractor{strategies: strategies}
}

// Extract returns the candidate name or UnknownCandidate.
func (e *NameExtractor) Extract(ctx context.Context, src Source) string {
	for _, s := range e.strategies {
		if name, ok := s(ctx, src); ok {
			return name
		}
	}
	return UnknownCandidate
}

// ByFont looks for a name in the text set at the largest font size.
func ByFont(_ context.Context, src Source) (string, bool) {
	if len(src.Spans) == 0 {
		return "", false
	}

	groups := make(map[float64][]string)
	var current strings.Builder
	var size float64
	started := false
	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			groups[size] = append(groups[size], chunk)
		}
		current.Reset()
	}
	for _, span := range src.Spans {
		s := math.Round(span.Size*10) / 10
		if !started {
			size, started = s, true
		}
		if math.Abs(s-size) >= 0.5 {
			flush()
			size = s
		}
		current.WriteString(span.Text)
	}
	flush()

	if len(groups) == 0 {
		return "", false
	}
	largest := math.Inf(-1)
	for s := range groups {
		largest = math.Max(largest, s)
	}

	for _, chunk := range groups[largest] {
		words := strings.Fields(chunk)
		for i := range words {
			for _, n := range []int{4, 3, 2} {
				if i+n > len(words) {
					continue
				}
				candidate := strings.Join(words[i:i+n], " ")
				if IsValidName(candidate) {
					return titleCase(candidate), true
				}
			}
		}
	}
	return "", false
}

// ByPosition accepts the first of the leading 20 non-empty lines that is
// formatted like a person's name.
func ByPosition(_ context.Context, src Source) (string, bool) {
	seen := 0
	for _, raw := range strings.Split(src.Text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if seen++; seen > 20 {
			break
		}
		low := strings.ToLower(line)
		switch {
		case containsAny(low, invalidHeaders), containsAny(low, locationKeywords):
			continue
		case reEmail.MatchString(line), reLongNumber.MatchString(line):
			continue
		case reSpecialChars.MatchString(line):
			continue
		case len(line) < 5 || len(line) > 40:
			continue
		}
		if !reNameLine.MatchString(line) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 || hasRoleWord(words) {
			continue
		}
		return titleCase(line), true
	}
	return "", false
}

// ByEntities asks rec for PERSON spans near the top of the resume.
// Recognizer errors are logged and treated as no match.
func ByEntities(rec nlp.EntityRecognizer, log zerolog.Logger) Strategy {
	return func(ctx context.Context, src Source) (string, bool) {
		text := src.Text
		if len(text) > entityWindow {
			text = truncate(text, entityWindow)
		}
		if strings.TrimSpace(text) == "" {
			return "", false
		}
		persons, err := rec.Persons(ctx, text)
		if err != nil {
			log.Warn().Err(err).Msg("entity recognition failed")
			return "", false
		}
		for _, p := range persons {
			low := strings.ToLower(p)
			if containsAny(low, locationKeywords) || containsAny(low, invalidHeaders) {
				continue
			}
			words := strings.Fields(p)
			if len(words) < 2 || len(words) > 4 || reDigit.MatchString(p) {
				continue
			}
			if properlyCapitalized(words) {
				return titleCase(p), true
			}
		}
		return "", false
	}
}

// IsValidName reports whether s is 2 to 4 capitalized words of letters,
// 5 to 40 characters long, naming neither a section nor a place.
func IsValidName(s string) bool {
	if len(s) < 5 || len(s) > 40 || !reLettersOnly.MatchString(s) {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	low := strings.ToLower(s)
	if containsAny(low, invalidHeaders) || containsAny(low, locationKeywords) {
		return false
	}
	for _, w := range words {
		if len(w) < 2 || !unicode.IsUpper(rune(w[0])) {
			return false
		}
	}
	return true
}

func properlyCapitalized(words []string) bool {
	for _, w := range words {
		runes := []rune(w)
		if len(runes) <= 1 {
			continue
		}
		if !unicode.IsUpper(runes[0]) || !isLower(runes[1:]) {
			return false
		}
	}
	return true
}

// isLower mirrors str.islower: at least one cased rune and none upper.
func isLower(runes []rune) bool {
	cased := false
	for _, r := range runes {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

func hasRoleWord(words []string) bool {
	for _, w := range words {
		if _, ok := roleWords[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
