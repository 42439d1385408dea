package skills

import (
	"regexp"
	"sort"
	"strings"
)

// Set maps a skill term to its importance weight.
type Set map[string]float64

// Keys returns the terms in lexical order.
func (s Set) Keys() []string {
	return sortedTerms(s)
}

// TotalWeight sums every weight in the set.
func (s Set) TotalWeight() float64 {
	var total float64
	for _, w := range s {
		total += w
	}
	return total
}

// Missing returns the terms of s that are absent from matched, sorted.
func (s Set) Missing(matched Set) []string {
	var out []string
	for skill := range s {
		if _, ok := matched[skill]; !ok {
			out = append(out, skill)
		}
	}
	sort.Strings(out)
	return out
}

// ExtractJD scans a job description against every ontology term using
// case-insensitive whole-word matching.
func (o *Ontology) ExtractJD(jobDesc string) Set {
	text := strings.ToLower(jobDesc)
	found := make(Set)
	for _, t := range o.terms {
		if t.pattern.MatchString(text) {
			found[t.skill] = o.weights[t.skill]
		}
	}
	return found
}

// ExtractResume scans resume text only against the skills already found in
// the job description. Resume skills the JD never asked for are not scored.
func (o *Ontology) ExtractResume(resumeText string, jd Set) Set {
	text := strings.ToLower(resumeText)
	found := make(Set)
	for skill, weight := range jd {
		pattern := o.patternFor(skill)
		if pattern == nil {
			continue
		}
		if pattern.MatchString(text) {
			found[skill] = weight
		}
	}
	return found
}

func (o *Ontology) patternFor(skill string) *regexp.Regexp {
	if p, ok := o.patterns[skill]; ok {
		return p
	}
	p, err := wordPattern(skill)
	if err != nil {
		return nil
	}
	return p
}

func wordPattern(skill string) (*regexp.Regexp, error) {
	return regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(skill)) + `\b`)
}

func sortedTerms(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
