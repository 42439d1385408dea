// Package skills holds the weighted skill vocabulary and the matchers that
// pull job-description and resume skills out of raw text.
package skills

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed ontology.yaml
var defaultOntologyYAML []byte

// Domain is one group of the ontology, e.g. "frontend" or "devops".
type Domain struct {
	Name   string             `yaml:"domain"`
	Skills map[string]float64 `yaml:"skills"`
}

// Ontology is the read-only skill catalog. It is built once and never
// written afterwards, so it is safe for concurrent use.
type Ontology struct {
	domains  []Domain
	terms    []term
	weights  map[string]float64
	patterns map[string]*regexp.Regexp
}

type term struct {
	skill   string
	pattern *regexp.Regexp
}

var (
	defaultOnce     sync.Once
	defaultOntology *Ontology
	defaultErr      error
)

// Default returns the embedded ontology, parsing it on first use.
func Default() (*Ontology, error) {
	defaultOnce.Do(func() {
		defaultOntology, defaultErr = Parse(defaultOntologyYAML)
	})
	return defaultOntology, defaultErr
}

// MustDefault is Default for process start-up code.
func MustDefault() *Ontology {
	o, err := Default()
	if err != nil {
		panic(err)
	}
	return o
}

// Parse builds an ontology from its YAML form: an ordered list of domains,
// each carrying a term -> weight mapping.
func Parse(data []byte) (*Ontology, error) {
	var domains []Domain
	if err := yaml.Unmarshal(data, &domains); err != nil {
		return nil, fmt.Errorf("failed to parse skill ontology: %w", err)
	}
	return New(domains)
}

// New builds an ontology from domains in the given order. A term listed
// under several domains keeps the weight of the last one.
func New(domains []Domain) (*Ontology, error) {
	o := &Ontology{
		domains:  domains,
		weights:  make(map[string]float64),
		patterns: make(map[string]*regexp.Regexp),
	}
	for _, d := range domains {
		for _, skill := range sortedTerms(d.Skills) {
			weight := d.Skills[skill]
			if weight <= 0 {
				return nil, fmt.Errorf("skill %q in domain %q has non-positive weight %v", skill, d.Name, weight)
			}
			pattern, err := wordPattern(skill)
			if err != nil {
				return nil, fmt.Errorf("skill %q in domain %q: %w", skill, d.Name, err)
			}
			o.terms = append(o.terms, term{skill: skill, pattern: pattern})
			o.weights[skill] = weight
			o.patterns[skill] = pattern
		}
	}
	return o, nil
}

// Domains returns the domain names in ontology order.
func (o *Ontology) Domains() []string {
	names := make([]string, 0, len(o.domains))
	for _, d := range o.domains {
		names = append(names, d.Name)
	}
	return names
}

// Weight returns the effective weight of a term.
func (o *Ontology) Weight(skill string) (float64, bool) {
	w, ok := o.weights[skill]
	return w, ok
}

// Len is the number of distinct terms.
func (o *Ontology) Len() int {
	return len(o.weights)
}
