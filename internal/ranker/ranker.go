// Package ranker runs every uploaded resume through extraction, identity
// and skill extraction, and scoring, then orders the results by score.
package ranker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/muhammadolammi/resumescreener/internal/extract"
	"github.com/muhammadolammi/resumescreener/internal/identity"
	"github.com/muhammadolammi/resumescreener/internal/scoring"
	"github.com/muhammadolammi/resumescreener/internal/skills"
	"github.com/muhammadolammi/resumescreener/internal/textclean"
)

// Extractor turns a file into raw text.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (extract.Extraction, error)
}

// Analyzer ranks resumes against a job description. It holds no per-run
// state and is safe for concurrent use.
type Analyzer struct {
	ontology  *skills.Ontology
	extractor Extractor
	cleaner   *textclean.Normalizer
	names     *identity.NameExtractor
	workers   int
	log       zerolog.Logger
}

type Option func(*Analyzer)

// WithWorkers fans documents out over n goroutines. n <= 1 is sequential.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.workers = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

func WithNormalizer(n *textclean.Normalizer) Option {
	return func(a *Analyzer) { a.cleaner = n }
}

func WithNameExtractor(e *identity.NameExtractor) Option {
	return func(a *Analyzer) { a.names = e }
}

func New(ontology *skills.Ontology, extractor Extractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		ontology:  ontology,
		extractor: extractor,
		workers:   1,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cleaner == nil {
		a.cleaner = textclean.New(nil, textclean.DefaultCacheSize)
	}
	if a.names == nil {
		a.names = identity.NewNameExtractor(nil, a.log)
	}
	return a
}

// jobContext is what every document is compared against.
type jobContext struct {
	skills  skills.Set
	cleaned string
}

// Analyze scores docs against jobDesc and returns them best first, ties in
// input order. A blank job description or no documents returns no records
// without doing any work. Documents that fail are logged and left out; the
// only error returned is the context's.
func (a *Analyzer) Analyze(ctx context.Context, docs []Document, jobDesc string) ([]Record, error) {
	if strings.TrimSpace(jobDesc) == "" || len(docs) == 0 {
		return nil, nil
	}

	job := jobContext{
		skills:  a.ontology.ExtractJD(jobDesc),
		cleaned: a.cleaner.Clean(jobDesc),
	}
	a.log.Debug().Int("documents", len(docs)).Int("jd_skills", len(job.skills)).Msg("analysis started")

	slots := make([]*Record, len(docs))
	if a.workers <= 1 {
		for i, doc := range docs {
			if ctx.Err() != nil {
				break
			}
			slots[i] = a.process(ctx, doc, job)
		}
	} else {
		sem := make(chan struct{}, a.workers)
		var wg sync.WaitGroup
		for i, doc := range docs {
			if ctx.Err() != nil {
				break
			}
			sem <- struct{}{}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				slots[i] = a.process(ctx, doc, job)
			}()
		}
		wg.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(docs))
	for _, r := range slots {
		if r != nil {
			records = append(records, *r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Percentage > records[j].Percentage
	})
	a.log.Debug().Int("records", len(records)).Msg("analysis finished")
	return records, nil
}

// process scores one document, or logs why it was dropped and returns nil.
func (a *Analyzer) process(ctx context.Context, doc Document, job jobContext) *Record {
	rec, err := a.score(ctx, doc, job)
	switch {
	case err == nil:
		return rec
	case errors.Is(err, extract.ErrUnsupportedFormat):
		a.log.Debug().Str("file", doc.Filename).Msg("skipping unsupported file")
	default:
		a.log.Warn().Err(err).Str("file", doc.Filename).Msg("document dropped")
	}
	return nil
}

func (a *Analyzer) score(ctx context.Context, doc Document, job jobContext) (rec *Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, &DocumentError{Filename: doc.Filename, Op: "analyze", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	ext, err := a.extractor.Extract(ctx, doc.Filename, doc.Data)
	if err != nil {
		return nil, &DocumentError{Filename: doc.Filename, Op: "extract", Err: err}
	}

	matched := a.ontology.ExtractResume(ext.Text, job.skills)
	pct := scoring.Score(scoring.Input{
		Matched:     matched,
		JD:          job.skills,
		CleanResume: a.cleaner.Clean(ext.Text),
		CleanJD:     job.cleaned,
	})

	return &Record{
		Filename:   doc.Filename,
		Name:       a.names.Extract(ctx, identity.Source{Text: ext.Text, Spans: ext.Spans}),
		Email:      identity.Email(ext.Text),
		Phone:      identity.Phone(ext.Text),
		Matched:    matched.Keys(),
		Missing:    job.skills.Missing(matched),
		Percentage: pct,
	}, nil
}
