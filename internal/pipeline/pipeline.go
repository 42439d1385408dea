// Package pipeline resolves the optional capabilities (linguistic pipeline,
// OCR engine, entity recognizer) once at startup and assembles the ranker.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/muhammadolammi/resumescreener/internal/config"
	"github.com/muhammadolammi/resumescreener/internal/extract"
	"github.com/muhammadolammi/resumescreener/internal/identity"
	"github.com/muhammadolammi/resumescreener/internal/nlp"
	"github.com/muhammadolammi/resumescreener/internal/ranker"
	"github.com/muhammadolammi/resumescreener/internal/skills"
	"github.com/muhammadolammi/resumescreener/internal/textclean"
)

// Capabilities records what was available when the analyzer was built.
type Capabilities struct {
	NLP        bool
	OCR        bool
	Recognizer string // "gemini", "prose" or ""
}

// Build wires an Analyzer from cfg. Missing optional components are logged
// and replaced by their fallbacks; only a broken skill ontology is an error.
func Build(ctx context.Context, cfg config.Config, log zerolog.Logger) (*ranker.Analyzer, Capabilities, error) {
	var caps Capabilities

	ontology, err := skills.Default()
	if err != nil {
		return nil, caps, fmt.Errorf("failed to load skill ontology: %w", err)
	}

	var pipe *nlp.Pipeline
	if cfg.NLPEnabled {
		pipe, err = nlp.Load()
		if err != nil {
			log.Warn().Err(err).Msg("linguistic pipeline unavailable, using fallbacks")
			pipe = nil
		}
	}
	caps.NLP = pipe != nil

	var ocr *extract.OCR
	if cfg.OCREnabled {
		ocr = extract.DetectOCR(extract.OCRConfig{
			TesseractCmd: cfg.TesseractCmd,
			PdftoppmCmd:  cfg.PdftoppmCmd,
			Timeout:      cfg.OCRTimeout,
			Logger:       log,
		})
	}
	caps.OCR = ocr != nil

	var rec nlp.EntityRecognizer
	switch {
	case !caps.NLP:
	case cfg.GoogleAPIKey != "":
		g, err := nlp.NewGeminiRecognizer(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.NLPTimeout)
		if err != nil {
			log.Warn().Err(err).Msg("gemini recognizer unavailable, using local ner")
			rec, caps.Recognizer = pipe.Recognizer(), "prose"
			break
		}
		rec, caps.Recognizer = g, "gemini"
	default:
		rec, caps.Recognizer = pipe.Recognizer(), "prose"
	}

	log.Info().
		Bool("nlp", caps.NLP).
		Bool("ocr", caps.OCR).
		Str("recognizer", caps.Recognizer).
		Int("skills", ontology.Len()).
		Msg("capabilities resolved")

	analyzer := ranker.New(ontology,
		extract.New(extract.WithOCR(ocr), extract.WithLogger(log)),
		ranker.WithWorkers(cfg.AnalysisWorkers),
		ranker.WithLogger(log),
		ranker.WithNormalizer(textclean.New(pipe, cfg.CleanCacheSize)),
		ranker.WithNameExtractor(identity.NewNameExtractor(rec, log)),
	)
	return analyzer, caps, nil
}
