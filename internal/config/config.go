// Package config reads process configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

type Config struct {
	DBURL       string
	RabbitMQURL string
	R2          R2Config
	// AutoMigrate applies the embedded schema migrations at worker startup.
	AutoMigrate bool

	GoogleAPIKey string
	GeminiModel  string

	// Workers is the number of queue consumers.
	Workers int
	// AnalysisWorkers fans the documents of one batch out; 1 is sequential.
	AnalysisWorkers int

	NLPEnabled     bool
	OCREnabled     bool
	OCRTimeout     time.Duration
	NLPTimeout     time.Duration
	CleanCacheSize int
	TesseractCmd   string
	PdftoppmCmd    string

	LogLevel  string
	LogFormat string
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, applying defaults.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	c := Config{
		DBURL:       get("DB_URL"),
		RabbitMQURL: get("RABBITMQ_URL"),
		R2: R2Config{
			AccountID: get("R2_ACCCOUNT_ID"),
			Bucket:    get("R2_BUCKET"),
			AccessKey: get("R2_ACCESS_KEY"),
			SecretKey: get("R2_SECRET_KEY"),
		},
		GoogleAPIKey: get("GOOGLE_API_KEY"),
		GeminiModel:  get("GEMINI_MODEL"),
		TesseractCmd: get("TESSERACT_CMD"),
		PdftoppmCmd:  get("PDFTOPPM_CMD"),
		LogLevel:     get("LOG_LEVEL"),
		LogFormat:    get("LOG_FORMAT"),
	}

	var errs []error
	intVar := func(key string, def int) int {
		raw := get(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("invalid %s %q", key, raw))
			return def
		}
		return n
	}
	boolVar := func(key string, def bool) bool {
		raw := get(key)
		if raw == "" {
			return def
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q", key, raw))
			return def
		}
		return b
	}
	durVar := func(key string, def time.Duration) time.Duration {
		raw := get(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s %q", key, raw))
			return def
		}
		return d
	}

	c.Workers = intVar("WORKERS", 3)
	c.AnalysisWorkers = intVar("ANALYSIS_WORKERS", 1)
	c.CleanCacheSize = intVar("CLEAN_CACHE_SIZE", 128)
	c.NLPEnabled = boolVar("NLP_ENABLED", true)
	c.OCREnabled = boolVar("OCR_ENABLED", true)
	c.AutoMigrate = boolVar("AUTO_MIGRATE", false)
	c.OCRTimeout = durVar("OCR_TIMEOUT", 2*time.Minute)
	c.NLPTimeout = durVar("NLP_TIMEOUT", 20*time.Second)
	if c.Workers == 0 {
		c.Workers = 1
	}

	return c, errors.Join(errs...)
}

// ValidateWorker reports the settings the queue worker cannot run without.
func (c Config) ValidateWorker() error {
	var errs []error
	for key, v := range map[string]string{
		"DB_URL":         c.DBURL,
		"RABBITMQ_URL":   c.RabbitMQURL,
		"R2_ACCCOUNT_ID": c.R2.AccountID,
		"R2_BUCKET":      c.R2.Bucket,
		"R2_ACCESS_KEY":  c.R2.AccessKey,
		"R2_SECRET_KEY":  c.R2.SecretKey,
	} {
		if v == "" {
			errs = append(errs, fmt.Errorf("empty %s in environment", key))
		}
	}
	return errors.Join(errs...)
}
