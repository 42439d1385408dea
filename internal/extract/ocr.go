package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultOCRTimeout bounds each OCR subprocess.
const DefaultOCRTimeout = 2 * time.Minute

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%s: %w: %s", filepath.Base(name), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return out, nil
}

// OCR rasterizes PDF pages with pdftoppm and reads them with tesseract.
type OCR struct {
	Tesseract string
	Pdftoppm  string
	Timeout   time.Duration

	run Runner
	log zerolog.Logger
}

// OCRConfig overrides binary discovery.
type OCRConfig struct {
	TesseractCmd string
	PdftoppmCmd  string
	Timeout      time.Duration
	Logger       zerolog.Logger
	// Runner replaces os/exec, for tests.
	Runner Runner
	// LookPath replaces exec.LookPath, for tests.
	LookPath func(string) (string, error)
}

// DetectOCR resolves both binaries. It returns nil when either is missing,
// which leaves the OCR capability off.
func DetectOCR(cfg OCRConfig) *OCR {
	lookPath := cfg.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	tess := findBinary(lookPath, cfg.TesseractCmd, "tesseract", tesseractInstallPaths())
	pdftoppm := findBinary(lookPath, cfg.PdftoppmCmd, "pdftoppm", nil)
	if tess == "" || pdftoppm == "" {
		cfg.Logger.Info().
			Bool("tesseract", tess != "").
			Bool("pdftoppm", pdftoppm != "").
			Msg("ocr unavailable")
		return nil
	}
	cfg.Logger.Info().Str("tesseract", tess).Str("pdftoppm", pdftoppm).Msg("ocr available")
	return NewOCR(tess, pdftoppm, cfg.Timeout, cfg.Runner, cfg.Logger)
}

// NewOCR builds an engine from known binary paths. A nil runner uses os/exec.
func NewOCR(tesseract, pdftoppm string, timeout time.Duration, run Runner, log zerolog.Logger) *OCR {
	if run == nil {
		run = execRunner
	}
	if timeout <= 0 {
		timeout = DefaultOCRTimeout
	}
	return &OCR{Tesseract: tesseract, Pdftoppm: pdftoppm, Timeout: timeout, run: run, log: log}
}

func findBinary(lookPath func(string) (string, error), override, name string, fallbacks []string) string {
	if override != "" {
		if p, err := lookPath(override); err == nil {
			return p
		}
		return ""
	}
	if p, err := lookPath(name); err == nil {
		return p
	}
	for _, p := range fallbacks {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func tesseractInstallPaths() []string {
	if runtime.GOOS != "windows" {
		return nil
	}
	return []string{
		`C:\Program Files\Tesseract-OCR\tesseract.exe`,
		`C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`,
		fmt.Sprintf(`C:\Users\%s\AppData\Local\Programs\Tesseract-OCR\tesseract.exe`, os.Getenv("USERNAME")),
	}
}

// Recognize renders every page at 300 DPI and OCRs it. The scratch
// directory holding the PDF and page images is removed on return. A page
// that fails is logged and skipped.
func (o *OCR) Recognize(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "resume-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create ocr dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write ocr input: %w", err)
	}

	rctx, cancel := context.WithTimeout(ctx, o.Timeout)
	_, err = o.run(rctx, o.Pdftoppm, "-r", "300", "-png", input, filepath.Join(dir, "page"))
	cancel()
	if err != nil {
		return "", fmt.Errorf("failed to convert pdf: %w", err)
	}

	images, err := filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil {
		return "", fmt.Errorf("failed to list pages: %w", err)
	}
	sort.Strings(images)

	var b strings.Builder
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pctx, cancel := context.WithTimeout(ctx, o.Timeout)
		out, err := o.run(pctx, o.Tesseract, img, "stdout", "-l", "eng", "--psm", "6")
		cancel()
		if err != nil {
			o.log.Warn().Err(err).Int("page", i+1).Msg("ocr page failed")
			continue
		}
		if len(out) > 0 {
			b.Write(out)
			b.WriteString("\n")
		}
	}
	return CleanOCRText(b.String()), nil
}

var (
	reOCRSpaces   = regexp.MustCompile(` +`)
	reOCRNewlines = regexp.MustCompile(`\n{3,}`)
	reOCRControl  = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x{9f}]`)
)

// ocrFixes restore canonical casing of common misread technology terms.
// Order matters.
var ocrFixes = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bjavascript\b`), "JavaScript"},
	{regexp.MustCompile(`(?i)\breactjs\b`), "React"},
	{regexp.MustCompile(`(?i)\bnodejs\b`), "Node"},
	{regexp.MustCompile(`(?i)\bhtml\b`), "HTML"},
	{regexp.MustCompile(`(?i)\bcss\b`), "CSS"},
	{regexp.MustCompile(`(?i)\bapi\b`), "API"},
	{regexp.MustCompile(`(?i)\bpython\b`), "Python"},
	{regexp.MustCompile(`(?i)\bjava\b`), "Java"},
}

// CleanOCRText removes common tesseract artifacts.
func CleanOCRText(text string) string {
	text = reOCRSpaces.ReplaceAllString(text, " ")
	text = reOCRNewlines.ReplaceAllString(text, "\n\n")
	text = strings.ReplaceAll(text, "|", "I")
	text = reOCRControl.ReplaceAllString(text, "")
	for _, fix := range ocrFixes {
		text = fix.re.ReplaceAllString(text, fix.repl)
	}
	return strings.TrimSpace(text)
}
