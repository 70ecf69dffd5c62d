// Package pdftotext extracts plain text from PDF bytes by shelling out to
// the poppler pdftotext tool.
package pdftotext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// Extractor converts PDF bytes to annotated plain text. Each page's text is
// prefixed with a page marker; pages with no extractable text keep their
// number but contribute no content.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates an extractor that runs the real pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: &execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
// Used in tests to avoid requiring pdftotext.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable returns an error if pdftotext is not installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns help text for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF extraction. Install it with:
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// Extract converts the PDF to text. The bytes are staged in a temporary
// file because pdftotext reads from disk; the file is removed before
// returning. Page breaks in the tool's output (form feeds) become
// "--- Page N ---" markers.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", fmt.Errorf("%w: not a PDF file", domain.ErrExtraction)
	}

	tmp, err := stageTempFile(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	defer os.Remove(tmp)

	// "-" sends the text to stdout. -layout preserves column structure,
	// which keeps tabular PDFs readable after chunking.
	output, err := e.runner.Run(ctx, "pdftotext", "-layout", tmp, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext failed: %v", domain.ErrExtraction, err)
	}

	return annotatePages(string(output)), nil
}

// annotatePages splits raw pdftotext output on form feeds and prefixes each
// non-empty page with its 1-based page number. Empty pages keep their
// position in the numbering.
func annotatePages(raw string) string {
	pages := strings.Split(raw, "\f")

	var b strings.Builder
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s", i+1, page)
	}
	return b.String()
}

// stageTempFile writes data to a temporary .pdf file and returns its path.
func stageTempFile(data []byte) (string, error) {
	f, err := os.CreateTemp("", "docqa-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return path, nil
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	return stdout.Bytes(), nil
}
