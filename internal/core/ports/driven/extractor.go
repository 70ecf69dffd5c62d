package driven

import "context"

// TextExtractor turns an uploaded document's bytes into a single plain-text
// blob. Each page's text is prefixed with a page marker so provenance
// survives flattening into one string; pages with no extractable text
// contribute nothing.
//
// Extraction is a pure transform of input bytes: implementations must not
// mutate or retain the input, and a byte stream that is not a valid
// document container fails with domain.ErrExtraction.
type TextExtractor interface {
	// Extract returns the annotated text of the document.
	Extract(ctx context.Context, data []byte) (string, error)
}

// CommandRunner executes an external command and returns its stdout.
// It exists so extractor adapters that shell out to a conversion tool can
// be tested without the tool installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
