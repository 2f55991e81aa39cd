package extract

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	pdflib "github.com/ledongthuc/pdf"

	"github.com/poiesic/docindex/core"
)

// Extractor decodes PDF files into element streams.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates a PDF extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the PDF at path and returns its element stream. Pages
// that cannot be decoded are skipped with a warning; a document where no
// page decodes still yields an empty stream, not an error.
func (e *Extractor) Extract(path string) (core.ElementStream, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return core.ElementStream{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	stream := core.ElementStream{
		Source: filepath.Base(path),
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("skipping unreadable page", "source", stream.Source, "page", i, "error", err)
			continue
		}
		stream.Elements = append(stream.Elements, elementsFromPageText(i, text)...)
	}

	e.logger.Info("extracted elements",
		"source", stream.Source, "pages", numPages, "elements", len(stream.Elements))
	return stream, nil
}

// elementsFromPageText segments one page's plain text into classified
// elements. Blank lines separate blocks; consecutive body lines merge
// into one narrative element.
func elementsFromPageText(pageNumber int, text string) []core.Element {
	var elements []core.Element
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(block, " "))
		block = nil
		if body == "" {
			return
		}
		elements = append(elements, core.Element{
			Type:      core.ElementNarrativeText,
			ElementID: uuid.NewString(),
			Text:      body,
			Metadata:  core.ElementMetadata{PageNumber: pageNumber},
		})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		// A title line forms its own block.
		if looksLikeTitle(line) && len(block) == 0 {
			elements = append(elements, core.Element{
				Type:      core.ElementTitle,
				ElementID: uuid.NewString(),
				Text:      line,
				Metadata:  core.ElementMetadata{PageNumber: pageNumber},
			})
			continue
		}
		block = append(block, line)
	}
	flush()

	return elements
}
