package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Granularity directory names under nodes/.
const (
	dirSections       = "sections"
	dirParagraphs     = "paragraphs"
	dirSentences      = "sentences"
	dirImages         = "images"
	dirTablesGranular = "tables_granular"
	dirTablesFull     = "tables_full"
)

// granularityDirs in stable write order.
var granularityDirs = []string{
	dirSections,
	dirParagraphs,
	dirSentences,
	dirImages,
	dirTablesGranular,
	dirTablesFull,
}

// Layout maps the pipeline's files inside one output directory.
type Layout struct {
	Root string
}

// NewLayout creates a layout rooted at dir.
func NewLayout(dir string) Layout {
	return Layout{Root: dir}
}

// EnsureDirs creates the full directory tree.
func (l Layout) EnsureDirs() error {
	dirs := []string{l.RawDir(), l.EnrichedDir()}
	for _, g := range granularityDirs {
		dirs = append(dirs, filepath.Join(l.NodesDir(), g))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (l Layout) RawDir() string      { return filepath.Join(l.Root, "raw") }
func (l Layout) EnrichedDir() string { return filepath.Join(l.Root, "enriched") }
func (l Layout) NodesDir() string    { return filepath.Join(l.Root, "nodes") }

// ElementsPath is the extracted element stream for a stem.
func (l Layout) ElementsPath(stem string) string {
	return filepath.Join(l.RawDir(), stem+"_elements.json")
}

// RawTablesPath is the pre-enrichment table grid file for a stem.
func (l Layout) RawTablesPath(stem string) string {
	return filepath.Join(l.RawDir(), stem+"_tables.json")
}

// TablesPath is the enriched table payload for a stem.
func (l Layout) TablesPath(stem string) string {
	return filepath.Join(l.EnrichedDir(), stem+"_tables.json")
}

// ImagesPath is the enriched image payload for a stem.
func (l Layout) ImagesPath(stem string) string {
	return filepath.Join(l.EnrichedDir(), stem+"_images.json")
}

// NodesPath is the node file for one stem at one granularity.
func (l Layout) NodesPath(granularity, stem string) string {
	return filepath.Join(l.NodesDir(), granularity, stem+".json")
}

// Stems lists the document stems with an extracted element stream,
// sorted by name.
func (l Layout) Stems() ([]string, error) {
	entries, err := os.ReadDir(l.RawDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var stems []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, "_elements.json") {
			continue
		}
		stems = append(stems, strings.TrimSuffix(name, "_elements.json"))
	}
	return stems, nil
}

// Stem derives the document stem from a source path.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
