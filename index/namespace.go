package index

import (
	"fmt"

	"github.com/poiesic/docindex/core"
)

// Index namespaces, one per node granularity. Partitioning lets a search
// choose its granularity up front instead of filtering after the fact.
const (
	NamespaceSections   = "sections"
	NamespaceParagraphs = "paragraphs"
	NamespaceSentences  = "sentences"
	NamespaceImages     = "images"
	NamespaceTableRows  = "table_rows"
	NamespaceTableFull  = "table_full"
)

var namespaceByType = map[core.NodeType]string{
	core.NodeSection:   NamespaceSections,
	core.NodeParagraph: NamespaceParagraphs,
	core.NodeSentence:  NamespaceSentences,
	core.NodeImage:     NamespaceImages,
	core.NodeTableRow:  NamespaceTableRows,
	core.NodeTableFull: NamespaceTableFull,
}

// Namespaces returns all known namespaces.
func Namespaces() []string {
	return []string{
		NamespaceSections,
		NamespaceParagraphs,
		NamespaceSentences,
		NamespaceImages,
		NamespaceTableRows,
		NamespaceTableFull,
	}
}

// NamespaceFor maps a node type to its index namespace.
func NamespaceFor(nodeType core.NodeType) (string, error) {
	ns, ok := namespaceByType[nodeType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNodeType, nodeType)
	}
	return ns, nil
}
