package core

import (
	"encoding/binary"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// TitleHash computes a stable 64-bit hash of a section title using BLAKE2b.
// Unlike the runtime map hash it is not randomly seeded, so repeated runs
// over identical input produce identical section ids.
func TitleHash(title string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(title))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// SectionID derives the id of a section node from its page and title.
// The hash is reduced mod 10000; two different titles on the same page can
// collide, which is an accepted limitation of the id scheme.
func SectionID(page int, title string) string {
	return fmt.Sprintf("section_p%d_%d", page, TitleHash(title)%10000)
}

// ParagraphID derives the id of a paragraph node. The index is the running
// count of paragraph nodes emitted so far across the whole document.
func ParagraphID(page, paragraphIndex int) string {
	return fmt.Sprintf("para_p%d_%d", page, paragraphIndex)
}

// SentenceID derives a sentence id from its parent paragraph id and the
// zero-based sentence position within the paragraph.
func SentenceID(paragraphID string, sentenceIndex int) string {
	return fmt.Sprintf("%s_s%d", paragraphID, sentenceIndex)
}

// ImageID derives the id of an image node. The index is the running count
// of image nodes emitted so far across the whole document.
func ImageID(page, imageIndex int) string {
	return fmt.Sprintf("image_p%d_%d", page, imageIndex)
}

// TableRowID derives the id of a per-row table node.
func TableRowID(page, tableIndex, rowIndex int) string {
	return fmt.Sprintf("table_p%d_t%d_r%d", page, tableIndex, rowIndex)
}

// TableFullID derives the id of a full-table node.
func TableFullID(page, tableIndex int) string {
	return fmt.Sprintf("table_p%d_t%d_full", page, tableIndex)
}
