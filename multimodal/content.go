// Package multimodal builds ordered message content from free text and
// attached files (images, PDFs, plain text).
//
// Information Hiding:
// - File classification and read failures internalized: building content
//   never fails, problems become visible text blocks instead
package multimodal

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlockType identifies the kind of a content block.
type BlockType string

const (
	// BlockText is plain text.
	BlockText BlockType = "text"
	// BlockImage is an inline base64-encoded image.
	BlockImage BlockType = "image"
	// BlockDocument is text extracted from a document file.
	BlockDocument BlockType = "document"
)

// Block is one element of a message body. The order of blocks is
// preserved through to the model.
type Block struct {
	Type      BlockType
	Text      string // BlockText and BlockDocument
	ImageB64  string // BlockImage: base64-encoded raw bytes
	MediaType string // BlockImage
	Source    string // BlockDocument: display name of the originating file
}

// Build turns free-form text plus file paths into an ordered block
// sequence. It never returns an error and never returns an empty
// sequence: some model endpoints reject empty content, so an empty
// input yields a single placeholder text block. Missing or unreadable
// files become text blocks describing the problem.
func Build(text string, paths []string) []Block {
	var blocks []Block

	if strings.TrimSpace(text) != "" {
		blocks = append(blocks, Block{Type: BlockText, Text: text})
	}

	for _, path := range paths {
		blocks = append(blocks, buildFileBlock(path))
	}

	if len(blocks) == 0 {
		return []Block{{Type: BlockText, Text: "No input provided."}}
	}
	return blocks
}

// buildFileBlock classifies one file and turns it into a block.
func buildFileBlock(path string) Block {
	if _, err := os.Stat(path); err != nil {
		return Block{Type: BlockText, Text: fmt.Sprintf("[File not found: %s]", path)}
	}

	name := filepath.Base(path)

	switch {
	case IsImage(path):
		data, err := os.ReadFile(path)
		if err != nil {
			return Block{Type: BlockText, Text: fmt.Sprintf("[Could not read %s: %v]", name, err)}
		}
		return Block{
			Type:      BlockImage,
			ImageB64:  base64.StdEncoding.EncodeToString(data),
			MediaType: MediaType(path),
		}

	case IsPDF(path):
		text, err := ExtractPDFText(path)
		if err != nil {
			return Block{Type: BlockText, Text: fmt.Sprintf("[Could not read %s: %v]", name, err)}
		}
		return Block{Type: BlockDocument, Text: text, Source: name}

	default:
		text, err := ReadTextFile(path)
		if err != nil {
			return Block{Type: BlockText, Text: fmt.Sprintf("[Could not read %s: %v]", name, err)}
		}
		return Block{Type: BlockDocument, Text: text, Source: name}
	}
}
