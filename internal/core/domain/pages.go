package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Default chunking geometry for page text, in characters.
const (
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 200
)

// Page is one page of an extracted source document.
type Page struct {
	// Num is the 1-based page number.
	Num int

	// Text is the raw extracted page text. May be empty for pages the
	// extractor could not read.
	Text string
}

// ChunkPage splits one page's text into overlapping chunks.
// Offsets are measured in characters, so multi-byte runes are never split.
// Empty or whitespace-only text yields no chunks.
func ChunkPage(docName string, page Page, size, overlap int) []Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}

	text := strings.TrimSpace(strings.ReplaceAll(page.Text, "\x00", " "))
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	var chunks []Chunk
	start := 0
	for seq := 1; start < n; seq++ {
		end := start + size
		if end > n {
			end = n
		}
		body := string(runes[start:end])
		chunks = append(chunks, Chunk{
			DocName:    docName,
			PageNum:    page.Num,
			ChunkID:    strconv.Itoa(seq),
			ChunkText:  body,
			TextLength: utf8.RuneCountInString(body),
		})
		if end == n {
			break
		}
		start = end - overlap
	}
	return chunks
}

// ChunkPages chunks every page of a document in page order.
func ChunkPages(docName string, pages []Page, size, overlap int) []Chunk {
	var chunks []Chunk
	for _, p := range pages {
		chunks = append(chunks, ChunkPage(docName, p, size, overlap)...)
	}
	return chunks
}
