// Package textproc prepares posting and resume text for embedding: markup
// stripping, whitespace collapsing and word-window chunking.
package textproc

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultChunkWindow is the word count per chunk used when the config does
// not override it.
const DefaultChunkWindow = 300

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Normalize strips markup and collapses whitespace. It is total: any input,
// including broken markup, yields a plain-text string, and empty input
// yields "".
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.ContainsRune(raw, '<') {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			raw = doc.Text()
		}
		// Anything the parser left behind (unterminated or bogus tags).
		raw = tagRe.ReplaceAllString(raw, " ")
	}

	raw = strings.ReplaceAll(raw, " ", " ")
	return strings.Join(strings.Fields(raw), " ")
}

// Chunk splits text into consecutive non-overlapping windows of window
// words; the final window may be shorter. Empty text yields nil. The window
// must be >= 1, which config validation enforces before the pipeline runs.
func Chunk(text string, window int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+window-1)/window)
	for i := 0; i < len(words); i += window {
		end := i + window
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
