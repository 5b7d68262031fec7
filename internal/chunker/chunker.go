// Package chunker splits long input text into bounded, speakable segments
// while preserving content and order.
package chunker

import (
	"regexp"
	"strings"
)

// sentenceEnd matches sentence-terminal punctuation followed by whitespace.
var sentenceEnd = regexp.MustCompile(`([.!?;])\s+`)

// commaSplit matches a comma and any trailing whitespace.
var commaSplit = regexp.MustCompile(`,\s*`)

// SplitIntoSentences splits text at sentence boundaries (., !, ?, ;)
// followed by whitespace. Empty fragments are dropped; order is preserved.
func SplitIntoSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	// Keep the terminal punctuation with its sentence.
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
	var out []string
	for _, part := range strings.Split(marked, "\x00") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ChunkText groups sentences into chunks of at most maxChars characters,
// joined by single spaces. A single sentence longer than maxChars is split at
// comma boundaries, falling back to word boundaries when the sentence has no
// commas. Whitespace-only input yields no chunks.
func ChunkText(text string, maxChars int) []string {
	sentences := SplitIntoSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	current := ""
	for _, sentence := range sentences {
		switch {
		case len(sentence) > maxChars:
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			chunks = append(chunks, splitLongSentence(sentence, maxChars)...)
		case current != "" && len(current)+len(sentence)+1 > maxChars:
			chunks = append(chunks, current)
			current = sentence
		case current == "":
			current = sentence
		default:
			current = current + " " + sentence
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// splitLongSentence breaks an over-long sentence at comma boundaries,
// accumulating comma-delimited clauses up to maxChars. When comma splitting
// yields a single piece, it falls back to word-boundary accumulation.
func splitLongSentence(sentence string, maxChars int) []string {
	parts := commaSplit.Split(sentence, -1)
	if len(parts) > 1 {
		return accumulate(parts, ", ", maxChars)
	}
	return accumulate(strings.Fields(sentence), " ", maxChars)
}

func accumulate(parts []string, sep string, maxChars int) []string {
	var out []string
	current := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		candidate := part
		if current != "" {
			candidate = current + sep + part
		}
		if len(candidate) > maxChars && current != "" {
			out = append(out, current)
			current = part
		} else {
			current = candidate
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}
