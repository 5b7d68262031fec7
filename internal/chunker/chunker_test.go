package chunker

import (
	"strings"
	"testing"
)

func TestSplitIntoSentences(t *testing.T) {
	got := SplitIntoSentences("Hello! How are you? I am fine. Thanks.")
	want := []string{"Hello!", "How are you?", "I am fine.", "Thanks."}
	if len(got) != len(want) {
		t.Fatalf("sentence count = %d, want %d (%q)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sentence[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitIntoSentencesEmpty(t *testing.T) {
	if got := SplitIntoSentences(""); len(got) != 0 {
		t.Fatalf("expected no sentences, got %q", got)
	}
	if got := SplitIntoSentences("   "); len(got) != 0 {
		t.Fatalf("expected no sentences for whitespace, got %q", got)
	}
}

func TestSplitIntoSentencesNoTerminator(t *testing.T) {
	got := SplitIntoSentences("no punctuation here")
	if len(got) != 1 || got[0] != "no punctuation here" {
		t.Fatalf("got %q", got)
	}
}

func TestChunkTextEmpty(t *testing.T) {
	if got := ChunkText("", 500); got != nil {
		t.Fatalf("ChunkText(\"\") = %q, want nil", got)
	}
	if got := ChunkText("   ", 500); got != nil {
		t.Fatalf("ChunkText(whitespace) = %q, want nil", got)
	}
}

func TestChunkTextPreservesContent(t *testing.T) {
	text := "Hello world. This is a test! Short one? Yes; indeed. And one more sentence to round it out."
	chunks := ChunkText(text, 40)
	joined := strings.Join(chunks, " ")
	if joined != text {
		t.Fatalf("content not preserved:\n got: %q\nwant: %q", joined, text)
	}
	for _, c := range chunks {
		if len(c) > 40 {
			t.Fatalf("chunk exceeds limit (%d chars): %q", len(c), c)
		}
	}
}

func TestChunkTextLargeLimitSingleChunk(t *testing.T) {
	text := "One. Two. Three."
	chunks := ChunkText(text, 10000)
	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1 (%q)", len(chunks), chunks)
	}
	if chunks[0] != text {
		t.Fatalf("chunk = %q, want %q", chunks[0], text)
	}
}

func TestChunkTextLongSentenceCommaSplit(t *testing.T) {
	text := "alpha beta, gamma delta, epsilon zeta, eta theta."
	chunks := ChunkText(text, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected comma split, got %q", chunks)
	}
	for _, c := range chunks {
		if !strings.Contains(text, c) {
			t.Fatalf("chunk %q not drawn from input", c)
		}
		if len(c) > 20 {
			t.Fatalf("chunk exceeds limit: %q", c)
		}
	}
}

func TestChunkTextLongSentenceWordFallback(t *testing.T) {
	text := "word1 word2 word3 word4 word5 word6 word7 word8"
	chunks := ChunkText(text, 12)
	if len(chunks) < 3 {
		t.Fatalf("expected word-boundary split, got %q", chunks)
	}
	joined := strings.Join(chunks, " ")
	if joined != text {
		t.Fatalf("word split lost content:\n got: %q\nwant: %q", joined, text)
	}
}

func TestChunkTextBoundsRespected(t *testing.T) {
	text := strings.Repeat("Short sentence here. ", 50)
	for _, max := range []int{25, 60, 200} {
		for _, c := range ChunkText(strings.TrimSpace(text), max) {
			if len(c) > max {
				t.Fatalf("max=%d violated by %d-char chunk %q", max, len(c), c)
			}
		}
	}
}
