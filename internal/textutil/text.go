package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// sentencePattern matches a run of text ending in terminal punctuation
// (optionally followed by closing quotes or brackets), or trailing text
// with no terminator.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*|[^.!?]+$`)

// wordSplitPattern matches anything that is not a letter, digit, or apostrophe.
var wordSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}']+`)

// CollapseWhitespace replaces runs of whitespace with a single space and trims the ends.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// StripControl removes control characters, keeping tabs and newlines as spaces.
func StripControl(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, value)
}

// CleanText strips control characters and collapses whitespace.
func CleanText(value string) string {
	return CollapseWhitespace(StripControl(value))
}

// Words splits text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Tokenize lowercases text and splits it into letter/digit tokens with
// punctuation removed. Apostrophes are dropped so "it's" becomes "its".
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := wordSplitPattern.Split(lowered, -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.ReplaceAll(token, "'", "")
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// SplitSentences returns the trimmed sentences of text. Text without any
// terminal punctuation is returned as a single sentence.
func SplitSentences(text string) []string {
	text = CollapseWhitespace(text)
	if text == "" {
		return nil
	}
	matches := sentencePattern.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, match := range matches {
		if trimmed := strings.TrimSpace(match); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// HasSentenceBoundary reports whether text contains terminal punctuation
// before its final character.
func HasSentenceBoundary(text string) bool {
	return len(SplitSentences(text)) > 1
}

// ChunkWords groups the words of text into chunks of at most size words.
func ChunkWords(text string, size int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		return []string{strings.Join(words, " ")}
	}
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// ChunkSentences groups sentences into chunks of at most size sentences.
func ChunkSentences(sentences []string, size int) []string {
	if len(sentences) == 0 {
		return nil
	}
	if size <= 0 {
		size = 1
	}
	chunks := make([]string, 0, (len(sentences)+size-1)/size)
	for start := 0; start < len(sentences); start += size {
		end := min(start+size, len(sentences))
		chunks = append(chunks, strings.Join(sentences[start:end], " "))
	}
	return chunks
}
