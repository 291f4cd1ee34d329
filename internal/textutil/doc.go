// Package textutil provides the text handling shared by synthesis, keyword
// extraction, and subtitle timing: whitespace and control-character cleanup,
// word counting, sentence splitting, and filename sanitization.
package textutil
