package textutil

import "strings"

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a title safe to use as an output file name.
// Path separators and colons become dashes; other reserved characters are dropped.
func SanitizeFileName(name string) string {
	name = CleanText(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// Slug converts a title into a lowercase dash-separated token suitable for
// temp and output file names. Returns fallback for input with no letters or digits.
func Slug(value, fallback string) string {
	tokens := Tokenize(value)
	if len(tokens) == 0 {
		return fallback
	}
	slug := strings.Join(tokens, "-")
	if len(slug) > 64 {
		slug = strings.TrimRight(slug[:64], "-")
	}
	return slug
}
