package footage

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/textutil"
)

// DefaultKeywordLimit caps ExtractKeywords when n is not positive.
const DefaultKeywordLimit = 10

var stopWords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "also": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "below": {}, "between": {},
	"both": {}, "cannot": {}, "could": {}, "does": {}, "doing": {}, "down": {},
	"during": {}, "each": {}, "even": {}, "every": {}, "from": {}, "further": {},
	"have": {}, "having": {}, "here": {}, "into": {}, "just": {}, "like": {},
	"made": {}, "make": {}, "many": {}, "more": {}, "most": {}, "much": {},
	"must": {}, "only": {}, "other": {}, "ought": {}, "over": {}, "same": {},
	"should": {}, "some": {}, "such": {}, "than": {}, "that": {}, "their": {},
	"theirs": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"thing": {}, "things": {}, "this": {}, "those": {}, "through": {}, "under": {},
	"until": {}, "very": {}, "want": {}, "well": {}, "were": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"would": {}, "your": {}, "yours": {}, "yourself": {}, "really": {}, "still": {},
	"another": {}, "anything": {}, "everything": {}, "something": {}, "nothing": {},
	"however": {}, "therefore": {}, "without": {}, "within": {}, "among": {},
	"today": {}, "going": {}, "know": {}, "lets": {}, "youre": {}, "theyre": {},
	"thats": {}, "dont": {}, "doesnt": {}, "isnt": {}, "arent": {}, "didnt": {},
}

// ExtractKeywords returns up to n search terms from a section, longest
// first with alphabetical tie-breaks.
func ExtractKeywords(title, content string, n int) []string {
	if n <= 0 {
		n = DefaultKeywordLimit
	}
	tokens := textutil.Tokenize(title + " " + content)
	tokens = lo.Filter(tokens, func(token string, _ int) bool {
		if utf8.RuneCountInString(token) <= 3 {
			return false
		}
		_, stop := stopWords[token]
		return !stop
	})
	tokens = lo.Uniq(tokens)
	slices.SortFunc(tokens, func(a, b string) int {
		if c := cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return tokens
}
