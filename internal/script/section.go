package script

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/textutil"
)

// Section is one ordered block of narration. OrderIndex is the sort key for
// every downstream stage.
type Section struct {
	Title      string `json:"title" yaml:"title"`
	Content    string `json:"content" yaml:"content"`
	OrderIndex int    `json:"orderIndex" yaml:"orderIndex"`
}

// Text returns the narration text for synthesis and timing.
func (s Section) Text() string {
	return textutil.CleanText(s.Content)
}

// WordCount returns the number of words in the section content.
func (s Section) WordCount() int {
	return textutil.WordCount(s.Content)
}

// Sorted returns a copy of sections ordered by OrderIndex, keeping input
// order for equal indexes.
func Sorted(sections []Section) []Section {
	out := append([]Section(nil), sections...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out
}

// Validate checks that sections can be narrated: at least one section, every
// section has content, and no two share an OrderIndex.
func Validate(sections []Section) error {
	if len(sections) == 0 {
		return services.Wrap(services.ErrValidation, "script", "validate", "no sections", nil)
	}
	seen := make(map[int]string, len(sections))
	var problems []string
	for i, section := range sections {
		label := section.Title
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if strings.TrimSpace(section.Content) == "" {
			problems = append(problems, fmt.Sprintf("section %s has no content", label))
		}
		if prev, ok := seen[section.OrderIndex]; ok {
			problems = append(problems, fmt.Sprintf("sections %s and %s share orderIndex %d", prev, label, section.OrderIndex))
			continue
		}
		seen[section.OrderIndex] = label
	}
	if len(problems) > 0 {
		return services.Wrap(services.ErrValidation, "script", "validate", strings.Join(problems, "; "), nil)
	}
	return nil
}

// TotalWords sums word counts across sections.
func TotalWords(sections []Section) int {
	total := 0
	for _, section := range sections {
		total += section.WordCount()
	}
	return total
}
