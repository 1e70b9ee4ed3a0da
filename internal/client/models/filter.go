package models

import (
	"slices"
	"sort"
	"strings"
)

// FilterCards keeps the cards matching term and language. term matches
// case-insensitively against the full name, phonetic spelling, owner name
// and description; language must be one of the card's language codes.
// An empty term or language does not filter.
func FilterCards(cards []NameCard, term, language string) []NameCard {
	term = strings.ToLower(strings.TrimSpace(term))
	language = strings.TrimSpace(language)

	out := make([]NameCard, 0, len(cards))
	for _, c := range cards {
		if term != "" && !c.matches(term) {
			continue
		}
		if language != "" && !slices.Contains(c.Languages, language) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (c NameCard) matches(lowerTerm string) bool {
	for _, s := range []string{c.FullName, c.PhoneticSpelling, c.UserName, c.Description} {
		if strings.Contains(strings.ToLower(s), lowerTerm) {
			return true
		}
	}
	return false
}

// Languages lists the distinct language codes used by cards, sorted.
func Languages(cards []NameCard) []string {
	seen := map[string]struct{}{}
	for _, c := range cards {
		for _, l := range c.Languages {
			seen[l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
