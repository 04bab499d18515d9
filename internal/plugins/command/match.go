package command

import (
	"strings"
	"unicode"
)

// Result is a scored search hit.
type Result struct {
	Command *Command
	Score   int
	// Matches holds the rune offsets of matched characters in the field
	// that produced the hit.
	Matches []int
}

// score rates query against cmd, preferring title hits, then id, then
// description and category. Zero means no match.
func score(query string, cmd *Command) (int, []int) {
	fields := []struct {
		text  string
		bonus int
	}{
		{cmd.Title, 50},
		{cmd.ID, 25},
		{cmd.Description, 0},
		{cmd.Category, 0},
	}
	for _, f := range fields {
		if s, m := fuzzy(query, f.text); s > 0 {
			return s + f.bonus, m
		}
	}
	return 0, nil
}

// fuzzy matches query as a subsequence of text. query must be lower case.
func fuzzy(query, text string) (int, []int) {
	if text == "" || query == "" {
		return 0, nil
	}
	q := []rune(query)
	src := []rune(text)
	lower := []rune(strings.ToLower(text))
	if len(lower) != len(src) {
		lower = src
	}

	matches := make([]int, 0, len(q))
	for i := 0; i < len(lower) && len(matches) < len(q); i++ {
		if lower[i] == q[len(matches)] {
			matches = append(matches, i)
		}
	}
	if len(matches) != len(q) {
		return 0, nil
	}

	s := 100
	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			s += 20
		}
	}
	for _, i := range matches {
		if boundary(src, i) {
			s += 15
		}
	}
	first, last := matches[0], matches[len(matches)-1]
	if first == 0 {
		s += 25
	}
	s -= 2 * (last - first - len(matches) + 1)
	s -= first
	if n := len(src); n < 20 {
		s += 20 - n
	}
	if strings.HasPrefix(string(lower), query) {
		s += 50
	}
	return max(s, 1), matches
}

func boundary(text []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev, cur := text[i-1], text[i]
	switch prev {
	case ' ', '.', '_', '-', '/', ':':
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
