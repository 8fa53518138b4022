package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/acs/lang"
)

// ctrlCommands are the commands accepted in control mode.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// wordBounds returns the identifier surrounding cursor and its byte range
// in input. The word is empty when cursor is not adjacent to an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completion candidates for the current mode.
// In eval mode these are the names visible from the session scope followed
// by the keywords.
func (m model) candidates() []string {
	if m.mode == modeCtrl {
		return ctrlCommands
	}

	names := m.session.Names()

	for _, kw := range lang.Keywords() {
		if !slices.Contains(names, kw) {
			names = append(names, kw)
		}
	}

	return names
}

// computeMatches ranks the candidates against the word at the cursor.
// An empty word yields no matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, start, end int) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, start, end
	}

	return fuzzy.Find(word, m.candidates()), start, end
}

// renderCandidateBar renders matches on one line no wider than width,
// ending in an ellipsis when some do not fit.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	more := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range m.matches {
		item := m.renderCandidate(match, m.tabActive && i == m.suggIdx)

		w := lipgloss.Width(item)
		if i > 0 {
			w += len(sep)
		}

		last := i == len(m.matches)-1
		if i > 0 && used+w+lipgloss.Width(more) > m.width && !last {
			b.WriteString(sep + more)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

// renderCandidate renders one match with its matched runes emphasized.
// Names bound to functions are shown with a "()" suffix.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	base, hit := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, hit = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if m.mode == modeEval && m.isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

func (m model) isFunction(name string) bool {
	b, ok := m.session.Lookup(name)
	if !ok {
		return false
	}

	_, ok = b.Value.(lang.Function)

	return ok
}

// preview renders a binding for the list command.
func preview(b lang.Binding) string {
	s := "<nil>"
	if b.Value != nil {
		s = b.Value.String()
	}

	if len(s) > 40 {
		s = s[:37] + "..."
	}

	return b.Modifier.String() + " " + s
}
