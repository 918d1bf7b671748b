package pages

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
)

// CardTextLine is one paragraph of oracle text
type CardTextLine struct {
	Parts []CardTextPart
}

// CardTextPart is a run of text, a reminder-text parenthetical, or a mana symbol
type CardTextPart struct {
	Text       string
	Italic     bool
	IsMana     bool
	ManaSymbol string // inside the braces, e.g. "2", "W/U", "T"
}

var manaSymbol = regexp.MustCompile(`^\{([0-9A-Z/½∞]+)\}`)

// FormatCardText splits oracle text into paragraphs
func FormatCardText(text string) []CardTextLine {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	result := make([]CardTextLine, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result = append(result, formatLine(line))
	}
	return result
}

func formatLine(line string) CardTextLine {
	var result CardTextLine
	var current strings.Builder
	inParentheses := false

	flush := func(italic bool) {
		if current.Len() > 0 {
			result.Parts = append(result.Parts, CardTextPart{Text: current.String(), Italic: italic})
			current.Reset()
		}
	}

	remaining := line
	for len(remaining) > 0 {
		if m := manaSymbol.FindStringSubmatch(remaining); m != nil {
			flush(inParentheses)
			result.Parts = append(result.Parts, CardTextPart{IsMana: true, ManaSymbol: m[1], Italic: inParentheses})
			remaining = remaining[len(m[0]):]
			continue
		}

		r, size := utf8.DecodeRuneInString(remaining)
		remaining = remaining[size:]

		switch {
		case r == '(' && !inParentheses:
			flush(false)
			inParentheses = true
			current.WriteRune(r)
		case r == ')' && inParentheses:
			current.WriteRune(r)
			flush(true)
			inParentheses = false
		default:
			current.WriteRune(r)
		}
	}
	flush(inParentheses)
	return result
}

// CardText renders oracle text as paragraphs
func CardText(text string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.open("div", "class", "card-text")
		for _, line := range FormatCardText(text) {
			m.open("p")
			for _, part := range line.Parts {
				writeTextPart(m, part)
			}
			m.close("p")
		}
		m.close("div")
	})
}

func writeTextPart(m *markup, part CardTextPart) {
	if part.Italic {
		m.open("em")
		defer m.close("em")
	}
	if part.IsMana {
		m.element("abbr", "{"+part.ManaSymbol+"}", "class", "mana", "title", part.ManaSymbol)
		return
	}
	m.text(part.Text)
}
