package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"mtgfactory/internal/theme"
)

// Prompter asks line-based questions
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns io.EOF only when nothing was typed before end of input
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prompts for text, returning def on an empty answer
func (p *Prompter) Ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.out, "%s [%s]: ", label, hint)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ChooseTheme lists the themes and reads a choice, by number or by fuzzy
// name, until one matches
func (p *Prompter) ChooseTheme(themes []theme.Theme) (theme.Theme, error) {
	fmt.Fprintln(p.out, "Choose your deck color:")
	for i, t := range themes {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, t.Label())
	}

	for {
		answer, err := p.Ask("Deck", themes[0].ID)
		if err != nil {
			return theme.Theme{}, err
		}
		var n int
		if _, err := fmt.Sscanf(answer, "%d", &n); err == nil && n >= 1 && n <= len(themes) {
			return themes[n-1], nil
		}
		if t, ok := theme.Match(answer); ok {
			return t, nil
		}
		fmt.Fprintf(p.out, "Unknown deck %q, try again.\n", answer)
	}
}
