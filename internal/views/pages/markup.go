package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// markup writes HTML and keeps the first write error
type markup struct {
	w   io.Writer
	err error
}

func (m *markup) raw(parts ...string) {
	for _, s := range parts {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, s)
	}
}

func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

// open writes a start tag. attrs alternate name and value; values are escaped.
func (m *markup) open(tag string, attrs ...string) {
	m.raw("<", tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		m.raw(" ", attrs[i], `="`, templ.EscapeString(attrs[i+1]), `"`)
	}
	m.raw(">")
}

func (m *markup) close(tag string) {
	m.raw("</", tag, ">")
}

// element writes a start tag, escaped text and the end tag
func (m *markup) element(tag, text string, attrs ...string) {
	m.open(tag, attrs...)
	m.text(text)
	m.close(tag)
}

func (m *markup) render(ctx context.Context, c templ.Component) {
	if m.err != nil {
		return
	}
	m.err = c.Render(ctx, m.w)
}

var jsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

// jsString quotes s for use inside a datastar expression
func jsString(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}

// component adapts a markup writer function to templ
func component(fn func(ctx context.Context, m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		fn(ctx, m)
		return m.err
	})
}
