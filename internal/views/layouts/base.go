// Package layouts holds the page shell shared by every full page.
package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// DatastarScript is the client runtime driving data-* attributes
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-RC.5/bundles/datastar.js"

const baseStyle = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f4f1ea; color: #222; }
.container { max-width: 960px; margin: 0 auto; padding: 1.5rem; }
`

// Base wraps its children in the document shell. The title is escaped.
func Base(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := "<!doctype html><html lang=\"en\"><head>" +
			"<meta charset=\"utf-8\">" +
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">" +
			"<title>" + templ.EscapeString(title) + "</title>" +
			"<link rel=\"stylesheet\" href=\"/static/css/app.css\">" +
			"<style>" + baseStyle + "</style>" +
			"<script type=\"module\" src=\"" + DatastarScript + "\"></script>" +
			"</head><body>"
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}

		children := templ.GetChildren(ctx)
		if err := children.Render(templ.ClearChildren(ctx), w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}
