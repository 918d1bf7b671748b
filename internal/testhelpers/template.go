package testhelpers

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
)

// TemplateRenderer renders templ components and runs assertions on the
// parsed HTML
type TemplateRenderer struct {
	t      *testing.T
	buffer *bytes.Buffer
	html   string
	doc    *goquery.Document
}

// NewTemplateRenderer creates a new template renderer for testing
func NewTemplateRenderer(t *testing.T) *TemplateRenderer {
	return &TemplateRenderer{
		t:      t,
		buffer: &bytes.Buffer{},
	}
}

// Render renders a templ component and parses the result
func (r *TemplateRenderer) Render(component templ.Component) *TemplateRenderer {
	r.t.Helper()
	r.buffer.Reset()
	if err := component.Render(context.Background(), r.buffer); err != nil {
		r.t.Fatalf("Failed to render template: %v", err)
	}
	r.html = r.buffer.String()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.html))
	if err != nil {
		r.t.Fatalf("Failed to parse rendered HTML: %v", err)
	}
	r.doc = doc
	return r
}

// GetHTML returns the rendered HTML
func (r *TemplateRenderer) GetHTML() string {
	return r.html
}

// Find runs a CSS selector against the rendered document
func (r *TemplateRenderer) Find(selector string) *goquery.Selection {
	return r.doc.Find(selector)
}

// AssertContains checks if the rendered HTML contains a substring
func (r *TemplateRenderer) AssertContains(substring string) *TemplateRenderer {
	r.t.Helper()
	if !strings.Contains(r.html, substring) {
		r.t.Errorf("Expected HTML to contain %q, but it didn't.\nHTML: %s", substring, r.html)
	}
	return r
}

// AssertNotContains checks if the rendered HTML does not contain a substring
func (r *TemplateRenderer) AssertNotContains(substring string) *TemplateRenderer {
	r.t.Helper()
	if strings.Contains(r.html, substring) {
		r.t.Errorf("Expected HTML not to contain %q, but it did.\nHTML: %s", substring, r.html)
	}
	return r
}

// AssertMatches checks if the rendered HTML matches a regex pattern
func (r *TemplateRenderer) AssertMatches(pattern string) *TemplateRenderer {
	r.t.Helper()
	matched, err := regexp.MatchString(pattern, r.html)
	if err != nil {
		r.t.Fatalf("Invalid regex pattern %q: %v", pattern, err)
	}
	if !matched {
		r.t.Errorf("Expected HTML to match pattern %q, but it didn't.\nHTML: %s", pattern, r.html)
	}
	return r
}

// AssertSelector checks that at least one element matches selector
func (r *TemplateRenderer) AssertSelector(selector string) *TemplateRenderer {
	r.t.Helper()
	if r.doc.Find(selector).Length() == 0 {
		r.t.Errorf("Expected an element matching %q, found none.\nHTML: %s", selector, r.html)
	}
	return r
}

// AssertNoSelector checks that nothing matches selector
func (r *TemplateRenderer) AssertNoSelector(selector string) *TemplateRenderer {
	r.t.Helper()
	if n := r.doc.Find(selector).Length(); n != 0 {
		r.t.Errorf("Expected no element matching %q, found %d.\nHTML: %s", selector, n, r.html)
	}
	return r
}

// AssertText checks the trimmed text of the first element matching selector
func (r *TemplateRenderer) AssertText(selector, want string) *TemplateRenderer {
	r.t.Helper()
	sel := r.doc.Find(selector).First()
	if sel.Length() == 0 {
		r.t.Errorf("Expected an element matching %q, found none.\nHTML: %s", selector, r.html)
		return r
	}
	if got := strings.TrimSpace(sel.Text()); got != want {
		r.t.Errorf("Expected %q text %q, got %q", selector, want, got)
	}
	return r
}

// AssertAttr checks an attribute of the first element matching selector
func (r *TemplateRenderer) AssertAttr(selector, attr, want string) *TemplateRenderer {
	r.t.Helper()
	got, ok := r.doc.Find(selector).First().Attr(attr)
	if !ok {
		r.t.Errorf("Expected %q to have attribute %s.\nHTML: %s", selector, attr, r.html)
		return r
	}
	if got != want {
		r.t.Errorf("Expected %q %s=%q, got %q", selector, attr, want, got)
	}
	return r
}

// AssertHasDatastarAttribute checks if any element has data-<attribute>="value"
func (r *TemplateRenderer) AssertHasDatastarAttribute(attribute, value string) *TemplateRenderer {
	r.t.Helper()
	attrName := "data-" + attribute
	found := false
	r.doc.Find("[" + attrName + "]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr(attrName); v == value {
			found = true
			return false
		}
		return true
	})
	if !found {
		r.t.Errorf("Expected to find attribute %s with value %q, but didn't find it.\nHTML: %s", attrName, value, r.html)
	}
	return r
}

// AssertHasElement checks if the HTML contains a specific element
func (r *TemplateRenderer) AssertHasElement(tagName string) *TemplateRenderer {
	r.t.Helper()
	if r.doc.Find(tagName).Length() == 0 {
		r.t.Errorf("Expected to find element <%s>, but didn't find it.\nHTML: %s", tagName, r.html)
	}
	return r
}

// AssertHasElementWithID checks if the HTML contains an element with a specific ID
func (r *TemplateRenderer) AssertHasElementWithID(id string) *TemplateRenderer {
	r.t.Helper()
	if r.doc.Find(`[id="`+id+`"]`).Length() == 0 {
		r.t.Errorf("Expected to find element with id=%q, but didn't find it.\nHTML: %s", id, r.html)
	}
	return r
}

// AssertHasClass checks if any element has a specific CSS class
func (r *TemplateRenderer) AssertHasClass(className string) *TemplateRenderer {
	r.t.Helper()
	if r.doc.Find("."+className).Length() == 0 {
		r.t.Errorf("Expected to find element with class %q, but didn't find it.\nHTML: %s", className, r.html)
	}
	return r
}

// CountElements counts the elements matching a selector
func (r *TemplateRenderer) CountElements(selector string) int {
	return r.doc.Find(selector).Length()
}

// AssertElementCount checks how many elements match a selector
func (r *TemplateRenderer) AssertElementCount(selector string, expectedCount int) *TemplateRenderer {
	r.t.Helper()
	if count := r.CountElements(selector); count != expectedCount {
		r.t.Errorf("Expected %d %q elements, but found %d.\nHTML: %s", expectedCount, selector, count, r.html)
	}
	return r
}

// AssertNotEmpty checks that the rendered HTML is not empty
func (r *TemplateRenderer) AssertNotEmpty() *TemplateRenderer {
	r.t.Helper()
	if len(strings.TrimSpace(r.html)) == 0 {
		r.t.Error("Expected non-empty HTML, but got empty content")
	}
	return r
}

var (
	openTag  = regexp.MustCompile(`<(\w+)(?:\s[^>]*)?>`)
	closeTag = regexp.MustCompile(`</(\w+)>`)
)

// AssertValid checks that every non-void tag is closed. The HTML parser is
// lenient, so this runs on the raw markup.
func (r *TemplateRenderer) AssertValid() *TemplateRenderer {
	r.t.Helper()
	counts := make(map[string]int)
	for _, m := range openTag.FindAllStringSubmatch(r.html, -1) {
		if !isVoidElement(m[1]) {
			counts[strings.ToLower(m[1])]++
		}
	}
	for _, m := range closeTag.FindAllStringSubmatch(r.html, -1) {
		counts[strings.ToLower(m[1])]--
	}
	for tag, count := range counts {
		if count != 0 {
			r.t.Errorf("Mismatched tags: <%s> opened %d more times than closed", tag, count)
		}
	}
	return r
}

func isVoidElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
