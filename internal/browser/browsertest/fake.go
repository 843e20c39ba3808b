// Package browsertest provides in-memory pages and elements for exercising
// code written against the browser interfaces.
package browsertest

import (
	"context"
	"fmt"
	"strings"

	"github.com/law-makers/partscrape/internal/browser"
)

// Element is a scripted element. Children are keyed by the locator used to find them.
type Element struct {
	Content  string
	TextErr  error
	ClickErr error
	FindErr  error
	Children map[browser.Locator][]browser.Element

	Clicks int
}

// Text returns Content or TextErr
func (e *Element) Text(ctx context.Context) (string, error) {
	if e.TextErr != nil {
		return "", e.TextErr
	}
	return e.Content, nil
}

// Click counts the click or returns ClickErr
func (e *Element) Click(ctx context.Context) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

// FindElements returns the children registered under loc
func (e *Element) FindElements(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	if e.FindErr != nil {
		return nil, e.FindErr
	}
	return e.Children[loc], nil
}

// Table builds a table element whose rows hold the given cell texts
func Table(rows ...[]string) *Element {
	trs := make([]browser.Element, len(rows))
	for i, cells := range rows {
		trs[i] = Row(cells...)
	}
	return &Element{Children: map[browser.Locator][]browser.Element{browser.ByTag("tr"): trs}}
}

// Row builds a tr element with one td per cell text
func Row(cells ...string) *Element {
	tds := make([]browser.Element, len(cells))
	for i, c := range cells {
		tds[i] = &Element{Content: c}
	}
	return &Element{Children: map[browser.Locator][]browser.Element{browser.ByTag("td"): tds}}
}

// Page is a scripted document
type Page struct {
	Elements map[browser.Locator][]browser.Element
	Markup   string
	FindErr  error

	Finds int
}

// NewPage returns an empty page
func NewPage() *Page {
	return &Page{Elements: make(map[browser.Locator][]browser.Element)}
}

// Add registers els under loc
func (p *Page) Add(loc browser.Locator, els ...browser.Element) *Page {
	p.Elements[loc] = append(p.Elements[loc], els...)
	return p
}

// FindElement returns the first element registered under loc
func (p *Page) FindElement(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	els, err := p.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	return els[0], nil
}

// FindElements returns every element registered under loc
func (p *Page) FindElements(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	p.Finds++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.FindErr != nil {
		return nil, p.FindErr
	}
	return p.Elements[loc], nil
}

// HTML returns Markup, or a table rendering of the registered tables when Markup is empty
func (p *Page) HTML(ctx context.Context) (string, error) {
	if p.Markup != "" {
		return p.Markup, nil
	}
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, t := range p.Elements[browser.ByTag("table")] {
		b.WriteString("<table>")
		for _, tr := range children(t, "tr") {
			b.WriteString("<tr>")
			for _, td := range children(tr, "td") {
				text, _ := td.Text(ctx)
				b.WriteString("<td>" + text + "</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")
	}
	b.WriteString("</body></html>")
	return b.String(), nil
}

func children(el browser.Element, tag string) []browser.Element {
	if e, ok := el.(*Element); ok {
		return e.Children[browser.ByTag(tag)]
	}
	return nil
}
