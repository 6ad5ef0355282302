package formfill

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/jonathan/job-assistant/internal/types"
)

// Event is a synthetic event recorded by HTMLDocument.
type Event struct {
	Target string `json:"target"`
	Name   string `json:"name"`
}

// HTMLDocument is a DocumentAccessor over static HTML. Writes mutate the
// parsed tree and dispatched events are recorded instead of fired, so a
// fill pass can be previewed without a browser.
type HTMLDocument struct {
	doc    *goquery.Document
	scope  *goquery.Selection
	events *[]Event
}

// NewHTMLDocument parses src.
func NewHTMLDocument(src string) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLDocument{doc: doc, scope: doc.Selection, events: &[]Event{}}, nil
}

// Within narrows queries to the elements matching selector, such as a
// single application form. Events are shared with d.
func (d *HTMLDocument) Within(selector string) *HTMLDocument {
	return &HTMLDocument{doc: d.doc, scope: d.scope.Find(selector), events: d.events}
}

// Events returns the dispatched events in order.
func (d *HTMLDocument) Events() []Event {
	return append([]Event(nil), (*d.events)...)
}

// HTML renders the document including every value written so far.
func (d *HTMLDocument) HTML() (string, error) {
	return d.doc.Html()
}

// QueryAll implements DocumentAccessor. Handles are *html.Node.
func (d *HTMLDocument) QueryAll(selector string) ([]Element, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	sel := d.scope.FindMatcher(matcher)
	out := make([]Element, 0, sel.Length())
	for _, n := range sel.Nodes {
		out = append(out, n)
	}
	return out, nil
}

// nonTextInputs are input types the matcher never writes to.
var nonTextInputs = map[string]bool{
	"hidden": true, "checkbox": true, "radio": true, "file": true, "submit": true,
	"button": true, "image": true, "reset": true,
}

// Kind implements DocumentAccessor.
func (d *HTMLDocument) Kind(el Element) types.ElementKind {
	s := d.sel(el)
	switch goquery.NodeName(s) {
	case "input":
		if nonTextInputs[strings.ToLower(s.AttrOr("type", "text"))] {
			return types.ElementOther
		}
		return types.ElementInput
	case "select":
		return types.ElementSelect
	case "textarea":
		return types.ElementTextarea
	default:
		return types.ElementOther
	}
}

// IsVisible implements DocumentAccessor using inline styles and the hidden
// attribute of el and its ancestors.
func (d *HTMLDocument) IsVisible(el Element) bool {
	s := d.sel(el)
	if goquery.NodeName(s) == "input" && strings.EqualFold(s.AttrOr("type", ""), "hidden") {
		return false
	}
	for n := s; n.Length() > 0; n = n.Parent() {
		if _, hidden := n.Attr("hidden"); hidden {
			return false
		}
		if hiddenStyle(n.AttrOr("style", "")) {
			return false
		}
	}
	return true
}

func hiddenStyle(style string) bool {
	style = strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if style == "" {
		return false
	}
	for _, decl := range strings.Split(style, ";") {
		switch decl {
		case "display:none", "visibility:hidden", "width:0", "width:0px", "height:0", "height:0px":
			return true
		}
	}
	return false
}

// Value implements DocumentAccessor.
func (d *HTMLDocument) Value(el Element) string {
	s := d.sel(el)
	switch goquery.NodeName(s) {
	case "textarea":
		return s.Text()
	case "select":
		options := s.Find("option")
		index := selectedIndex(options)
		if index <= 0 {
			return ""
		}
		return optionValue(options.Eq(index))
	default:
		return s.AttrOr("value", "")
	}
}

// SetValue implements DocumentAccessor.
func (d *HTMLDocument) SetValue(el Element, value string) error {
	s := d.sel(el)
	switch goquery.NodeName(s) {
	case "textarea":
		s.SetText(value)
	case "input":
		s.SetAttr("value", value)
	default:
		return fmt.Errorf("cannot set value on <%s>", goquery.NodeName(s))
	}
	return nil
}

// Options implements DocumentAccessor.
func (d *HTMLDocument) Options(el Element) []Option {
	var out []Option
	d.sel(el).Find("option").Each(func(_ int, o *goquery.Selection) {
		out = append(out, Option{Value: optionValue(o), Label: strings.TrimSpace(o.Text())})
	})
	return out
}

// SelectOption implements DocumentAccessor.
func (d *HTMLDocument) SelectOption(el Element, index int) error {
	options := d.sel(el).Find("option")
	if index < 0 || index >= options.Length() {
		return fmt.Errorf("option index %d out of range", index)
	}
	options.RemoveAttr("selected")
	options.Eq(index).SetAttr("selected", "selected")
	return nil
}

// DispatchEvent implements DocumentAccessor.
func (d *HTMLDocument) DispatchEvent(el Element, name string) error {
	*d.events = append(*d.events, Event{Target: describe(d.sel(el)), Name: name})
	return nil
}

func (d *HTMLDocument) sel(el Element) *goquery.Selection {
	n, ok := el.(*html.Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("formfill: foreign element handle %T", el))
	}
	return d.doc.FindNodes(n)
}

func selectedIndex(options *goquery.Selection) int {
	index := -1
	options.EachWithBreak(func(i int, o *goquery.Selection) bool {
		if _, ok := o.Attr("selected"); ok {
			index = i
			return false
		}
		return true
	})
	if index < 0 && options.Length() > 0 {
		return 0
	}
	return index
}

func optionValue(o *goquery.Selection) string {
	if v, ok := o.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(o.Text())
}

// describe renders a short CSS-like label for an element.
func describe(s *goquery.Selection) string {
	label := goquery.NodeName(s)
	if id := s.AttrOr("id", ""); id != "" {
		return label + "#" + id
	}
	if name := s.AttrOr("name", ""); name != "" {
		return label + `[name="` + name + `"]`
	}
	return label
}
