package formfill

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/types"
)

// handleAttr tags every element returned by QueryAll so later calls can find
// it again. Tags are stable for the life of the page.
const handleAttr = "data-ja-handle"

// cdpElement is the handle type used by CDPDocument.
type cdpElement string

// CDPDocument is a DocumentAccessor over a live page driven through the
// Chrome DevTools Protocol. ctx must be a chromedp context whose tab has
// already loaded the page.
type CDPDocument struct {
	ctx context.Context
}

// NewCDPDocument wraps a chromedp tab context.
func NewCDPDocument(ctx context.Context) *CDPDocument {
	return &CDPDocument{ctx: ctx}
}

// FillURL opens pageURL in headless Chrome, fills it from profile and
// returns the report. The page is discarded afterwards; the result shows
// what a fill pass on the real form would do.
func FillURL(ctx context.Context, pageURL string, profile *types.ApplicationProfile, timeout time.Duration, verbose bool) (types.FillReport, error) {
	if _, err := fetch.ValidateURL(pageURL); err != nil {
		return types.FillReport{}, err
	}
	if verbose {
		log.Printf("[BROWSER] Opening application form: %s", pageURL)
	}

	browserCtx, cancel := fetch.NewBrowserContext(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	); err != nil {
		return types.FillReport{}, fmt.Errorf("failed to load form: %w", err)
	}

	report := Fill(profile, NewCDPDocument(browserCtx))
	if verbose {
		log.Printf("[BROWSER] Filled %d of %d fields", report.FieldsFilled, report.FieldsFound)
	}
	return report, nil
}

// QueryAll implements DocumentAccessor.
func (c *CDPDocument) QueryAll(selector string) ([]Element, error) {
	var handles []string
	js := fmt.Sprintf(`(() => {
		window.__jaSeq = window.__jaSeq || 0;
		return Array.from(document.querySelectorAll(%s)).map(el => {
			if (!el.hasAttribute(%s)) el.setAttribute(%s, String(++window.__jaSeq));
			return el.getAttribute(%s);
		});
	})()`, quote(selector), quote(handleAttr), quote(handleAttr), quote(handleAttr))
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(js, &handles)); err != nil {
		return nil, err
	}
	out := make([]Element, len(handles))
	for i, h := range handles {
		out[i] = cdpElement(h)
	}
	return out, nil
}

// Kind implements DocumentAccessor.
func (c *CDPDocument) Kind(el Element) types.ElementKind {
	var kind string
	err := c.eval(el, `(() => {
		const tag = el.tagName.toLowerCase();
		if (tag === "input") {
			const skip = ["hidden","checkbox","radio","file","submit","button","image","reset"];
			return skip.includes((el.type || "text").toLowerCase()) ? "other" : "input";
		}
		return ["select","textarea"].includes(tag) ? tag : "other";
	})()`, &kind)
	if err != nil {
		return types.ElementOther
	}
	return types.ElementKind(kind)
}

// IsVisible implements DocumentAccessor using computed style and layout.
func (c *CDPDocument) IsVisible(el Element) bool {
	var visible bool
	err := c.eval(el, `(() => {
		const style = window.getComputedStyle(el);
		if (style.display === "none" || style.visibility === "hidden") return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	})()`, &visible)
	return err == nil && visible
}

// Value implements DocumentAccessor.
func (c *CDPDocument) Value(el Element) string {
	var value string
	err := c.eval(el, `(() => {
		if (el.tagName.toLowerCase() === "select") return el.selectedIndex > 0 ? el.value : "";
		return el.value || "";
	})()`, &value)
	if err != nil {
		return ""
	}
	return value
}

// SetValue implements DocumentAccessor. The native value setter is used so
// React-controlled inputs register the change.
func (c *CDPDocument) SetValue(el Element, value string) error {
	var ok bool
	return c.eval(el, fmt.Sprintf(`(() => {
		const proto = el.tagName.toLowerCase() === "textarea" ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
		const setter = Object.getOwnPropertyDescriptor(proto, "value").set;
		setter.call(el, %s);
		return true;
	})()`, quote(value)), &ok)
}

// Options implements DocumentAccessor.
func (c *CDPDocument) Options(el Element) []Option {
	var raw []struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	if err := c.eval(el, `Array.from(el.options || []).map(o => ({value: o.value, label: (o.label || o.text || "").trim()}))`, &raw); err != nil {
		return nil
	}
	out := make([]Option, len(raw))
	for i, o := range raw {
		out[i] = Option{Value: o.Value, Label: o.Label}
	}
	return out
}

// SelectOption implements DocumentAccessor.
func (c *CDPDocument) SelectOption(el Element, index int) error {
	var ok bool
	if err := c.eval(el, fmt.Sprintf(`(() => {
		if (%d >= el.options.length) return false;
		el.selectedIndex = %d;
		return true;
	})()`, index, index), &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("option index %d out of range", index)
	}
	return nil
}

// DispatchEvent implements DocumentAccessor.
func (c *CDPDocument) DispatchEvent(el Element, name string) error {
	var ok bool
	return c.eval(el, fmt.Sprintf(`el.dispatchEvent(new Event(%s, {bubbles: true}))`, quote(name)), &ok)
}

// eval runs expr with el bound to the element behind handle.
func (c *CDPDocument) eval(handle Element, expr string, res any) error {
	h, ok := handle.(cdpElement)
	if !ok {
		return fmt.Errorf("foreign element handle %T", handle)
	}
	js := fmt.Sprintf(`((el) => {
		if (!el) throw new Error("element detached");
		return %s;
	})(document.querySelector(%s))`, expr, quote(fmt.Sprintf(`[%s="%s"]`, handleAttr, string(h))))
	return chromedp.Run(c.ctx, chromedp.Evaluate(js, res))
}

// quote renders s as a JavaScript string literal.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
