// Package formfill fills job application forms from an ApplicationProfile.
// The matcher only talks to the page through a DocumentAccessor, so the same
// logic runs over static HTML (HTMLDocument) and a live headless page
// (CDPDocument).
package formfill

import "github.com/jonathan/job-assistant/internal/types"

// Element is an opaque handle owned by a DocumentAccessor. Handles must be
// comparable; two queries that match the same node return equal handles.
type Element any

// Option is one entry of a <select> element, in DOM order.
type Option struct {
	Value string
	Label string
}

// DocumentAccessor is the DOM surface the matcher needs.
type DocumentAccessor interface {
	// QueryAll returns every element matching selector, in DOM order.
	QueryAll(selector string) ([]Element, error)
	Kind(el Element) types.ElementKind
	// IsVisible reports whether el is rendered: not display:none,
	// visibility:hidden or zero-sized, and neither is any ancestor.
	IsVisible(el Element) bool
	// Value returns the current value of an input or textarea. For a
	// select it returns the value of a non-default selection, or "" while
	// the first option is still selected.
	Value(el Element) string
	SetValue(el Element, value string) error
	Options(el Element) []Option
	SelectOption(el Element, index int) error
	// DispatchEvent fires a bubbling synthetic event named name on el.
	DispatchEvent(el Element, name string) error
}
