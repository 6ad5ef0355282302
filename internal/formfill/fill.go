package formfill

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/job-assistant/internal/types"
)

// inputEvents are dispatched after writing an input or textarea so reactive
// frameworks pick up the programmatic change.
var inputEvents = []string{"input", "change", "blur", "focus", "keyup"}

// selectEvents are dispatched after changing a select.
var selectEvents = []string{"change"}

// Skip reasons reported in FillReport.Skipped.
const (
	ReasonHidden      = "not visible"
	ReasonHasValue    = "already has a value"
	ReasonUnsupported = "unsupported element"
	ReasonNoOption    = "no matching option"
)

var errNoOption = errors.New(ReasonNoOption)

// Fill writes every usable profile value into the matching empty, visible
// elements of doc. It never overwrites existing input and never fails: a
// problem with one element is recorded in the report and the pass goes on.
// FieldsFound counts every attempted element and FieldsFilled the writes
// that succeeded.
func Fill(profile *types.ApplicationProfile, doc DocumentAccessor) types.FillReport {
	report := types.FillReport{}
	if profile == nil || doc == nil {
		return report
	}
	values := profile.Values()
	attempted := make(map[Element]bool)

	for _, m := range mappings {
		value, ok := values[m.Key]
		if !ok {
			continue
		}
		for _, c := range candidates(doc, m, attempted) {
			report.FieldsFound++
			if reason := fillOne(doc, m, c, value); reason != "" {
				report.Skipped = append(report.Skipped, types.SkippedField{
					ProfileKey: m.Key,
					Selector:   c.MatchedSelector,
					Reason:     reason,
				})
				continue
			}
			report.FieldsFilled++
			report.Filled = append(report.Filled, types.FilledField{
				ProfileKey: m.Key,
				Selector:   c.MatchedSelector,
				Kind:       c.Kind,
				Value:      value,
			})
		}
	}
	return report
}

// candidates collects the union of all selector matches for m that have not
// been attempted by an earlier mapping.
func candidates(doc DocumentAccessor, m Mapping, attempted map[Element]bool) []types.FormFieldCandidate {
	var out []types.FormFieldCandidate
	for _, selector := range m.Selectors {
		elements, err := queryAll(doc, selector)
		if err != nil {
			log.Printf("[fill] selector %q failed: %v", selector, err)
			continue
		}
		for _, el := range elements {
			if attempted[el] {
				continue
			}
			attempted[el] = true
			out = append(out, types.FormFieldCandidate{
				Element:         el,
				MatchedSelector: selector,
				ProfileKey:      m.Key,
				Kind:            kindOf(doc, el),
			})
		}
	}
	return out
}

// fillOne writes value into one candidate and returns "" on success or the
// reason it was skipped.
func fillOne(doc DocumentAccessor, m Mapping, c types.FormFieldCandidate, value string) (reason string) {
	defer func() {
		if r := recover(); r != nil {
			reason = fmt.Sprintf("error: %v", r)
		}
	}()

	if c.Kind == types.ElementOther || !m.accepts(c.Kind) {
		return ReasonUnsupported
	}
	if !doc.IsVisible(c.Element) {
		return ReasonHidden
	}
	if strings.TrimSpace(doc.Value(c.Element)) != "" {
		return ReasonHasValue
	}

	var err error
	if c.Kind == types.ElementSelect {
		err = fillSelect(doc, c.Element, value)
	} else {
		err = fillText(doc, c.Element, value)
	}
	if err != nil {
		if errors.Is(err, errNoOption) {
			return ReasonNoOption
		}
		return "error: " + err.Error()
	}
	return ""
}

func fillText(doc DocumentAccessor, el Element, value string) error {
	if err := doc.SetValue(el, value); err != nil {
		return err
	}
	return dispatch(doc, el, inputEvents)
}

func fillSelect(doc DocumentAccessor, el Element, value string) error {
	index := MatchOption(doc.Options(el), value)
	if index < 0 {
		return errNoOption
	}
	if err := doc.SelectOption(el, index); err != nil {
		return err
	}
	return dispatch(doc, el, selectEvents)
}

// dispatch fires every event even if an earlier one failed, and reports the
// first failure.
func dispatch(doc DocumentAccessor, el Element, events []string) error {
	var first error
	for _, name := range events {
		if err := doc.DispatchEvent(el, name); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// MatchOption returns the index of the option that best matches value, or
// -1. An exact case-insensitive match on value or label wins; otherwise the
// first option whose value or label contains value, or is contained in it.
// Options with neither value nor label never match.
func MatchOption(options []Option, value string) int {
	want := strings.ToLower(strings.TrimSpace(value))
	if want == "" {
		return -1
	}
	for i, o := range options {
		if strings.ToLower(strings.TrimSpace(o.Value)) == want || strings.ToLower(strings.TrimSpace(o.Label)) == want {
			return i
		}
	}
	for i, o := range options {
		for _, s := range []string{o.Value, o.Label} {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if strings.Contains(s, want) || strings.Contains(want, s) {
				return i
			}
		}
	}
	return -1
}

func queryAll(doc DocumentAccessor, selector string) (elements []Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query panicked: %v", r)
		}
	}()
	return doc.QueryAll(selector)
}

func kindOf(doc DocumentAccessor, el Element) (kind types.ElementKind) {
	defer func() {
		if r := recover(); r != nil {
			kind = types.ElementOther
		}
	}()
	return doc.Kind(el)
}
