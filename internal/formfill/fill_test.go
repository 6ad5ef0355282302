package formfill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-assistant/internal/types"
)

func mustHTML(t *testing.T, src string) *HTMLDocument {
	t.Helper()
	doc, err := NewHTMLDocument(src)
	require.NoError(t, err)
	return doc
}

func eventNames(events []Event, target string) []string {
	var out []string
	for _, e := range events {
		if e.Target == target {
			out = append(out, e.Name)
		}
	}
	return out
}

func TestFill_FirstNameAndRelocateSelect(t *testing.T) {
	doc := mustHTML(t, `<form>
		<input name="firstName">
		<select name="relocate"><option>Yes</option><option>No</option></select>
	</form>`)
	profile := &types.ApplicationProfile{FirstName: "Jane", WillingToRelocate: types.BoolPtr(true)}

	report := Fill(profile, doc)

	assert.Equal(t, 2, report.FieldsFound)
	assert.Equal(t, 2, report.FieldsFilled)

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `<input name="firstName" value="Jane"/>`)
	assert.Contains(t, html, `<option selected="selected">Yes</option>`)

	events := doc.Events()
	assert.Equal(t, []string{"input", "change", "blur", "focus", "keyup"}, eventNames(events, `input[name="firstName"]`))
	assert.Equal(t, []string{"change"}, eventNames(events, `select[name="relocate"]`))
}

func TestFill_PlaceholderValueSkipsField(t *testing.T) {
	doc := mustHTML(t, `<form><input name="firstName"><input name="email"></form>`)
	profile := &types.ApplicationProfile{FirstName: "undefined", Email: "null"}

	report := Fill(profile, doc)

	assert.Zero(t, report.FieldsFound)
	assert.Zero(t, report.FieldsFilled)
	assert.Empty(t, doc.Events())
	html, err := doc.HTML()
	require.NoError(t, err)
	assert.NotContains(t, html, "undefined")
}

func TestFill_NeverOverwrites(t *testing.T) {
	doc := mustHTML(t, `<form>
		<input name="email" value="typed@example.com">
		<textarea name="coverLetter">My own letter</textarea>
		<select name="relocate"><option value="">Choose</option><option value="no" selected>No</option><option value="yes">Yes</option></select>
	</form>`)
	profile := &types.ApplicationProfile{
		Email:             "jane@example.com",
		CoverLetter:       "Generated letter",
		WillingToRelocate: types.BoolPtr(true),
	}

	report := Fill(profile, doc)

	assert.Equal(t, 3, report.FieldsFound)
	assert.Zero(t, report.FieldsFilled)
	for _, s := range report.Skipped {
		assert.Equal(t, ReasonHasValue, s.Reason)
	}
	assert.Empty(t, doc.Events())
}

func TestFill_SkipsHiddenElements(t *testing.T) {
	doc := mustHTML(t, `<form>
		<input name="phone" style="display: none">
		<div style="visibility:hidden"><input id="phone_number"></div>
		<div hidden><input name="mobile"></div>
		<input name="telephone" style="width:0;height:0">
		<input type="tel" name="contact">
	</form>`)
	profile := &types.ApplicationProfile{Phone: "555-0100"}

	report := Fill(profile, doc)

	assert.Equal(t, 5, report.FieldsFound)
	assert.Equal(t, 1, report.FieldsFilled)
	require.Len(t, report.Filled, 1)
	assert.Equal(t, `input[type="tel"]`, report.Filled[0].Selector)
}

func TestFill_AdditiveSelectorsDeduplicated(t *testing.T) {
	// matched by both [name="email"], [id="email"] and input[type="email"]
	doc := mustHTML(t, `<form>
		<input type="email" name="email" id="email">
		<input name="email_address">
	</form>`)
	profile := &types.ApplicationProfile{Email: "jane@example.com"}

	report := Fill(profile, doc)

	assert.Equal(t, 2, report.FieldsFound)
	assert.Equal(t, 2, report.FieldsFilled)
}

func TestFill_SpecificKeysClaimElementsFirst(t *testing.T) {
	doc := mustHTML(t, `<form><input name="first_name" autocomplete="name"><input name="name"></form>`)
	profile := &types.ApplicationProfile{FirstName: "Jane", LastName: "Doe"}

	report := Fill(profile, doc)

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `<input name="first_name" autocomplete="name" value="Jane"/>`)
	assert.Contains(t, html, `<input name="name" value="Jane Doe"/>`)
	assert.Equal(t, 2, report.FieldsFilled)
}

func TestFill_SelectSubstringMatch(t *testing.T) {
	doc := mustHTML(t, `<form>
		<select name="workAuthorization">
			<option value="">Select...</option>
			<option value="y">Yes, I am authorized</option>
			<option value="n">No</option>
		</select>
		<select name="sponsorship">
			<option value="">--</option>
			<option value="maybe">Maybe</option>
		</select>
	</form>`)
	profile := &types.ApplicationProfile{
		WorkAuthorization:   types.BoolPtr(true),
		RequiresSponsorship: types.BoolPtr(false),
	}

	report := Fill(profile, doc)

	assert.Equal(t, 2, report.FieldsFound)
	assert.Equal(t, 1, report.FieldsFilled)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, ReasonNoOption, report.Skipped[0].Reason)

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `<option value="y" selected="selected">Yes, I am authorized</option>`)
}

func TestFill_KindRestrictions(t *testing.T) {
	doc := mustHTML(t, `<form>
		<input name="coverLetter">
		<input type="checkbox" name="relocate">
		<textarea name="cover_letter"></textarea>
	</form>`)
	profile := &types.ApplicationProfile{CoverLetter: "Hello", WillingToRelocate: types.BoolPtr(true)}

	report := Fill(profile, doc)

	assert.Equal(t, 3, report.FieldsFound)
	assert.Equal(t, 1, report.FieldsFilled)
	assert.Equal(t, types.ElementTextarea, report.Filled[0].Kind)

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `<textarea name="cover_letter">Hello</textarea>`)
}

func TestFill_Within(t *testing.T) {
	doc := mustHTML(t, `<body>
		<form id="search"><input name="email"></form>
		<form id="apply"><input name="email"></form>
	</body>`)

	report := Fill(&types.ApplicationProfile{Email: "jane@example.com"}, doc.Within("#apply"))

	assert.Equal(t, 1, report.FieldsFilled)
	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `<form id="search"><input name="email"/></form>`)
}

func TestFill_NilInputs(t *testing.T) {
	assert.Equal(t, types.FillReport{}, Fill(nil, mustHTML(t, "<input name=email>")))
	assert.Equal(t, types.FillReport{}, Fill(&types.ApplicationProfile{Email: "a@b.co"}, nil))
}

// flakyDoc wraps an HTMLDocument and fails or panics on selected operations.
type flakyDoc struct {
	*HTMLDocument
	panicOnSet  bool
	failQueries bool
}

func (f *flakyDoc) QueryAll(selector string) ([]Element, error) {
	if f.failQueries && selector == `[name="email"]` {
		return nil, errors.New("detached frame")
	}
	return f.HTMLDocument.QueryAll(selector)
}

func (f *flakyDoc) SetValue(el Element, value string) error {
	if f.panicOnSet {
		panic("element detached")
	}
	return f.HTMLDocument.SetValue(el, value)
}

func TestFill_PerElementFailuresDoNotAbort(t *testing.T) {
	inner := mustHTML(t, `<form>
		<input name="firstName">
		<select name="relocate"><option>Yes</option><option>No</option></select>
	</form>`)
	doc := &flakyDoc{HTMLDocument: inner, panicOnSet: true}

	report := Fill(&types.ApplicationProfile{FirstName: "Jane", WillingToRelocate: types.BoolPtr(true)}, doc)

	assert.Equal(t, 2, report.FieldsFound)
	assert.Equal(t, 1, report.FieldsFilled)
	assert.LessOrEqual(t, report.FieldsFilled, report.FieldsFound)
	require.Len(t, report.Skipped, 1)
	assert.Contains(t, report.Skipped[0].Reason, "element detached")
}

func TestFill_QueryErrorsAreSkipped(t *testing.T) {
	inner := mustHTML(t, `<form><input name="email"><input id="email"></form>`)
	doc := &flakyDoc{HTMLDocument: inner, failQueries: true}

	report := Fill(&types.ApplicationProfile{Email: "jane@example.com"}, doc)

	assert.Equal(t, 1, report.FieldsFound)
	assert.Equal(t, 1, report.FieldsFilled)
}

func TestMatchOption(t *testing.T) {
	options := []Option{
		{Value: "", Label: "Please select"},
		{Value: "remote_ok", Label: "Yes - remote is fine"},
		{Value: "YES", Label: "Affirmative"},
	}
	assert.Equal(t, 2, MatchOption(options, "yes"), "exact value beats earlier substring")
	assert.Equal(t, 1, MatchOption(options, "remote"), "option contains value")
	assert.Equal(t, 0, MatchOption([]Option{{Label: "CA"}, {Label: "California"}}, "California, USA"), "value contains option, DOM order wins")
	assert.Equal(t, -1, MatchOption(options, "banana"))
	assert.Equal(t, -1, MatchOption(options, "  "))
}

func TestMappings_ReturnsCopy(t *testing.T) {
	m := Mappings()
	require.NotEmpty(t, m)
	m[0].Selectors[0] = "mutated"
	assert.NotEqual(t, "mutated", Mappings()[0].Selectors[0])
	assert.Equal(t, types.ProfileFirstName, m[0].Key)
}
