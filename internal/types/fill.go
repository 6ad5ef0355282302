package types

// ElementKind is the tag family of a fillable form element.
type ElementKind string

const (
	// ElementInput is an <input> element
	ElementInput ElementKind = "input"
	// ElementSelect is a <select> element
	ElementSelect ElementKind = "select"
	// ElementTextarea is a <textarea> element
	ElementTextarea ElementKind = "textarea"
	// ElementOther is anything else matched by a selector
	ElementOther ElementKind = "other"
)

// FormFieldCandidate is an element considered during a single fill pass.
// Element is an opaque handle owned by the document accessor.
type FormFieldCandidate struct {
	Element         any         `json:"-"`
	MatchedSelector string      `json:"matchedSelector"`
	ProfileKey      string      `json:"profileKey"`
	Kind            ElementKind `json:"kind"`
}

// FilledField describes one successful write.
type FilledField struct {
	ProfileKey string      `json:"profileKey"`
	Selector   string      `json:"selector"`
	Kind       ElementKind `json:"kind"`
	Value      string      `json:"value"`
}

// SkippedField describes an attempted element that was left untouched.
type SkippedField struct {
	ProfileKey string `json:"profileKey"`
	Selector   string `json:"selector"`
	Reason     string `json:"reason"`
}

// FillReport summarizes a fill pass. FieldsFilled never exceeds FieldsFound.
type FillReport struct {
	FieldsFound  int            `json:"fieldsFound"`
	FieldsFilled int            `json:"fieldsFilled"`
	Filled       []FilledField  `json:"filled,omitempty"`
	Skipped      []SkippedField `json:"skipped,omitempty"`
}
