package types

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	URL string `json:"url" validate:"required"`
}

// FillPreviewRequest is the body of POST /fill/preview.
type FillPreviewRequest struct {
	URL     string             `json:"url,omitempty"`
	HTML    string             `json:"html" validate:"required"`
	Profile ApplicationProfile `json:"profile" validate:"-"`
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Description string `json:"description" validate:"required,min=20"`
}

// TailorRequest is the body of POST /tailor.
type TailorRequest struct {
	Resume      string `json:"resume" validate:"required"`
	Description string `json:"description" validate:"required,min=20"`
}

// SaveJobRequest is the body of POST /jobs.
type SaveJobRequest struct {
	Status string     `json:"status" validate:"omitempty,oneof=saved applied interviewing offer rejected"`
	Job    JobPosting `json:"job"`
}

// ExtractResponse is the wire envelope for POST /extract.
type ExtractResponse struct {
	Success bool        `json:"success"`
	JobData *JobPosting `json:"jobData,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the FillPreviewRequest and its profile.
func (r *FillPreviewRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return r.Profile.Validate()
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TailorRequest using the validator.
func (r *TailorRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SaveJobRequest. The job needs a title or company.
func (r *SaveJobRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if !r.Job.HasJobData() {
		return ErrEmptyJob
	}
	return nil
}
