package registration

import (
	"time"
)

// Field keys accumulated across the wizard. Each step only knows its own
// slice of fields; the keys double as the submission payload keys.
const (
	FieldFullName = "full_name"
	FieldEmail    = "email"
	FieldMobile   = "mobile"
	FieldGender   = "gender"
	FieldDOB      = "dob"
	FieldPassword = "password"

	FieldCategoryID = "category_id"
	FieldCourseID   = "course_id"
	FieldDuration   = "duration"

	FieldBranchID = "branch_id"

	FieldPaymentMethod    = "payment_method"
	FieldPaymentReference = "payment_reference"
)

// RequiredForSubmission lists the fields the final step must have before
// any network call is made. The draft itself never enforces this — the
// submitting layer does, since deployments may relax individual fields.
var RequiredForSubmission = []string{
	FieldFullName,
	FieldEmail,
	FieldMobile,
	FieldPassword,
	FieldCategoryID,
	FieldCourseID,
	FieldDuration,
	FieldBranchID,
}

// Wizard step identifiers, in order. Navigation is the page layer's job;
// the draft is step-agnostic.
const (
	StepPersonalInfo        = "personal-info"
	StepSelectCourse        = "select-course"
	StepSelectBranch        = "select-branch"
	StepPaymentMethod       = "payment-method"
	StepPaymentConfirmation = "payment-confirmation"
)

// Steps is the linear wizard order.
var Steps = []string{
	StepPersonalInfo,
	StepSelectCourse,
	StepSelectBranch,
	StepPaymentMethod,
	StepPaymentConfirmation,
}

// NextStep returns the step after current, or false at the end.
func NextStep(current string) (string, bool) {
	for i, s := range Steps {
		if s == current && i+1 < len(Steps) {
			return Steps[i+1], true
		}
	}
	return "", false
}

// Draft accumulates partial registration data across the wizard pages so
// the final page can assemble one coherent submission without a server
// round trip between steps.
type Draft struct {
	ID        string
	UpdatedAt time.Time

	fields map[string]string
}

// NewDraft creates an empty draft.
func NewDraft(id string) *Draft {
	return &Draft{ID: id, fields: make(map[string]string)}
}

// Restore rebuilds a draft from persisted state.
// PRE: fields came from a prior Fields() call
func Restore(id string, fields map[string]string, updatedAt time.Time) *Draft {
	d := NewDraft(id)
	for k, v := range fields {
		d.fields[k] = v
	}
	d.UpdatedAt = updatedAt
	return d
}

// Merge applies a partial set of fields, last-write-wins per field. No
// validation happens at merge time.
func (d *Draft) Merge(partial map[string]string) {
	for k, v := range partial {
		d.fields[k] = v
	}
}

// Field returns a single accumulated value.
func (d *Draft) Field(key string) (string, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// Fields returns a copy of the accumulated fields, for persistence.
func (d *Draft) Fields() map[string]string {
	out := make(map[string]string, len(d.fields))
	for k, v := range d.fields {
		out[k] = v
	}
	return out
}

// Payload projects the draft into the submission body. Keys that were
// never set are omitted rather than sent as empty values, matching the
// backend's optional-field contract.
func (d *Draft) Payload() map[string]any {
	out := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		out[k] = v
	}
	return out
}

// MissingFields reports which of the given fields are absent or empty.
// It never rejects — required-field policy lives in the submitting layer.
func (d *Draft) MissingFields(required ...string) []string {
	var missing []string
	for _, key := range required {
		if v, ok := d.fields[key]; !ok || v == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Clear resets the draft to empty so a subsequent registration attempt
// starts clean.
func (d *Draft) Clear() {
	d.fields = make(map[string]string)
}
