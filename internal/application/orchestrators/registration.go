package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dojoportal/internal/adapters/backend"
	draftStore "dojoportal/internal/adapters/storage/draft"
	"dojoportal/internal/domain/registration"
)

// DraftStore defines the draft persistence needed by the wizard
// orchestrators.
type DraftStore interface {
	GetByID(ctx context.Context, id string) (*registration.Draft, error)
	Save(ctx context.Context, d *registration.Draft) error
	Delete(ctx context.Context, id string) error
}

// RegistrationBackend submits a completed wizard payload.
type RegistrationBackend interface {
	SubmitRegistration(ctx context.Context, payload map[string]any) (backend.RegistrationResult, error)
}

// UpdateDraftInput carries one wizard step's slice of fields.
type UpdateDraftInput struct {
	DraftID string
	Fields  map[string]string
}

// UpdateDraftDeps holds dependencies for UpdateDraft.
type UpdateDraftDeps struct {
	Drafts DraftStore
	Now    func() time.Time // nil means time.Now
}

func nowTime(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

// IncompleteDraftError reports which required fields are missing from a
// final submission attempt. The submitting page surfaces these as inline
// validation messages; no network call is made.
type IncompleteDraftError struct {
	Missing []string
}

func (e *IncompleteDraftError) Error() string {
	return fmt.Sprintf("registration draft incomplete: missing %s", strings.Join(e.Missing, ", "))
}

// ExecuteUpdateDraft merges a partial field set into the draft,
// creating the draft if this is the wizard's first step.
// POST: Draft persisted with the merged fields, last-write-wins per field
func ExecuteUpdateDraft(ctx context.Context, input UpdateDraftInput, deps UpdateDraftDeps) (*registration.Draft, error) {
	d, err := deps.Drafts.GetByID(ctx, input.DraftID)
	if err == draftStore.ErrNotFound {
		d = registration.NewDraft(input.DraftID)
	} else if err != nil {
		return nil, err
	}

	d.Merge(input.Fields)
	d.UpdatedAt = nowTime(deps.Now)

	if err := deps.Drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SubmitRegistrationInput identifies the draft to submit.
type SubmitRegistrationInput struct {
	DraftID string
}

// SubmitRegistrationDeps holds dependencies for SubmitRegistration.
type SubmitRegistrationDeps struct {
	Drafts   DraftStore
	Backend  RegistrationBackend
	Required []string // nil means registration.RequiredForSubmission
}

// ExecuteSubmitRegistration assembles the draft payload and posts it to
// the backend, clearing the draft on success.
// PRE: The wizard pages have merged their fields into the draft
// POST: On success the draft is deleted so a new attempt starts clean
// INVARIANT: No network call is made while required fields are missing.
func ExecuteSubmitRegistration(ctx context.Context, input SubmitRegistrationInput, deps SubmitRegistrationDeps) (backend.RegistrationResult, error) {
	required := deps.Required
	if required == nil {
		required = registration.RequiredForSubmission
	}

	d, err := deps.Drafts.GetByID(ctx, input.DraftID)
	if err == draftStore.ErrNotFound {
		return backend.RegistrationResult{}, &IncompleteDraftError{Missing: required}
	}
	if err != nil {
		return backend.RegistrationResult{}, err
	}

	if missing := d.MissingFields(required...); len(missing) > 0 {
		return backend.RegistrationResult{}, &IncompleteDraftError{Missing: missing}
	}

	result, err := deps.Backend.SubmitRegistration(ctx, d.Payload())
	if err != nil {
		return backend.RegistrationResult{}, err
	}

	if err := deps.Drafts.Delete(ctx, input.DraftID); err != nil {
		// The registration went through; a stale draft is a cleanup
		// problem, not a submission failure.
		slog.Warn("draft_cleanup_failed", "draft_id", input.DraftID, "error", err.Error())
	}

	slog.Info("registration_event", "event", "submitted", "draft_id", input.DraftID, "student_id", result.StudentID)
	return result, nil
}
