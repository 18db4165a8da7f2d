package web

import (
	"errors"
	"net/http"

	"github.com/gorilla/csrf"

	"dojoportal/internal/application/orchestrators"
	"dojoportal/internal/domain/registration"
)

// stepFields maps each wizard step to the field keys its form owns. A
// step POST only touches its own keys; everything else in the draft is
// left alone.
var stepFields = map[string][]string{
	registration.StepPersonalInfo: {
		registration.FieldFullName,
		registration.FieldEmail,
		registration.FieldMobile,
		registration.FieldGender,
		registration.FieldDOB,
		registration.FieldPassword,
	},
	registration.StepSelectCourse: {
		registration.FieldCategoryID,
		registration.FieldCourseID,
		registration.FieldDuration,
	},
	registration.StepSelectBranch: {
		registration.FieldBranchID,
	},
	registration.StepPaymentMethod: {
		registration.FieldPaymentMethod,
		registration.FieldPaymentReference,
	},
}

// stepPath maps a wizard step to its route. The confirmation step lives
// at /register/confirm.
func stepPath(step string) string {
	if step == registration.StepPaymentConfirmation {
		return "/register/confirm"
	}
	return "/register/" + step
}

// wizardDraftID resolves the draft behind this browser's wizard cookie,
// minting a new draft ID (and cookie) on first contact.
func wizardDraftID(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := deps.Cookies.ReadWizardCookie(r); ok {
		return id, nil
	}
	id := generateID()
	if err := deps.Cookies.SetWizardCookie(w, id); err != nil {
		return "", err
	}
	return id, nil
}

// currentDraftFields loads the accumulated fields for pre-filling a step
// form. A missing draft just means empty fields.
func currentDraftFields(r *http.Request, draftID string) map[string]string {
	d, err := deps.Drafts.GetByID(r.Context(), draftID)
	if err != nil {
		return map[string]string{}
	}
	return d.Fields()
}

// handleRegisterEntry starts (or resumes) the wizard at the first step.
func handleRegisterEntry(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, stepPath(registration.StepPersonalInfo), http.StatusSeeOther)
}

// afterStep returns where a completed step navigates to, skipping the
// payment-method page when the deployment has payments disabled.
func afterStep(step string) string {
	next, ok := registration.NextStep(step)
	if !ok {
		return stepPath(registration.StepPaymentConfirmation)
	}
	if next == registration.StepPaymentMethod && !deps.Config.PaymentMethodsEnabled {
		next, _ = registration.NextStep(next)
	}
	return stepPath(next)
}

// mergeStep collects the step's own non-empty form values into the draft
// and redirects to the next page. Empty inputs are skipped so a revisit
// never blanks a value captured earlier.
func mergeStep(w http.ResponseWriter, r *http.Request, step string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	draftID, err := wizardDraftID(w, r)
	if err != nil {
		internalError(w, err)
		return
	}

	fields := make(map[string]string)
	for _, key := range stepFields[step] {
		if v := r.FormValue(key); v != "" {
			fields[key] = v
		}
	}

	input := orchestrators.UpdateDraftInput{DraftID: draftID, Fields: fields}
	if _, err := orchestrators.ExecuteUpdateDraft(r.Context(), input, orchestrators.UpdateDraftDeps{Drafts: deps.Drafts}); err != nil {
		internalError(w, err)
		return
	}

	http.Redirect(w, r, afterStep(step), http.StatusSeeOther)
}

func renderStep(w http.ResponseWriter, r *http.Request, step string, extra map[string]any) {
	draftID, err := wizardDraftID(w, r)
	if err != nil {
		internalError(w, err)
		return
	}
	data := map[string]any{
		"Step":      step,
		"Fields":    currentDraftFields(r, draftID),
		"CSRFToken": csrf.Token(r),
	}
	for k, v := range extra {
		data[k] = v
	}
	renderTemplate(w, r, "register_step.html", data)
}

func handleRegisterPersonalInfo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		renderStep(w, r, registration.StepPersonalInfo, nil)
	case "POST":
		mergeStep(w, r, registration.StepPersonalInfo)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleRegisterSelectCourse(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		// Course catalogue is public; no token needed for an applicant.
		categories, err := deps.Backend.ListCategories(r.Context(), "")
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		courses, err := deps.Backend.ListCourses(r.Context(), "", r.URL.Query().Get("category_id"))
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		renderStep(w, r, registration.StepSelectCourse, map[string]any{
			"Categories": categories,
			"Courses":    courses,
		})
	case "POST":
		mergeStep(w, r, registration.StepSelectCourse)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleRegisterSelectBranch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		branches, err := deps.Backend.ListBranches(r.Context(), "")
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		renderStep(w, r, registration.StepSelectBranch, map[string]any{
			"Branches": branches,
		})
	case "POST":
		mergeStep(w, r, registration.StepSelectBranch)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleRegisterPaymentMethod(w http.ResponseWriter, r *http.Request) {
	if !deps.Config.PaymentMethodsEnabled {
		http.Redirect(w, r, stepPath(registration.StepPaymentConfirmation), http.StatusSeeOther)
		return
	}
	switch r.Method {
	case "GET":
		renderStep(w, r, registration.StepPaymentMethod, nil)
	case "POST":
		mergeStep(w, r, registration.StepPaymentMethod)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleRegisterConfirm shows the accumulated draft for review (GET) and
// submits it to the backend (POST). An incomplete draft renders inline
// validation messages without any backend call.
func handleRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	draftID, err := wizardDraftID(w, r)
	if err != nil {
		internalError(w, err)
		return
	}

	switch r.Method {
	case "GET":
		renderTemplate(w, r, "register_confirm.html", map[string]any{
			"Fields":    currentDraftFields(r, draftID),
			"CSRFToken": csrf.Token(r),
		})
	case "POST":
		input := orchestrators.SubmitRegistrationInput{DraftID: draftID}
		sdeps := orchestrators.SubmitRegistrationDeps{Drafts: deps.Drafts, Backend: deps.Backend}
		result, err := orchestrators.ExecuteSubmitRegistration(r.Context(), input, sdeps)
		if err != nil {
			var incomplete *orchestrators.IncompleteDraftError
			if errors.As(err, &incomplete) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				renderTemplate(w, r, "register_confirm.html", map[string]any{
					"Fields":    currentDraftFields(r, draftID),
					"Missing":   incomplete.Missing,
					"CSRFToken": csrf.Token(r),
				})
				return
			}
			handleBackendError(w, r, err)
			return
		}

		deps.Cookies.ClearWizardCookie(w)
		if isHTMLRequest(r) {
			http.Redirect(w, r, "/login?message=registration+complete", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
