package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"dojoportal/internal/domain/registration"
)

// postStep submits one wizard step form, carrying the wizard cookie
// between requests the way a browser would.
func postStep(t *testing.T, path string, form url.Values, cookies []*http.Cookie, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// wizardCookies extracts the wizard cookie set by a response, if any.
func wizardCookies(rr *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "dojo_wizard" && c.MaxAge >= 0 {
			out = append(out, c)
		}
	}
	return out
}

// TestWizard_AccumulatesAcrossSteps walks the step handlers and checks
// the draft accumulates each step's slice of fields.
func TestWizard_AccumulatesAcrossSteps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	setupDeps(t, srv.URL)

	rr := postStep(t, "/register/personal-info", url.Values{
		"full_name": {"Sione Latu"},
		"email":     {"sione@example.com"},
		"mobile":    {"021 555 0147"},
		"password":  {"hunter2"},
	}, nil, handleRegisterPersonalInfo)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("personal-info status = %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/register/select-course" {
		t.Errorf("Location = %q, want /register/select-course", got)
	}

	cookies := wizardCookies(rr)
	if len(cookies) == 0 {
		t.Fatal("first step did not set a wizard cookie")
	}

	rr = postStep(t, "/register/select-course", url.Values{
		"category_id": {"cat-1"},
		"course_id":   {"c-1"},
		"duration":    {"3-months"},
	}, cookies, handleRegisterSelectCourse)
	if got := rr.Header().Get("Location"); got != "/register/select-branch" {
		t.Errorf("Location = %q, want /register/select-branch", got)
	}

	rr = postStep(t, "/register/select-branch", url.Values{
		"branch_id": {"b-1"},
	}, cookies, handleRegisterSelectBranch)
	if got := rr.Header().Get("Location"); got != "/register/payment-method" {
		t.Errorf("Location = %q, want /register/payment-method", got)
	}

	// The draft behind the cookie holds everything merged so far.
	req := httptest.NewRequest("GET", "/register/confirm", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	draftID, ok := deps.Cookies.ReadWizardCookie(req)
	if !ok {
		t.Fatal("wizard cookie does not decode")
	}
	d, err := deps.Drafts.GetByID(context.Background(), draftID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	for key, want := range map[string]string{
		registration.FieldFullName: "Sione Latu",
		registration.FieldCourseID: "c-1",
		registration.FieldBranchID: "b-1",
	} {
		if got, _ := d.Field(key); got != want {
			t.Errorf("draft %s = %q, want %q", key, got, want)
		}
	}
}

// TestWizard_SkipsPaymentMethodWhenDisabled verifies the select-branch
// step jumps straight to confirmation when payments are off.
func TestWizard_SkipsPaymentMethodWhenDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	setupDeps(t, srv.URL)
	deps.Config.PaymentMethodsEnabled = false

	rr := postStep(t, "/register/select-branch", url.Values{
		"branch_id": {"b-1"},
	}, nil, handleRegisterSelectBranch)
	if got := rr.Header().Get("Location"); got != "/register/confirm" {
		t.Errorf("Location = %q, want /register/confirm", got)
	}

	// Visiting the disabled page directly also bounces forward.
	req := httptest.NewRequest("GET", "/register/payment-method", nil)
	rr = httptest.NewRecorder()
	handleRegisterPaymentMethod(rr, req)
	if got := rr.Header().Get("Location"); got != "/register/confirm" {
		t.Errorf("payment-method Location = %q, want /register/confirm", got)
	}
}

// TestWizard_EmptyInputsDoNotBlankEarlierValues verifies a revisited
// step with blank fields leaves prior answers alone.
func TestWizard_EmptyInputsDoNotBlankEarlierValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	setupDeps(t, srv.URL)

	rr := postStep(t, "/register/personal-info", url.Values{
		"full_name": {"Sione Latu"},
		"email":     {"sione@example.com"},
	}, nil, handleRegisterPersonalInfo)
	cookies := wizardCookies(rr)
	if len(cookies) == 0 {
		t.Fatal("first step did not set a wizard cookie")
	}

	// Revisit with the email input left empty.
	postStep(t, "/register/personal-info", url.Values{
		"full_name": {"Sione L. Latu"},
		"email":     {""},
	}, cookies, handleRegisterPersonalInfo)

	req := httptest.NewRequest("GET", "/register/confirm", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	draftID, _ := deps.Cookies.ReadWizardCookie(req)
	d, err := deps.Drafts.GetByID(context.Background(), draftID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got, _ := d.Field(registration.FieldEmail); got != "sione@example.com" {
		t.Errorf("email = %q, want the earlier value preserved", got)
	}
	if got, _ := d.Field(registration.FieldFullName); got != "Sione L. Latu" {
		t.Errorf("full_name = %q, want the revision", got)
	}
}

// TestWizard_SubmitClearsWizardCookie verifies a successful submission
// ends the wizard run.
func TestWizard_SubmitClearsWizardCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/registration" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"student_id":"u-9","status":"created"}`))
	}))
	defer srv.Close()
	setupDeps(t, srv.URL)

	rr := postStep(t, "/register/personal-info", url.Values{
		"full_name": {"Sione Latu"},
		"email":     {"sione@example.com"},
		"mobile":    {"021 555 0147"},
		"password":  {"hunter2"},
	}, nil, handleRegisterPersonalInfo)
	cookies := wizardCookies(rr)

	postStep(t, "/register/select-course", url.Values{
		"category_id": {"cat-1"}, "course_id": {"c-1"}, "duration": {"3-months"},
	}, cookies, handleRegisterSelectCourse)
	postStep(t, "/register/select-branch", url.Values{
		"branch_id": {"b-1"},
	}, cookies, handleRegisterSelectBranch)

	rr = postStep(t, "/register/confirm", url.Values{}, cookies, handleRegisterConfirm)
	if rr.Code != http.StatusCreated {
		t.Fatalf("confirm status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == "dojo_wizard" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("wizard cookie was not cleared after submission")
	}
}

// TestWizard_IncompleteSubmitIsBlocked verifies missing required fields
// produce a validation response without touching the backend.
func TestWizard_IncompleteSubmitIsBlocked(t *testing.T) {
	backendHits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits++
	}))
	defer srv.Close()
	setupDeps(t, srv.URL)

	rr := postStep(t, "/register/personal-info", url.Values{
		"full_name": {"Sione Latu"},
	}, nil, handleRegisterPersonalInfo)
	cookies := wizardCookies(rr)

	rr = postStep(t, "/register/confirm", url.Values{}, cookies, handleRegisterConfirm)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("confirm status = %d, want 422", rr.Code)
	}
	if backendHits != 0 {
		t.Errorf("backend received %d requests, want 0", backendHits)
	}
}
