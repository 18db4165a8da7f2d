package web

import (
	"net/http"

	"dojoportal/internal/adapters/http/middleware"
	"dojoportal/internal/domain/session"
)

// registerRoutes wires every portal route onto the mux. Gating happens
// here: each protected area is wrapped in RequireRole pointing at its own
// login page.
func registerRoutes(mux *http.ServeMux) {
	// Public
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/superadmin/login", handleSuperAdminLogin)
	mux.HandleFunc("/logout", handleLogout)

	// Registration wizard (public; the applicant has no account yet)
	mux.HandleFunc("/register", handleRegisterEntry)
	mux.HandleFunc("/register/personal-info", handleRegisterPersonalInfo)
	mux.HandleFunc("/register/select-course", handleRegisterSelectCourse)
	mux.HandleFunc("/register/select-branch", handleRegisterSelectBranch)
	mux.HandleFunc("/register/payment-method", handleRegisterPaymentMethod)
	mux.HandleFunc("/register/confirm", handleRegisterConfirm)

	// Student area
	studentOnly := middleware.RequireRole("/login", session.RoleStudent)
	mux.Handle("/dashboard", studentOnly(http.HandlerFunc(handleStudentDashboard)))
	mux.Handle("/me/payments", studentOnly(http.HandlerFunc(handleMyPayments)))
	mux.Handle("/me/attendance", studentOnly(http.HandlerFunc(handleMyAttendance)))

	// Coach area
	coachOnly := middleware.RequireRole("/login", session.RoleCoach)
	mux.Handle("/coach/dashboard", coachOnly(http.HandlerFunc(handleCoachDashboard)))
	mux.Handle("/coach/attendance", coachOnly(http.HandlerFunc(handleCoachAttendance)))

	// Superadmin area
	adminOnly := middleware.RequireRole("/superadmin/login", session.RoleSuperAdmin)
	mux.Handle("/admin/dashboard", adminOnly(http.HandlerFunc(handleAdminDashboard)))
	mux.Handle("/admin/branches", adminOnly(http.HandlerFunc(handleAdminBranches)))
	mux.Handle("/admin/categories", adminOnly(http.HandlerFunc(handleAdminCategories)))
	mux.Handle("/admin/courses", adminOnly(http.HandlerFunc(handleAdminCourses)))
	mux.Handle("/admin/students", adminOnly(http.HandlerFunc(handleAdminStudents)))
	mux.Handle("/admin/coaches", adminOnly(http.HandlerFunc(handleAdminCoaches)))
	mux.Handle("/admin/payments", adminOnly(http.HandlerFunc(handleAdminPayments)))
	mux.Handle("/admin/attendance", adminOnly(http.HandlerFunc(handleAdminAttendance)))
	mux.Handle("/admin/settings/business-hours", adminOnly(http.HandlerFunc(handleAdminBusinessHours)))
	mux.Handle("/admin/settings/holidays", adminOnly(http.HandlerFunc(handleAdminHolidays)))
	mux.Handle("/admin/reports", adminOnly(http.HandlerFunc(handleAdminReports)))
}

// handleIndex routes the bare origin to the viewer's dashboard, or the
// login page when nobody is signed in.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if viewer, ok := middleware.ViewerFromContext(r.Context()); ok {
		http.Redirect(w, r, dashboardPath(viewer.Role), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
