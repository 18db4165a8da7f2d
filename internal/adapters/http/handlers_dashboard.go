package web

import (
	"net/http"
	"time"

	"dojoportal/internal/adapters/backend"
	"dojoportal/internal/adapters/http/middleware"
	"dojoportal/internal/domain/session"
)

// announcementsFor fetches backend announcements for a role, degrading to
// an empty list on failure: news must never take a dashboard down.
func announcementsFor(r *http.Request, token, audience string) []backend.Announcement {
	items, err := deps.Backend.ListAnnouncements(r.Context(), token, audience)
	if err != nil {
		return nil
	}
	return items
}

func handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	payments, err := deps.Backend.ListPayments(r.Context(), viewer.Token, backend.PaymentFilter{StudentID: viewer.Profile.ID})
	if err != nil {
		handleBackendError(w, r, err)
		return
	}

	data := map[string]any{
		"Profile":       viewer.Profile,
		"Payments":      payments,
		"Announcements": announcementsFor(r, viewer.Token, session.RoleStudent),
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", data)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func handleMyPayments(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	filter := backend.PaymentFilter{
		StudentID: viewer.Profile.ID,
		Status:    r.URL.Query().Get("status"),
		From:      r.URL.Query().Get("from"),
		To:        r.URL.Query().Get("to"),
	}
	payments, err := deps.Backend.ListPayments(r.Context(), viewer.Token, filter)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func handleMyAttendance(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		// Default to the current month.
		from = time.Now().Format("2006-01") + "-01"
	}
	records, err := deps.Backend.ListAttendance(r.Context(), viewer.Token, "", from, to)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}

	mine := records[:0]
	for _, rec := range records {
		if rec.StudentID == viewer.Profile.ID {
			mine = append(mine, rec)
		}
	}
	writeJSON(w, http.StatusOK, mine)
}

func handleCoachDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	students, err := deps.Backend.ListStudents(r.Context(), viewer.Token, "", "")
	if err != nil {
		handleBackendError(w, r, err)
		return
	}

	data := map[string]any{
		"Profile":       viewer.Profile,
		"Students":      students,
		"Announcements": announcementsFor(r, viewer.Token, session.RoleCoach),
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", data)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleCoachAttendance lists a day's records (GET) or marks a student
// present (POST).
func handleCoachAttendance(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	switch r.Method {
	case "GET":
		date := r.URL.Query().Get("date")
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		records, err := deps.Backend.ListAttendance(r.Context(), viewer.Token, r.URL.Query().Get("branch_id"), date, date)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	case "POST":
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		rec := backend.AttendanceRecord{
			StudentID: r.FormValue("student_id"),
			CourseID:  r.FormValue("course_id"),
			BranchID:  r.FormValue("branch_id"),
			Date:      r.FormValue("date"),
			Present:   r.FormValue("present") != "false",
			MarkedBy:  viewer.Profile.ID,
		}
		if rec.StudentID == "" || rec.Date == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "student_id and date are required"})
			return
		}
		marked, err := deps.Backend.MarkAttendance(r.Context(), viewer.Token, rec)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, marked)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	stats, err := deps.Backend.GetDashboardStats(r.Context(), viewer.Token)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}

	data := map[string]any{
		"Profile":       viewer.Profile,
		"Stats":         stats,
		"Announcements": announcementsFor(r, viewer.Token, session.RoleSuperAdmin),
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "dashboard.html", data)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
