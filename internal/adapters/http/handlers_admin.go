package web

import (
	"encoding/json"
	"net/http"

	"dojoportal/internal/adapters/backend"
	"dojoportal/internal/adapters/http/middleware"
)

// The admin area is a thin proxy: decode the request, call the backend
// with the superadmin's token, relay the result. The backend owns all
// validation; the portal only owns the session.

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

func handleAdminBranches(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())
	id := r.URL.Query().Get("id")

	switch r.Method {
	case "GET":
		if id != "" {
			branch, err := deps.Backend.GetBranch(r.Context(), viewer.Token, id)
			if err != nil {
				handleBackendError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, branch)
			return
		}
		branches, err := deps.Backend.ListBranches(r.Context(), viewer.Token)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, branches)
	case "POST":
		var branch backend.Branch
		if !decodeBody(w, r, &branch) {
			return
		}
		created, err := deps.Backend.CreateBranch(r.Context(), viewer.Token, branch)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case "PUT":
		var branch backend.Branch
		if !decodeBody(w, r, &branch) {
			return
		}
		if branch.ID == "" {
			branch.ID = id
		}
		updated, err := deps.Backend.UpdateBranch(r.Context(), viewer.Token, branch)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case "DELETE":
		if err := deps.Backend.DeleteBranch(r.Context(), viewer.Token, id); err != nil {
			handleBackendError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	switch r.Method {
	case "GET":
		categories, err := deps.Backend.ListCategories(r.Context(), viewer.Token)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, categories)
	case "POST":
		var cat backend.Category
		if !decodeBody(w, r, &cat) {
			return
		}
		created, err := deps.Backend.CreateCategory(r.Context(), viewer.Token, cat)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case "DELETE":
		if err := deps.Backend.DeleteCategory(r.Context(), viewer.Token, r.URL.Query().Get("id")); err != nil {
			handleBackendError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminCourses(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())
	id := r.URL.Query().Get("id")

	switch r.Method {
	case "GET":
		if id != "" {
			course, err := deps.Backend.GetCourse(r.Context(), viewer.Token, id)
			if err != nil {
				handleBackendError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, course)
			return
		}
		courses, err := deps.Backend.ListCourses(r.Context(), viewer.Token, r.URL.Query().Get("category_id"))
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, courses)
	case "POST":
		var course backend.Course
		if !decodeBody(w, r, &course) {
			return
		}
		created, err := deps.Backend.CreateCourse(r.Context(), viewer.Token, course)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case "PUT":
		var course backend.Course
		if !decodeBody(w, r, &course) {
			return
		}
		if course.ID == "" {
			course.ID = id
		}
		updated, err := deps.Backend.UpdateCourse(r.Context(), viewer.Token, course)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case "DELETE":
		if err := deps.Backend.DeleteCourse(r.Context(), viewer.Token, id); err != nil {
			handleBackendError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminStudents(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())
	id := r.URL.Query().Get("id")

	switch r.Method {
	case "GET":
		if id != "" {
			student, err := deps.Backend.GetStudent(r.Context(), viewer.Token, id)
			if err != nil {
				handleBackendError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, student)
			return
		}
		students, err := deps.Backend.ListStudents(r.Context(), viewer.Token, r.URL.Query().Get("branch_id"), r.URL.Query().Get("search"))
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, students)
	case "PUT":
		var student backend.Student
		if !decodeBody(w, r, &student) {
			return
		}
		if student.ID == "" {
			student.ID = id
		}
		updated, err := deps.Backend.UpdateStudent(r.Context(), viewer.Token, student)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case "DELETE":
		if err := deps.Backend.DeleteStudent(r.Context(), viewer.Token, id); err != nil {
			handleBackendError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminCoaches(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())
	id := r.URL.Query().Get("id")

	switch r.Method {
	case "GET":
		coaches, err := deps.Backend.ListCoaches(r.Context(), viewer.Token)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, coaches)
	case "POST":
		var coach backend.Coach
		if !decodeBody(w, r, &coach) {
			return
		}
		created, err := deps.Backend.CreateCoach(r.Context(), viewer.Token, coach)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case "PUT":
		var coach backend.Coach
		if !decodeBody(w, r, &coach) {
			return
		}
		if coach.ID == "" {
			coach.ID = id
		}
		updated, err := deps.Backend.UpdateCoach(r.Context(), viewer.Token, coach)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case "DELETE":
		if err := deps.Backend.DeleteCoach(r.Context(), viewer.Token, id); err != nil {
			handleBackendError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminPayments(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	switch r.Method {
	case "GET":
		filter := backend.PaymentFilter{
			StudentID: r.URL.Query().Get("student_id"),
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
	case "POST":
		var payment backend.Payment
		if !decodeBody(w, r, &payment) {
			return
		}
		recorded, err := deps.Backend.RecordPayment(r.Context(), viewer.Token, payment)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, recorded)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminAttendance(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	records, err := deps.Backend.ListAttendance(r.Context(), viewer.Token,
		r.URL.Query().Get("branch_id"), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func handleAdminBusinessHours(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	switch r.Method {
	case "GET":
		hours, err := deps.Backend.GetBusinessHours(r.Context(), viewer.Token, r.URL.Query().Get("branch_id"))
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, hours)
	case "PUT":
		var hours []backend.BusinessHours
		if !decodeBody(w, r, &hours) {
			return
		}
		if err := deps.Backend.UpdateBusinessHours(r.Context(), viewer.Token, hours); err != nil {
			handleBackendError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminHolidays(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	switch r.Method {
	case "GET":
		holidays, err := deps.Backend.ListHolidays(r.Context(), viewer.Token)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, holidays)
	case "POST":
		var holiday backend.Holiday
		if !decodeBody(w, r, &holiday) {
			return
		}
		created, err := deps.Backend.CreateHoliday(r.Context(), viewer.Token, holiday)
		if err != nil {
			handleBackendError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case "DELETE":
		if err := deps.Backend.DeleteHoliday(r.Context(), viewer.Token, r.URL.Query().Get("id")); err != nil {
			handleBackendError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleAdminReports(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "report name is required"})
		return
	}
	rows, err := deps.Backend.GetReport(r.Context(), viewer.Token, name,
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
