package handlers

import (
	"encoding/json"
	"net/http"

	"campus-feed/internal/service"
)

// HandleCourses lists courses or returns one by id. The read model carries
// requiresAccessCode so the caller knows to prompt for a code before joining.
func (s *Server) HandleCourses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if id := r.URL.Query().Get("id"); id != "" {
			course, err := s.Svc.GetCourseByID(id)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, course)
			return
		}

		courses, err := s.Svc.ListCourses()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, courses)
	}
}

// HandleCourseMembership joins (POST) or leaves (DELETE) a course.
func (s *Server) HandleCourseMembership() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req service.JoinCourseRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			course, err := s.Svc.JoinCourse(&req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"course":  course,
			})

		case http.MethodDelete:
			var req struct {
				UserID   string `json:"userId"`
				CourseID string `json:"courseId"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			if err := s.Svc.LeaveCourse(req.UserID, req.CourseID); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleCourseMembers returns the member id set of a course.
func (s *Server) HandleCourseMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		courseID := r.URL.Query().Get("id")
		if courseID == "" {
			http.Error(w, "Course ID required", http.StatusBadRequest)
			return
		}

		members, err := s.Svc.GetCourseMembers(courseID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}
