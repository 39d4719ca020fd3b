package handlers

import (
	"encoding/json"
	"net/http"

	"campus-feed/internal/middleware"
	"campus-feed/internal/models"
	"campus-feed/internal/service"
)

// HandleUserRegistration creates a new user account.
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req service.RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		user, err := s.Svc.RegisterUser(&req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// HandleUserLogin checks credentials and issues a JWT on success. The token
// lives entirely at this boundary; the core never sees it.
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req service.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		user, err := s.Svc.LoginUser(&req)
		if err != nil {
			writeError(w, err)
			return
		}

		token, err := middleware.GenerateToken(user.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, &models.LoginResponse{
				Success: false,
				Error:   "Failed to issue token",
			})
			return
		}

		writeJSON(w, http.StatusOK, &models.LoginResponse{
			Success: true,
			Token:   token,
			User:    user,
		})
	}
}

// HandleUserProfile returns a user record by id.
func (s *Server) HandleUserProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID := r.URL.Query().Get("userId")
		if userID == "" {
			http.Error(w, "User ID required", http.StatusBadRequest)
			return
		}

		user, err := s.Svc.GetUserProfile(userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
