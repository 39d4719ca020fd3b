package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campus-feed/internal/service"
)

// HandlePost handles post creation, lookup and deletion.
func (s *Server) HandlePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req service.CreatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			post, err := s.Svc.CreatePost(&req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, post)

		case http.MethodGet:
			id := r.URL.Query().Get("id")
			if id == "" {
				http.Error(w, "Post ID required", http.StatusBadRequest)
				return
			}

			post, err := s.Svc.GetPostByID(id)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, post)

		case http.MethodDelete:
			id := r.URL.Query().Get("id")
			requesterID := r.URL.Query().Get("requesterId")

			if err := s.Svc.DeletePost(id, requesterID); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleFeed returns the global feed, most recent post first.
func (s *Server) HandleFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil {
				limit = parsed
			}
		}

		posts, err := s.Svc.GetFeed(limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

// HandleUserPosts returns all posts authored by a user, feed-ordered.
func (s *Server) HandleUserPosts() http.HandlerFunc {
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

		posts, err := s.Svc.GetPostsByUser(userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

// HandleLikePost increments a post's like counter.
func (s *Server) HandleLikePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			PostID string `json:"postId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		post, err := s.Svc.LikePost(req.PostID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

// HandleComment handles comment creation and deletion.
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req service.CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			comment, err := s.Svc.CreateComment(&req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, comment)

		case http.MethodDelete:
			postID := r.URL.Query().Get("postId")
			commentID := r.URL.Query().Get("commentId")
			requesterID := r.URL.Query().Get("requesterId")

			if err := s.Svc.DeleteComment(postID, commentID, requesterID); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
