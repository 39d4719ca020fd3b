package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-feed/internal/database"
	"campus-feed/internal/engine"
	"campus-feed/internal/models"
	"campus-feed/internal/service"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db := database.NewMemory()
	require.NoError(t, database.Seed(context.Background(), db))

	system := actor.NewActorSystem()
	metrics := utils.NewMetricsCollector()
	eng := engine.NewEngine(system, metrics, db)
	time.Sleep(100 * time.Millisecond)

	svc := service.New(system, eng, metrics, 5*time.Second)
	return NewServer(svc, metrics)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestIntegrationFlow(t *testing.T) {
	server := newTestServer(t)

	registerHandler := server.HandleUserRegistration()
	loginHandler := server.HandleUserLogin()
	membershipHandler := server.HandleCourseMembership()
	postHandler := server.HandlePost()
	likeHandler := server.HandleLikePost()
	commentHandler := server.HandleComment()

	// Step 1: register a fresh user.
	w := postJSON(t, registerHandler, "/user/register", map[string]string{
		"username": "newstudent",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var registered models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.ID)
	t.Logf("User created with ID: %s", registered.ID)

	// Step 2: log in and receive a token.
	w = postJSON(t, loginHandler, "/user/login", map[string]string{
		"username": "newstudent",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.True(t, login.Success)
	assert.NotEmpty(t, login.Token)

	// Step 3: join the gated course with its access code.
	w = postJSON(t, membershipHandler, "/courses/membership", map[string]string{
		"userId":     registered.ID,
		"courseId":   "CS101",
		"accessCode": "1234",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Step 4: publish a post.
	w = postJSON(t, postHandler, "/post", map[string]string{
		"userId":   registered.ID,
		"content":  "Hello CS101",
		"courseId": "CS101",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, 0, post.Likes)
	t.Logf("Post created with ID: %s", post.ID)

	// Step 5: like it.
	w = postJSON(t, likeHandler, "/post/like", map[string]string{"postId": post.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var liked models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &liked))
	assert.Equal(t, 1, liked.Likes)

	// Step 6: comment on it and read it back.
	w = postJSON(t, commentHandler, "/comment", map[string]string{
		"postId":  post.ID,
		"userId":  registered.ID,
		"content": "First!",
	})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/post?id="+post.ID, nil)
	w = httptest.NewRecorder()
	postHandler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Len(t, fetched.Comments, 1)
	assert.Equal(t, "First!", fetched.Comments[0].Content)
}

func TestErrorStatusMapping(t *testing.T) {
	server := newTestServer(t)

	// Unknown post reads 404.
	w := httptest.NewRecorder()
	server.HandlePost().ServeHTTP(w, httptest.NewRequest("GET", "/post?id=nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, utils.ErrNotFound, body["code"])

	// Wrong access code reads 403.
	w = postJSON(t, server.HandleCourseMembership(), "/courses/membership", map[string]string{
		"userId":   "1",
		"courseId": "CS101",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Deleting someone else's post reads 401.
	createW := postJSON(t, server.HandlePost(), "/post", map[string]string{
		"userId":  "1",
		"content": "mine",
	})
	require.Equal(t, http.StatusOK, createW.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(createW.Body.Bytes(), &post))

	w = httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/post?id="+post.ID+"&requesterId=2", nil)
	server.HandlePost().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Duplicate registration reads 409.
	w = postJSON(t, server.HandleUserRegistration(), "/user/register", map[string]string{
		"username": "foodlover123",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Health is always readable.
	w = httptest.NewRecorder()
	server.HandleHealth().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
