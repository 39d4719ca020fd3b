package service

import (
	"context"
	"testing"
	"time"

	"campus-feed/internal/database"
	"campus-feed/internal/engine"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := database.NewMemory()
	require.NoError(t, database.Seed(context.Background(), db))

	system := actor.NewActorSystem()
	metrics := utils.NewMetricsCollector()
	eng := engine.NewEngine(system, metrics, db)
	time.Sleep(100 * time.Millisecond) // let the actors load the seed data

	return New(system, eng, metrics, 5*time.Second)
}

func TestServiceIdentity(t *testing.T) {
	svc := newTestService(t)

	// Seeded credentials work.
	user, err := svc.LoginUser(&LoginRequest{Username: "foodlover123", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)

	_, err = svc.LoginUser(&LoginRequest{Username: "foodlover123", Password: "wrong"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidCredentials))

	// Registration enforces shape before reaching the directory.
	_, err = svc.RegisterUser(&RegisterUserRequest{Username: "ab", Password: "secret123"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = svc.RegisterUser(&RegisterUserRequest{Username: "newcomer", Password: "short"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	registered, err := svc.RegisterUser(&RegisterUserRequest{Username: "newcomer", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, 0, registered.Karma)

	_, err = svc.RegisterUser(&RegisterUserRequest{Username: "newcomer", Password: "secret123"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))

	profile, err := svc.GetUserProfile(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "newcomer", profile.Username)

	_, err = svc.GetUserProfile("nope")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestServicePostsAndComments(t *testing.T) {
	svc := newTestService(t)

	// Empty content never reaches the content store.
	_, err := svc.CreatePost(&CreatePostRequest{AuthorID: "1", Content: "   "})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	// An unresolvable author is a validation failure, not a not-found.
	_, err = svc.CreatePost(&CreatePostRequest{AuthorID: "ghost", Content: "hello"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	post, err := svc.CreatePost(&CreatePostRequest{AuthorID: "1", Content: "hello campus", CourseID: "CS101"})
	require.NoError(t, err)
	assert.Equal(t, 0, post.Likes)

	// Likes accumulate and credit the author's karma.
	_, err = svc.LikePost(post.ID)
	require.NoError(t, err)
	liked, err := svc.LikePost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)

	time.Sleep(100 * time.Millisecond) // karma flows through the router asynchronously
	author, err := svc.GetUserProfile("1")
	require.NoError(t, err)
	assert.Equal(t, 2, author.Karma)

	comment, err := svc.CreateComment(&CreateCommentRequest{PostID: post.ID, AuthorID: "2", Content: "nice"})
	require.NoError(t, err)

	_, err = svc.CreateComment(&CreateCommentRequest{PostID: "nope", AuthorID: "2", Content: "nice"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	err = svc.DeleteComment(post.ID, comment.ID, "3")
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthorized))

	err = svc.DeleteComment(post.ID, comment.ID, "2")
	require.NoError(t, err)

	// Reads: by id, by author, feed.
	fetched, err := svc.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Comments)

	_, err = svc.GetPostsByUser("ghost")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	mine, err := svc.GetPostsByUser("1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	feed, err := svc.GetFeed(0)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	// Deletion is author-only and final.
	err = svc.DeletePost(post.ID, "2")
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthorized))

	err = svc.DeletePost(post.ID, "1")
	require.NoError(t, err)

	_, err = svc.GetPostByID(post.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	err = svc.DeletePost(post.ID, "1")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestServiceEnrollment(t *testing.T) {
	svc := newTestService(t)

	courses, err := svc.ListCourses()
	require.NoError(t, err)
	require.Len(t, courses, 3)

	// CS101 is gated.
	_, err = svc.JoinCourse(&JoinCourseRequest{UserID: "1", CourseID: "CS101"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrAccessDenied))

	_, err = svc.JoinCourse(&JoinCourseRequest{UserID: "1", CourseID: "CS101", AccessCode: "0000"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrAccessDenied))

	course, err := svc.JoinCourse(&JoinCourseRequest{UserID: "1", CourseID: "CS101", AccessCode: "1234"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, course.MemberIDs)

	// The user's enrolled set follows, asynchronously.
	time.Sleep(100 * time.Millisecond)
	user, err := svc.GetUserProfile("1")
	require.NoError(t, err)
	assert.Contains(t, user.EnrolledCourses, "CS101")

	members, err := svc.GetCourseMembers("CS101")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, members)

	err = svc.LeaveCourse("1", "CS101")
	require.NoError(t, err)

	// A second leave is a no-op, not an error.
	err = svc.LeaveCourse("1", "CS101")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	user, err = svc.GetUserProfile("1")
	require.NoError(t, err)
	assert.NotContains(t, user.EnrolledCourses, "CS101")

	_, err = svc.GetCourseByID("BIO999")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	_, err = svc.JoinCourse(&JoinCourseRequest{UserID: "1", CourseID: "BIO999"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	// Missing ids are caught before any actor sees them.
	err = svc.LeaveCourse("", "CS101")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestServiceTrimsIdentifierFields(t *testing.T) {
	svc := newTestService(t)

	// Whitespace-only ids are rejected the same as empty ones, on every
	// request-struct path, so no member or author id ever carries blanks.
	_, err := svc.JoinCourse(&JoinCourseRequest{UserID: "   ", CourseID: "MATH201"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = svc.JoinCourse(&JoinCourseRequest{UserID: "1", CourseID: " "})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = svc.CreatePost(&CreatePostRequest{AuthorID: "  ", Content: "hello"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = svc.CreateComment(&CreateCommentRequest{PostID: " ", AuthorID: "1", Content: "hi"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	// Padded but valid ids are accepted after trimming.
	course, err := svc.JoinCourse(&JoinCourseRequest{UserID: " 1 ", CourseID: " MATH201 "})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, course.MemberIDs)
}

func TestServiceCounts(t *testing.T) {
	svc := newTestService(t)

	counts, err := svc.Counts()
	require.NoError(t, err)
	assert.Equal(t, 3, counts["users"])
	assert.Equal(t, 3, counts["courses"])
	assert.Equal(t, 0, counts["posts"])
}
