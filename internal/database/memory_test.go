package database

import (
	"context"
	"testing"
	"time"

	"campus-feed/internal/models"
	"campus-feed/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoresCopies(t *testing.T) {
	ctx := context.Background()
	db := NewMemory()

	user := &models.User{
		ID:              "u1",
		Username:        "alice",
		EnrolledCourses: []string{"CS101"},
		CreatedAt:       time.Now(),
	}
	require.NoError(t, db.SaveUser(ctx, user))

	// Mutating the caller's struct after saving must not leak into the store.
	user.Username = "mallory"
	user.EnrolledCourses[0] = "HACK999"

	stored, err := db.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, []string{"CS101"}, stored.EnrolledCourses)

	byName, err := db.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.ID)

	_, err = db.GetUser(ctx, "missing")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestMemoryCommentOrderAndCascade(t *testing.T) {
	ctx := context.Background()
	db := NewMemory()

	require.NoError(t, db.SavePost(ctx, &models.Post{ID: "p1", AuthorID: "u1", Content: "post"}))

	for _, c := range []*models.Comment{
		{ID: "c1", PostID: "p1", Content: "first"},
		{ID: "c2", PostID: "p1", Content: "second"},
		{ID: "c3", PostID: "p2", Content: "other post"},
	} {
		require.NoError(t, db.SaveComment(ctx, c))
	}

	// Re-saving keeps the original position.
	require.NoError(t, db.SaveComment(ctx, &models.Comment{ID: "c1", PostID: "p1", Content: "first, edited"}))

	comments, err := db.GetAllComments(ctx)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "first, edited", comments[0].Content)
	assert.Equal(t, "c2", comments[1].ID)

	// Cascade removes only the target post's comments.
	require.NoError(t, db.DeletePostComments(ctx, "p1"))
	comments, err = db.GetAllComments(ctx)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c3", comments[0].ID)

	require.NoError(t, db.DeletePost(ctx, "p1"))
	err = db.DeletePost(ctx, "p1")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	err = db.DeleteComment(ctx, "c1")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := NewMemory()

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	courses, err := db.GetAllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 3)

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	cs101, err := db.GetCourse(ctx, "CS101")
	require.NoError(t, err)
	assert.True(t, cs101.RequiresAccessCode)
	assert.Equal(t, "1234", cs101.AccessCode)
}
