package actors

import (
	stdctx "context"
	"log"
	"sort"
	"strings"
	"time"

	"campus-feed/internal/database"
	"campus-feed/internal/models"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Content operations
type (
	CreatePostMsg struct {
		AuthorID string
		Content  string
		CourseID string
		Image    string
	}

	GetPostMsg struct {
		PostID string
	}

	GetUserPostsMsg struct {
		UserID string
	}

	GetFeedMsg struct {
		Limit int
	}

	DeletePostMsg struct {
		PostID      string
		RequesterID string
	}

	LikePostMsg struct {
		PostID string
	}

	CreateCommentMsg struct {
		PostID   string
		AuthorID string
		Content  string
	}

	DeleteCommentMsg struct {
		PostID      string
		CommentID   string
		RequesterID string
	}

	GetCountsMsg struct{}

	loadContentFromDBMsg struct{}
)

// ContentActor is the content store: it owns every post, the global feed
// ordering and each post's comment sequence. All content mutations flow
// through its single mailbox, which serializes concurrent comment appends
// and makes delete-vs-append races resolve deterministically.
type ContentActor struct {
	postsByID    map[string]*models.Post
	feed         []string // post ids, most recent first
	userPosts    map[string][]string
	comments     map[string]*models.Comment
	postComments map[string][]string // insertion order is display order
	metrics      *utils.MetricsCollector
	enginePID    *actor.PID
	db           database.Adapter
}

func NewContentActor(metrics *utils.MetricsCollector, enginePID *actor.PID, db database.Adapter) actor.Actor {
	return &ContentActor{
		postsByID:    make(map[string]*models.Post),
		feed:         make([]string, 0),
		userPosts:    make(map[string][]string),
		comments:     make(map[string]*models.Comment),
		postComments: make(map[string][]string),
		metrics:      metrics,
		enginePID:    enginePID,
		db:           db,
	}
}

func (a *ContentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ContentActor started with PID: %v", context.Self())
		context.Send(context.Self(), &loadContentFromDBMsg{})

	case *loadContentFromDBMsg:
		a.handleLoadContent()

	case *CreatePostMsg:
		a.handleCreatePost(context, msg)

	case *GetPostMsg:
		a.handleGetPost(context, msg)

	case *GetUserPostsMsg:
		a.handleGetUserPosts(context, msg)

	case *GetFeedMsg:
		a.handleGetFeed(context, msg)

	case *DeletePostMsg:
		a.handleDeletePost(context, msg)

	case *LikePostMsg:
		a.handleLikePost(context, msg)

	case *CreateCommentMsg:
		a.handleCreateComment(context, msg)

	case *DeleteCommentMsg:
		a.handleDeleteComment(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.postsByID))

	default:
		log.Printf("ContentActor: unknown message type: %T", msg)
	}
}

func (a *ContentActor) handleLoadContent() {
	ctx := stdctx.Background()

	posts, err := a.db.GetAllPosts(ctx)
	if err != nil {
		log.Printf("ContentActor: failed to load posts: %v", err)
		return
	}

	// Feed order is most-recent-first.
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	for _, post := range posts {
		a.postsByID[post.ID] = post
		a.feed = append(a.feed, post.ID)
		a.userPosts[post.AuthorID] = append(a.userPosts[post.AuthorID], post.ID)
	}

	comments, err := a.db.GetAllComments(ctx)
	if err != nil {
		log.Printf("ContentActor: failed to load comments: %v", err)
		return
	}
	for _, comment := range comments {
		if _, ok := a.postsByID[comment.PostID]; !ok {
			continue // orphaned comment, parent already gone
		}
		a.comments[comment.ID] = comment
		a.postComments[comment.PostID] = append(a.postComments[comment.PostID], comment.ID)
	}

	log.Printf("ContentActor: loaded %d posts and %d comments", len(posts), len(a.comments))
}

func (a *ContentActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		context.Respond(utils.NewValidationError("post content must not be empty"))
		return
	}

	newPost := &models.Post{
		ID:        uuid.NewString(),
		AuthorID:  msg.AuthorID,
		CourseID:  msg.CourseID,
		Content:   content,
		Image:     msg.Image,
		Likes:     0,
		Comments:  make([]*models.Comment, 0),
		CreatedAt: time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.db.SavePost(ctx, newPost); err != nil {
		log.Printf("ContentActor: failed to save post: %v", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save post", err))
		return
	}

	a.postsByID[newPost.ID] = newPost
	a.feed = append([]string{newPost.ID}, a.feed...) // head insertion
	a.userPosts[msg.AuthorID] = append(a.userPosts[msg.AuthorID], newPost.ID)

	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	log.Printf("ContentActor: created post %s by user %s", newPost.ID, msg.AuthorID)
	context.Respond(a.snapshotPost(newPost))
}

func (a *ContentActor) handleGetPost(context actor.Context, msg *GetPostMsg) {
	if post, exists := a.postsByID[msg.PostID]; exists {
		context.Respond(a.snapshotPost(post))
		return
	}

	// Read through to storage: another instance may have written the post
	// after this actor warmed its working set.
	post, err := a.db.GetPost(stdctx.Background(), msg.PostID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewNotFoundError("Post", msg.PostID))
		}
		return
	}

	a.installPost(post)
	context.Respond(a.snapshotPost(post))
}

// installPost places a storage-loaded post into the working set, keeping the
// feed in most-recent-first order.
func (a *ContentActor) installPost(post *models.Post) {
	a.postsByID[post.ID] = post

	idx := len(a.feed)
	for i, id := range a.feed {
		if existing := a.postsByID[id]; existing != nil && post.CreatedAt.After(existing.CreatedAt) {
			idx = i
			break
		}
	}
	feed := make([]string, 0, len(a.feed)+1)
	feed = append(feed, a.feed[:idx]...)
	feed = append(feed, post.ID)
	feed = append(feed, a.feed[idx:]...)
	a.feed = feed

	a.userPosts[post.AuthorID] = append(a.userPosts[post.AuthorID], post.ID)
}

func (a *ContentActor) handleGetUserPosts(context actor.Context, msg *GetUserPostsMsg) {
	posts := make([]*models.Post, 0)
	for _, postID := range a.feed {
		post := a.postsByID[postID]
		if post != nil && post.AuthorID == msg.UserID {
			posts = append(posts, a.snapshotPost(post))
		}
	}
	context.Respond(posts)
}

func (a *ContentActor) handleGetFeed(context actor.Context, msg *GetFeedMsg) {
	limit := msg.Limit
	if limit <= 0 || limit > len(a.feed) {
		limit = len(a.feed)
	}

	posts := make([]*models.Post, 0, limit)
	for _, postID := range a.feed[:limit] {
		if post := a.postsByID[postID]; post != nil {
			posts = append(posts, a.snapshotPost(post))
		}
	}
	context.Respond(posts)
}

func (a *ContentActor) handleDeletePost(context actor.Context, msg *DeletePostMsg) {
	startTime := time.Now()

	post, exists := a.postsByID[msg.PostID]
	if !exists {
		context.Respond(utils.NewNotFoundError("Post", msg.PostID))
		return
	}

	if post.AuthorID != msg.RequesterID {
		context.Respond(utils.NewUnauthorizedError("only the author may delete a post"))
		return
	}

	ctx := stdctx.Background()
	if err := a.db.DeletePost(ctx, msg.PostID); err != nil && !utils.IsErrorCode(err, utils.ErrNotFound) {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete post", err))
		return
	}
	if err := a.db.DeletePostComments(ctx, msg.PostID); err != nil {
		log.Printf("ContentActor: failed to cascade comments of post %s: %v", msg.PostID, err)
	}

	for _, commentID := range a.postComments[msg.PostID] {
		delete(a.comments, commentID)
	}
	delete(a.postComments, msg.PostID)
	delete(a.postsByID, msg.PostID)
	a.feed = removePostID(a.feed, msg.PostID)
	a.userPosts[post.AuthorID] = removePostID(a.userPosts[post.AuthorID], msg.PostID)

	a.metrics.AddOperationLatency("delete_post", time.Since(startTime))
	log.Printf("ContentActor: deleted post %s and its comments", msg.PostID)
	context.Respond(&models.StatusResponse{Success: true, Message: "Post deleted"})
}

func (a *ContentActor) handleLikePost(context actor.Context, msg *LikePostMsg) {
	startTime := time.Now()

	post, exists := a.postsByID[msg.PostID]
	if !exists {
		context.Respond(utils.NewNotFoundError("Post", msg.PostID))
		return
	}

	// Every like call counts; there is no per-user dedup at this layer.
	post.Likes++

	ctx := stdctx.Background()
	if err := a.db.SavePost(ctx, post); err != nil {
		post.Likes--
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to persist like", err))
		return
	}

	// Credit the author.
	context.Send(a.enginePID, &UpdateKarmaMsg{UserID: post.AuthorID, Delta: 1})

	a.metrics.AddOperationLatency("like_post", time.Since(startTime))
	context.Respond(a.snapshotPost(post))
}

func (a *ContentActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()

	if _, exists := a.postsByID[msg.PostID]; !exists {
		context.Respond(utils.NewNotFoundError("Post", msg.PostID))
		return
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		context.Respond(utils.NewValidationError("comment content must not be empty"))
		return
	}

	newComment := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    msg.PostID,
		AuthorID:  msg.AuthorID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.db.SaveComment(ctx, newComment); err != nil {
		log.Printf("ContentActor: failed to save comment: %v", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save comment", err))
		return
	}

	a.comments[newComment.ID] = newComment
	a.postComments[msg.PostID] = append(a.postComments[msg.PostID], newComment.ID)

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	log.Printf("ContentActor: created comment %s on post %s", newComment.ID, msg.PostID)
	context.Respond(cloneComment(newComment))
}

func (a *ContentActor) handleDeleteComment(context actor.Context, msg *DeleteCommentMsg) {
	startTime := time.Now()

	if _, exists := a.postsByID[msg.PostID]; !exists {
		context.Respond(utils.NewNotFoundError("Post", msg.PostID))
		return
	}

	comment, exists := a.comments[msg.CommentID]
	if !exists || comment.PostID != msg.PostID {
		context.Respond(utils.NewNotFoundError("Comment", msg.CommentID))
		return
	}

	if comment.AuthorID != msg.RequesterID {
		context.Respond(utils.NewUnauthorizedError("only the author may delete a comment"))
		return
	}

	ctx := stdctx.Background()
	if err := a.db.DeleteComment(ctx, msg.CommentID); err != nil && !utils.IsErrorCode(err, utils.ErrNotFound) {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete comment", err))
		return
	}

	delete(a.comments, msg.CommentID)
	a.postComments[msg.PostID] = removePostID(a.postComments[msg.PostID], msg.CommentID)

	a.metrics.AddOperationLatency("delete_comment", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "Comment deleted"})
}

// snapshotPost clones a post and materializes its comment sequence so the
// caller never shares mutable state with the actor.
func (a *ContentActor) snapshotPost(post *models.Post) *models.Post {
	clone := *post
	commentIDs := a.postComments[post.ID]
	clone.Comments = make([]*models.Comment, 0, len(commentIDs))
	for _, commentID := range commentIDs {
		if comment, ok := a.comments[commentID]; ok {
			clone.Comments = append(clone.Comments, cloneComment(comment))
		}
	}
	return &clone
}

func cloneComment(comment *models.Comment) *models.Comment {
	clone := *comment
	return &clone
}

func removePostID(ids []string, id string) []string {
	kept := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}
