// internal/database/memory.go
package database

import (
	"context"
	"sync"

	"campus-feed/internal/models"
	"campus-feed/internal/utils"
)

// Memory is an in-process Adapter used by tests and by local runs without a
// MongoDB URI. It stores copies, never the caller's pointers, so it behaves
// like a real store across concurrent actors.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	courses  map[string]*models.Course
	posts    map[string]*models.Post
	comments map[string]*models.Comment

	// Insertion order of comment ids, so GetAllComments replays the same
	// sequence a sorted MongoDB query would.
	commentOrder []string
}

func NewMemory() *Memory {
	return &Memory{
		users:        make(map[string]*models.User),
		courses:      make(map[string]*models.Course),
		posts:        make(map[string]*models.Post),
		comments:     make(map[string]*models.Comment),
		commentOrder: make([]string, 0),
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.EnrolledCourses = append([]string(nil), u.EnrolledCourses...)
	return &c
}

func copyCourse(course *models.Course) *models.Course {
	c := *course
	c.MemberIDs = append([]string(nil), course.MemberIDs...)
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Comments = make([]*models.Comment, 0)
	return &c
}

func copyComment(cm *models.Comment) *models.Comment {
	c := *cm
	return &c
}

func (m *Memory) SaveUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return copyUser(user), nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, utils.NewNotFoundError("User", username)
}

func (m *Memory) GetAllUsers(_ context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, copyUser(user))
	}
	return users, nil
}

func (m *Memory) SaveCourse(_ context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[course.ID] = copyCourse(course)
	return nil
}

func (m *Memory) GetCourse(_ context.Context, id string) (*models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	course, ok := m.courses[id]
	if !ok {
		return nil, utils.NewNotFoundError("Course", id)
	}
	return copyCourse(course), nil
}

func (m *Memory) GetAllCourses(_ context.Context) ([]*models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	courses := make([]*models.Course, 0, len(m.courses))
	for _, course := range m.courses {
		courses = append(courses, copyCourse(course))
	}
	return courses, nil
}

func (m *Memory) SavePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *Memory) GetPost(_ context.Context, id string) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, utils.NewNotFoundError("Post", id)
	}
	return copyPost(post), nil
}

func (m *Memory) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return utils.NewNotFoundError("Post", id)
	}
	delete(m.posts, id)
	return nil
}

func (m *Memory) GetAllPosts(_ context.Context) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	posts := make([]*models.Post, 0, len(m.posts))
	for _, post := range m.posts {
		posts = append(posts, copyPost(post))
	}
	return posts, nil
}

func (m *Memory) SaveComment(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.comments[comment.ID]; !exists {
		m.commentOrder = append(m.commentOrder, comment.ID)
	}
	m.comments[comment.ID] = copyComment(comment)
	return nil
}

func (m *Memory) DeleteComment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return utils.NewNotFoundError("Comment", id)
	}
	delete(m.comments, id)
	m.commentOrder = removeID(m.commentOrder, id)
	return nil
}

func (m *Memory) DeletePostComments(_ context.Context, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]string, 0, len(m.commentOrder))
	for _, id := range m.commentOrder {
		if comment, ok := m.comments[id]; ok && comment.PostID == postID {
			delete(m.comments, id)
			continue
		}
		kept = append(kept, id)
	}
	m.commentOrder = kept
	return nil
}

func (m *Memory) GetAllComments(_ context.Context) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comments := make([]*models.Comment, 0, len(m.commentOrder))
	for _, id := range m.commentOrder {
		if comment, ok := m.comments[id]; ok {
			comments = append(comments, copyComment(comment))
		}
	}
	return comments, nil
}

func removeID(ids []string, id string) []string {
	kept := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}
