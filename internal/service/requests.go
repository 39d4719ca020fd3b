package service

// Request payloads accepted by the service. Field validation runs through
// go-playground/validator after identifier and free-text fields have been
// trimmed, so whitespace-only values fail `required` like empty ones.

type CreatePostRequest struct {
	AuthorID string `json:"userId" validate:"required"`
	Content  string `json:"content" validate:"required"`
	CourseID string `json:"courseId"`
	Image    string `json:"image"`
}

type CreateCommentRequest struct {
	PostID   string `json:"postId" validate:"required"`
	AuthorID string `json:"userId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type JoinCourseRequest struct {
	UserID     string `json:"userId" validate:"required"`
	CourseID   string `json:"courseId" validate:"required"`
	AccessCode string `json:"accessCode"`
}

type RegisterUserRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=32"`
	Password       string `json:"password" validate:"required,min=6"`
	ProfilePicture string `json:"profilePicture"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
