package service

import (
	"strings"
	"time"

	"campus-feed/internal/engine"
	"campus-feed/internal/engine/actors"
	"campus-feed/internal/models"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-playground/validator/v10"
)

// Service is the public surface of the content & enrollment core. It checks
// request shape, resolves authors against the identity directory, dispatches
// to the owning actor and maps every failure onto the typed error taxonomy.
// It never retries; callers wanting retries or timeouts wrap it externally.
type Service struct {
	context  *actor.RootContext
	engine   *engine.Engine
	metrics  *utils.MetricsCollector
	validate *validator.Validate
	timeout  time.Duration
}

func New(system *actor.ActorSystem, eng *engine.Engine, metrics *utils.MetricsCollector, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		context:  system.Root,
		engine:   eng,
		metrics:  metrics,
		validate: validator.New(),
		timeout:  timeout,
	}
}

// request sends a message to an actor and unwraps the typed failure, if any.
func (s *Service) request(pid *actor.PID, msg interface{}) (interface{}, error) {
	s.metrics.IncrementRequests()

	future := s.context.RequestFuture(pid, msg, s.timeout)
	result, err := future.Result()
	if err != nil {
		s.metrics.IncrementErrors()
		return nil, utils.NewActorTimeoutError("engine")
	}

	if appErr, ok := result.(*utils.AppError); ok {
		s.metrics.IncrementErrors()
		return nil, appErr
	}
	return result, nil
}

func (s *Service) validateStruct(req interface{}) error {
	if err := s.validate.Struct(req); err != nil {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid request", err)
	}
	return nil
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return utils.NewValidationError(field + " is required")
	}
	return nil
}

// resolveAuthor checks that an author id exists in the identity directory.
// An unresolvable author on a create operation is a validation failure, not
// a not-found: the entity being mutated is the post or comment.
func (s *Service) resolveAuthor(authorID string) error {
	_, err := s.request(s.engine.GetDirectoryActor(), &actors.GetUserMsg{UserID: authorID})
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return utils.NewValidationError("author does not exist: " + authorID)
		}
		return err
	}
	return nil
}

// --- Content operations ---

func (s *Service) CreatePost(req *CreatePostRequest) (*models.Post, error) {
	req.AuthorID = strings.TrimSpace(req.AuthorID)
	req.CourseID = strings.TrimSpace(req.CourseID)
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.resolveAuthor(req.AuthorID); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetContentActor(), &actors.CreatePostMsg{
		AuthorID: req.AuthorID,
		Content:  req.Content,
		CourseID: req.CourseID,
		Image:    req.Image,
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Post), nil
}

func (s *Service) DeletePost(postID, requesterID string) error {
	if err := requireID("postId", postID); err != nil {
		return err
	}
	if err := requireID("requesterId", requesterID); err != nil {
		return err
	}

	_, err := s.request(s.engine.GetContentActor(), &actors.DeletePostMsg{
		PostID:      postID,
		RequesterID: requesterID,
	})
	return err
}

func (s *Service) CreateComment(req *CreateCommentRequest) (*models.Comment, error) {
	req.PostID = strings.TrimSpace(req.PostID)
	req.AuthorID = strings.TrimSpace(req.AuthorID)
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.resolveAuthor(req.AuthorID); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetContentActor(), &actors.CreateCommentMsg{
		PostID:   req.PostID,
		AuthorID: req.AuthorID,
		Content:  req.Content,
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Comment), nil
}

func (s *Service) DeleteComment(postID, commentID, requesterID string) error {
	if err := requireID("postId", postID); err != nil {
		return err
	}
	if err := requireID("commentId", commentID); err != nil {
		return err
	}
	if err := requireID("requesterId", requesterID); err != nil {
		return err
	}

	_, err := s.request(s.engine.GetContentActor(), &actors.DeleteCommentMsg{
		PostID:      postID,
		CommentID:   commentID,
		RequesterID: requesterID,
	})
	return err
}

func (s *Service) LikePost(postID string) (*models.Post, error) {
	if err := requireID("postId", postID); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetContentActor(), &actors.LikePostMsg{PostID: postID})
	if err != nil {
		return nil, err
	}
	return result.(*models.Post), nil
}

func (s *Service) GetPostByID(postID string) (*models.Post, error) {
	if err := requireID("postId", postID); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetContentActor(), &actors.GetPostMsg{PostID: postID})
	if err != nil {
		return nil, err
	}
	return result.(*models.Post), nil
}

func (s *Service) GetPostsByUser(userID string) ([]*models.Post, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	// The read fails with not-found when the user id itself is unknown.
	if _, err := s.request(s.engine.GetDirectoryActor(), &actors.GetUserMsg{UserID: userID}); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetContentActor(), &actors.GetUserPostsMsg{UserID: userID})
	if err != nil {
		return nil, err
	}
	return result.([]*models.Post), nil
}

func (s *Service) GetFeed(limit int) ([]*models.Post, error) {
	result, err := s.request(s.engine.GetContentActor(), &actors.GetFeedMsg{Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.([]*models.Post), nil
}

// --- Enrollment operations ---

func (s *Service) JoinCourse(req *JoinCourseRequest) (*models.Course, error) {
	// Identifier fields are trimmed like every other id; the access code is
	// not, since it is matched byte-exact against the course secret.
	req.UserID = strings.TrimSpace(req.UserID)
	req.CourseID = strings.TrimSpace(req.CourseID)
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetCourseActor(), &actors.JoinCourseMsg{
		UserID:     req.UserID,
		CourseID:   req.CourseID,
		AccessCode: req.AccessCode,
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Course), nil
}

func (s *Service) LeaveCourse(userID, courseID string) error {
	if err := requireID("userId", userID); err != nil {
		return err
	}
	if err := requireID("courseId", courseID); err != nil {
		return err
	}

	_, err := s.request(s.engine.GetCourseActor(), &actors.LeaveCourseMsg{
		UserID:   userID,
		CourseID: courseID,
	})
	return err
}

func (s *Service) ListCourses() ([]*models.Course, error) {
	result, err := s.request(s.engine.GetCourseActor(), &actors.ListCoursesMsg{})
	if err != nil {
		return nil, err
	}
	return result.([]*models.Course), nil
}

func (s *Service) GetCourseByID(courseID string) (*models.Course, error) {
	if err := requireID("courseId", courseID); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetCourseActor(), &actors.GetCourseMsg{CourseID: courseID})
	if err != nil {
		return nil, err
	}
	return result.(*models.Course), nil
}

func (s *Service) GetCourseMembers(courseID string) ([]string, error) {
	if err := requireID("courseId", courseID); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetCourseActor(), &actors.GetCourseMembersMsg{CourseID: courseID})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// --- Identity operations ---

func (s *Service) RegisterUser(req *RegisterUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetDirectoryActor(), &actors.RegisterUserMsg{
		Username:       req.Username,
		Password:       req.Password,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

func (s *Service) LoginUser(req *LoginRequest) (*models.User, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetDirectoryActor(), &actors.LoginMsg{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

func (s *Service) GetUserProfile(userID string) (*models.User, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}

	result, err := s.request(s.engine.GetDirectoryActor(), &actors.GetUserMsg{UserID: userID})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

// Counts reports entity totals for the health endpoint.
func (s *Service) Counts() (map[string]int, error) {
	counts := make(map[string]int, 3)

	targets := map[string]*actor.PID{
		"users":   s.engine.GetDirectoryActor(),
		"courses": s.engine.GetCourseActor(),
		"posts":   s.engine.GetContentActor(),
	}
	for name, pid := range targets {
		result, err := s.request(pid, &actors.GetCountsMsg{})
		if err != nil {
			return nil, err
		}
		counts[name] = result.(int)
	}
	return counts, nil
}
