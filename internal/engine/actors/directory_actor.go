package actors

import (
	stdctx "context"
	"log"
	"strings"
	"time"

	"campus-feed/internal/database"
	"campus-feed/internal/models"
	"campus-feed/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for DirectoryActor operations
type (
	RegisterUserMsg struct {
		Username       string
		Password       string
		ProfilePicture string
	}

	LoginMsg struct {
		Username string
		Password string
	}

	GetUserMsg struct {
		UserID string
	}

	UpdateKarmaMsg struct {
		UserID string
		Delta  int
	}

	// EnrollmentChangedMsg keeps the user's enrolled-course set in step with
	// the course member sets owned by the CourseActor.
	EnrollmentChangedMsg struct {
		UserID   string
		CourseID string
		Joined   bool
	}

	loadUsersFromDBMsg struct{}
)

// DirectoryActor is the identity directory: it owns the user registry and is
// the only component that mutates user records.
type DirectoryActor struct {
	usersByID    map[string]*models.User
	usernameToID map[string]string
	metrics      *utils.MetricsCollector
	db           database.Adapter
}

func NewDirectoryActor(metrics *utils.MetricsCollector, db database.Adapter) actor.Actor {
	return &DirectoryActor{
		usersByID:    make(map[string]*models.User),
		usernameToID: make(map[string]string),
		metrics:      metrics,
		db:           db,
	}
}

func (a *DirectoryActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("DirectoryActor started with PID: %v", context.Self())
		context.Send(context.Self(), &loadUsersFromDBMsg{})

	case *loadUsersFromDBMsg:
		a.handleLoadUsers()

	case *RegisterUserMsg:
		a.handleRegisterUser(context, msg)

	case *LoginMsg:
		a.handleLogin(context, msg)

	case *GetUserMsg:
		a.handleGetUser(context, msg)

	case *UpdateKarmaMsg:
		a.handleUpdateKarma(msg)

	case *EnrollmentChangedMsg:
		a.handleEnrollmentChanged(msg)

	case *GetCountsMsg:
		context.Respond(len(a.usersByID))
	}
}

func (a *DirectoryActor) handleLoadUsers() {
	ctx := stdctx.Background()

	users, err := a.db.GetAllUsers(ctx)
	if err != nil {
		log.Printf("DirectoryActor: failed to load users: %v", err)
		return
	}

	for _, user := range users {
		a.usersByID[user.ID] = user
		a.usernameToID[user.Username] = user.ID
	}

	log.Printf("DirectoryActor: loaded %d users", len(users))
}

func (a *DirectoryActor) handleRegisterUser(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()

	username := strings.TrimSpace(msg.Username)
	if username == "" {
		context.Respond(utils.NewValidationError("username is required"))
		return
	}
	if msg.Password == "" {
		context.Respond(utils.NewValidationError("password is required"))
		return
	}

	if _, exists := a.usernameToID[username]; exists {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "Username already taken: "+username, nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
		return
	}

	now := time.Now()
	newUser := &models.User{
		ID:              uuid.NewString(),
		Username:        username,
		ProfilePicture:  msg.ProfilePicture,
		HashedPassword:  string(hashed),
		Karma:           0,
		EnrolledCourses: make([]string, 0),
		CreatedAt:       now,
		LastActive:      now,
	}

	ctx := stdctx.Background()
	if err := a.db.SaveUser(ctx, newUser); err != nil {
		log.Printf("DirectoryActor: failed to save user %s: %v", newUser.ID, err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save user", err))
		return
	}

	a.usersByID[newUser.ID] = newUser
	a.usernameToID[username] = newUser.ID

	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	log.Printf("DirectoryActor: registered user %s (%s)", username, newUser.ID)
	context.Respond(cloneUser(newUser))
}

func (a *DirectoryActor) handleLogin(context actor.Context, msg *LoginMsg) {
	startTime := time.Now()

	userID, exists := a.usernameToID[strings.TrimSpace(msg.Username)]
	if !exists {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid username or password", nil))
		return
	}
	user := a.usersByID[userID]

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid username or password", nil))
		return
	}

	user.LastActive = time.Now()
	ctx := stdctx.Background()
	if err := a.db.SaveUser(ctx, user); err != nil {
		log.Printf("DirectoryActor: failed to update activity for user %s: %v", user.ID, err)
	}

	a.metrics.AddOperationLatency("login_user", time.Since(startTime))
	context.Respond(cloneUser(user))
}

func (a *DirectoryActor) handleGetUser(context actor.Context, msg *GetUserMsg) {
	if user, exists := a.usersByID[msg.UserID]; exists {
		context.Respond(cloneUser(user))
		return
	}

	// Read through to storage: another instance may have written the user
	// after this actor warmed its working set.
	user, err := a.db.GetUser(stdctx.Background(), msg.UserID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewNotFoundError("User", msg.UserID))
		}
		return
	}

	a.usersByID[user.ID] = user
	a.usernameToID[user.Username] = user.ID
	context.Respond(cloneUser(user))
}

func (a *DirectoryActor) handleUpdateKarma(msg *UpdateKarmaMsg) {
	user, exists := a.usersByID[msg.UserID]
	if !exists {
		log.Printf("DirectoryActor: karma update for unknown user %s dropped", msg.UserID)
		return
	}

	user.Karma += msg.Delta

	ctx := stdctx.Background()
	if err := a.db.SaveUser(ctx, user); err != nil {
		log.Printf("DirectoryActor: failed to persist karma for user %s: %v", msg.UserID, err)
	}
}

func (a *DirectoryActor) handleEnrollmentChanged(msg *EnrollmentChangedMsg) {
	user, exists := a.usersByID[msg.UserID]
	if !exists {
		log.Printf("DirectoryActor: enrollment sync for unknown user %s dropped", msg.UserID)
		return
	}

	enrolled := make([]string, 0, len(user.EnrolledCourses)+1)
	for _, courseID := range user.EnrolledCourses {
		if courseID != msg.CourseID {
			enrolled = append(enrolled, courseID)
		}
	}
	if msg.Joined {
		enrolled = append(enrolled, msg.CourseID)
	}
	user.EnrolledCourses = enrolled

	ctx := stdctx.Background()
	if err := a.db.SaveUser(ctx, user); err != nil {
		log.Printf("DirectoryActor: failed to persist enrollment for user %s: %v", msg.UserID, err)
	}
}

// cloneUser returns a snapshot safe to hand outside the actor.
func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.EnrolledCourses = append([]string(nil), user.EnrolledCourses...)
	return &clone
}
